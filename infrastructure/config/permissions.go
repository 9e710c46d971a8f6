package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/domain/permission"
)

type permissionFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPermissionTable returns the built-in table when path is empty, otherwise
// the table described by the YAML file at path:
//
//	roles:
//	  user: [product:read, category:read]
//	  admin: [product:create, ...]
func LoadPermissionTable(path string) (*permission.Table, error) {
	if path == "" {
		return permission.DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permissions file: %w", err)
	}
	return ParsePermissionTable(data)
}

func ParsePermissionTable(data []byte) (*permission.Table, error) {
	var file permissionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse permissions file: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("parse permissions file: no roles defined")
	}

	roles := make(map[entity.Role][]permission.Permission, len(file.Roles))
	for role, perms := range file.Roles {
		list := make([]permission.Permission, 0, len(perms))
		for _, p := range perms {
			p = strings.TrimSpace(p)
			if !strings.Contains(p, ":") {
				return nil, fmt.Errorf("parse permissions file: role %q: malformed permission %q", role, p)
			}
			list = append(list, permission.Permission(p))
		}
		roles[entity.Role(role)] = list
	}
	return permission.NewTable(roles), nil
}
