package main

import (
	"context"
	"flag"
	"log"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/usecase/user_management"
	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/postgres"
	"github.com/pizzastore/pizzastore/infrastructure/config"
	"github.com/pizzastore/pizzastore/infrastructure/service/password"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	userPassword := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *userPassword == "" {
		log.Fatal("-email and -password are required")
	}

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Storage != config.StoragePostgres {
		log.Fatalf("create_admin needs STORAGE=%s", config.StoragePostgres)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.DefaultPoolConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	permissions, err := config.LoadPermissionTable(cfg.PermissionsFile)
	if err != nil {
		log.Fatalf("Failed to load permission table: %v", err)
	}
	passwordService, err := password.NewMultiPasswordService(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to initialize password hasher: %v", err)
	}

	userManagement := user_management.NewUserManagementUseCase(
		postgres.NewUserRepositoryAdapter(db),
		postgres.NewRefreshTokenRepositoryAdapter(db),
		passwordService,
		permissions,
	)

	admin, err := userManagement.CreateUser(ctx, inbound.CreateUserRequest{
		Username: *username,
		Email:    *email,
		Password: *userPassword,
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Admin user created: id=%s username=%s email=%s", admin.ID, admin.Username, admin.Email)
}
