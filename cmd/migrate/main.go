package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/pizzastore/pizzastore/infrastructure/adapter/postgres"
	"github.com/pizzastore/pizzastore/infrastructure/config"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	dsn, err := config.LoadDatabaseURL()
	if err != nil {
		log.Fatalf("failed to load database settings: %v", err)
	}

	db, err := postgres.Open(context.Background(), dsn, postgres.DefaultPoolConfig())
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	switch strings.ToLower(*mode) {
	case "up":
		if err := postgres.MigrateUp(db); err != nil {
			log.Fatalf("%v", err)
		}
		log.Println("Migration up completed successfully")
	case "down":
		if err := postgres.MigrateDown(db); err != nil {
			log.Fatalf("%v", err)
		}
		log.Println("Migration down completed successfully")
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
}
