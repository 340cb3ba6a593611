package main

import (
	"flag"
	"log"

	"github.com/UnknownOlympus/taskboard/internal/config"
	"github.com/UnknownOlympus/taskboard/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "migrations", "directory with goose migrations")
	flag.Parse()

	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}

	dtb := stdlib.OpenDBFromPool(dbpool)
	if migrationErr := goose.Up(dtb, migrationsDir); migrationErr != nil {
		log.Fatalf("Failed to apply migrations: %v", migrationErr)
	}

	log.Println("✅ Migrations applied successfully")
}
