// Command migrate manages the facility booking schema outside the
// service process: up, down, or a fresh seeded database for local
// development.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-facility-booking/internal/config"
	"ms-facility-booking/internal/database/migrations"
)

func main() {
	_ = godotenv.Load()

	var (
		dir  = flag.String("dir", "./migrations", "migrations directory")
		down = flag.Bool("down", false, "roll back all migrations")
		seed = flag.Bool("seed", false, "also run seed migrations")
	)
	flag.Parse()

	cfg := config.Load()

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open Postgres connection: %v", err)
	}
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
		MigrationsDir: *dir,
		AutoMigrate:   true,
		SeedData:      *seed,
	})
	defer runner.Close()

	if *down {
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		fmt.Println("All migrations rolled back.")
		return
	}

	if err := runner.RunMigrations(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migrations applied.")
}
