package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"pet-boarding-backend/internal/adapters/storage/postgres"
	"pet-boarding-backend/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("migrate: .env no encontrado, usando solo el entorno: %v", err)
	}

	cfg := config.MustLoad()
	if cfg.DatabaseURL == "" {
		log.Fatal("migrate: DB_DSN es obligatoria")
	}

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./sql", "directorio con las migraciones")
	flag.Parse()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("migrate: no se pudo conectar a la base: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("migrate: no se pudo cerrar la conexión: %v", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	fmt.Printf("goose %s success\n", command)
}
