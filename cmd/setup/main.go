package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/necroledger/necroledger-api/internal/config"
	"github.com/necroledger/necroledger-api/internal/database"
	"github.com/necroledger/necroledger-api/internal/repository"
	"github.com/necroledger/necroledger-api/internal/services"
	"github.com/necroledger/necroledger-api/pkg/logger"
)

// Installation check: connects, migrates and seeds the database, then reports what it found.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Setup("development")

	log.Println("NECROLEDGER - verificación de instalación")
	log.Println(strings.Repeat("=", 50))

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Error de base de datos (%s): %v", cfg.DatabaseDriver, err)
		os.Exit(1)
	}
	log.Printf("Conexión a %s exitosa", cfg.DatabaseDriver)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error al migrar el esquema: %v", err)
	}
	log.Println("Esquema actualizado")

	ctx := context.Background()
	repos := repository.NewRepositories(db)
	report, err := services.NewSetupService(repos, cfg.AdminPassword).EnsureDefaults(ctx)
	if err != nil {
		log.Fatalf("Error al crear datos iniciales: %v", err)
	}
	if report.AdminCreated {
		log.Printf("Usuario %s creado", services.AdminUsername)
	} else {
		log.Printf("Usuario %s ya existe", services.AdminUsername)
	}
	log.Printf("Cuentas contables creadas: %d", len(report.AccountsCreated))

	accounts, err := services.NewAccountService(repos.Account).ListActive(ctx)
	if err != nil {
		log.Fatalf("Error al leer el catálogo de cuentas: %v", err)
	}
	log.Printf("Cuentas activas: %d", len(accounts))

	unbalanced, err := services.NewJournalService(repos).FindUnbalanced(ctx)
	if err != nil {
		log.Fatalf("Error al verificar asientos: %v", err)
	}
	if len(unbalanced) > 0 {
		for _, e := range unbalanced {
			log.Printf("Asiento descuadrado: %s (debe %s, haber %s)", e.Number, e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
		}
		os.Exit(2)
	}

	log.Println(strings.Repeat("=", 50))
	log.Println("Todo está listo. Ejecuta: go run ./cmd/api")
}
