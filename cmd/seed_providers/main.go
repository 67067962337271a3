// seed_providers carga proveedores (caficultores) de una empresa desde un CSV.
// Acepta exportaciones de Excel en ISO-8859-1 además de UTF-8.
//
// Uso: go run ./cmd/seed_providers <company_id> [ruta/proveedores.csv]
// Por defecto busca proveedores.csv en el directorio actual.
// Columnas reconocidas (encabezado, sin importar mayúsculas ni tildes):
// nombre, contacto, telefono, email, departamento, municipio.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/usecase"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/infrastructure/postgres"
	"github.com/jhoicas/trazabilidad-cafe/pkg/config"
	"github.com/jhoicas/trazabilidad-cafe/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		os.Stderr.WriteString("uso: seed_providers <company_id> [proveedores.csv]\n")
		os.Exit(2)
	}
	companyID := os.Args[1]
	csvPath := "proveedores.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_providers")

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("abrir CSV")
	}
	rows, err := parseProviders(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := usecase.NewProviderUseCase(postgres.NewProviderRepository(pool))
	var created, skipped int
	for _, r := range rows {
		if err := validate.Struct(r.req); err != nil {
			log.Warn().Err(err).Int("line", r.line).Msg("fila inválida, se omite")
			skipped++
			continue
		}
		if _, err := uc.Create(ctx, companyID, r.req); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			log.Fatal().Err(err).Int("line", r.line).Str("name", r.req.Name).Msg("crear proveedor")
		}
		created++
	}
	log.Info().Int("created", created).Int("skipped", skipped).Str("company_id", companyID).Msg("proveedores cargados")
}
