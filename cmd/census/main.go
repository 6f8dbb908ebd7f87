// census sincroniza las alícuotas de percepción/retención de IIBB de todos
// los terceros con CUIT contra el padrón de ARBA, y termina.
//
// Uso: go run ./cmd/census [YYYY-MM]
// Sin argumento usa el mes calendario corriente. Pensado para correr desde
// cron al inicio de cada mes, cuando ARBA publica el padrón nuevo.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/arba-api/internal/application/census"
	"github.com/jhoicas/arba-api/internal/infrastructure/arbaws"
	"github.com/jhoicas/arba-api/internal/infrastructure/postgres"
	"github.com/jhoicas/arba-api/pkg/config"
	"github.com/jhoicas/arba-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ref := time.Now()
	if len(os.Args) > 1 {
		ref, err = time.Parse("2006-01", os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "periodo inválido %q, formato YYYY-MM\n", os.Args[1])
			os.Exit(1)
		}
	}
	desde, hasta := census.MonthRange(ref)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	client, err := arbaws.NewClient(cfg.ARBA, cfg.ARBA.AgentCUIT)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del padrón ARBA")
	}

	svc := census.NewSyncService(postgres.NewPartyRepository(pool), client, cfg.ARBA, log)
	res, err := svc.Run(ctx, desde, hasta)
	if err != nil {
		// El progreso parcial ya quedó persistido tercero a tercero.
		log.Error().Err(err).Msg("sincronización interrumpida")
		os.Exit(1)
	}

	log.Info().
		Int("consultados", res.Consulted).
		Int("actualizados", res.Updated).
		Msg("sincronización finalizada")
}
