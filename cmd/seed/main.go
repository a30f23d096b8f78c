// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain/catalogs/material"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/infrastructure/numerator"
	"sitestock/internal/infrastructure/storage/postgres"
	"sitestock/internal/infrastructure/storage/postgres/catalog_repo"
	"sitestock/internal/infrastructure/storage/postgres/ledger_repo"
	"sitestock/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	materials := material.NewService(catalog_repo.NewMaterialRepo(txManager, nil), numerator.New(pool))
	ledgerSvc := ledger.NewService(ledger_repo.NewProjectMaterialRepo(txManager, nil), txManager, ledger.StrictEnforcement{})

	seeded, err := seedMaterials(ctx, materials)
	if err != nil {
		log.Fatalw("failed to seed materials", "error", err)
	}
	log.Infow("materials seeded", "count", len(seeded))

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoProject(ctx, ledgerSvc, seeded, log); err != nil {
			log.Fatalw("failed to seed demo project", "error", err)
		}
	}

	log.Info("seeding complete")
}

func seedMaterials(ctx context.Context, materials *material.Service) ([]*material.Material, error) {
	items := []struct {
		name     string
		category material.Category
		unit     string
		rate     string
	}{
		{"Cement OPC 53", material.CategoryStructural, "bag", "380"},
		{"TMT Steel 12mm", material.CategoryStructural, "kg", "62"},
		{"River Sand", material.CategoryStructural, "m3", "1500"},
		{"Copper Wire 2.5sqmm", material.CategoryElectrical, "m", "28"},
		{"PVC Pipe 110mm", material.CategoryPlumbing, "m", "210"},
	}

	seeded := make([]*material.Material, 0, len(items))
	for _, it := range items {
		m := material.New("", it.name, it.category, it.unit, types.MustMoney(it.rate))
		if err := materials.Create(ctx, m); err != nil {
			return nil, fmt.Errorf("create material %q: %w", it.name, err)
		}
		seeded = append(seeded, m)
	}
	return seeded, nil
}

func seedDemoProject(ctx context.Context, ledgerSvc *ledger.Service, seeded []*material.Material, log *logger.Logger) error {
	projectID := id.New()
	assignments := []string{"500", "2000", "40", "1200", "300"}

	for i, m := range seeded {
		assigned, err := types.ParseQuantity(assignments[i%len(assignments)])
		if err != nil {
			return err
		}
		if _, err := ledgerSvc.Attach(ctx, projectID, m.ID, assigned); err != nil {
			return fmt.Errorf("attach %q: %w", m.Name, err)
		}
	}

	log.Infow("demo project seeded", "project_id", projectID, "materials", len(seeded))
	return nil
}
