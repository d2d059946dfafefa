package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

// SeedCatalog loads the sector and state catalogs. Existing rows are left
// untouched, so it is safe to run on every start.
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sectors := model.Sectors()
	for _, s := range sectors {
		_, err := tx.Exec(ctx,
			"INSERT INTO sectors (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING",
			s.Code, s.Name)
		if err != nil {
			return fmt.Errorf("insert sector %s: %w", s.Code, err)
		}
	}
	log.Info().Int("count", len(sectors)).Msg("seeded sectors")

	states := model.States()
	for _, s := range states {
		_, err := tx.Exec(ctx,
			"INSERT INTO states (code, name, region) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING",
			s.Code, s.Name, model.RegionOf(s.Code))
		if err != nil {
			return fmt.Errorf("insert state %s: %w", s.Code, err)
		}
	}
	log.Info().Int("count", len(states)).Msg("seeded states")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog seed: %w", err)
	}
	return nil
}
