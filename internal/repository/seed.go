package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/repository/memory"
)

// LoadSeed загружает начальные данные в Postgres; уже существующие записи пропускаются
func LoadSeed(ctx context.Context, db *pgxpool.Pool, r io.Reader) (memory.Seed, error) {
	var seed memory.Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return seed, fmt.Errorf("repository: could not decode seed: %w", err)
	}

	zones := NewZoneRepository(db)
	for _, z := range seed.Zones {
		if err := z.Validate(); err != nil {
			return seed, fmt.Errorf("repository: invalid seed zone %q: %w", z.Name, err)
		}
		if z.Center == nil {
			c := models.Centroid(z.Boundary)
			z.Center = &c
		}
		if err := zones.Create(ctx, z); err != nil && !errors.Is(err, apperror.ErrConflict) {
			return seed, err
		}
	}

	authorities := NewAuthorityRepository(db)
	for _, a := range seed.Authorities {
		if err := authorities.Create(ctx, a); err != nil && !errors.Is(err, apperror.ErrConflict) {
			return seed, err
		}
	}

	tourists := NewTouristRepository(db)
	for _, t := range seed.Tourists {
		if t.History == nil {
			t.History = models.NewLocationHistory()
		}
		if err := tourists.Create(ctx, t); err != nil && !errors.Is(err, apperror.ErrConflict) {
			return seed, err
		}
	}
	return seed, nil
}
