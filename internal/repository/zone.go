package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service"
)

const zoneColumns = `
	id,
	name,
	risk_level,
	boundary,
	ST_X(center::geometry) as longitude,
	ST_Y(center::geometry) as latitude,
	description,
	restriction,
	requires_permit,
	max_group_size,
	local_authority,
	stats,
	is_active,
	created_at,
	updated_at`

type ZoneRepository struct {
	db *pgxpool.Pool
}

var _ service.ZoneRepository = (*ZoneRepository)(nil)

func NewZoneRepository(db *pgxpool.Pool) *ZoneRepository {
	return &ZoneRepository{db: db}
}

func scanZone(row rowScanner) (*models.Zone, error) {
	z := &models.Zone{Center: &models.Point{}}
	var boundary, restriction, authority, stats []byte
	err := row.Scan(
		&z.ID,
		&z.Name,
		&z.RiskLevel,
		&boundary,
		&z.Center.Longitude,
		&z.Center.Latitude,
		&z.Description,
		&restriction,
		&z.RequiresPermit,
		&z.MaxGroupSize,
		&authority,
		&stats,
		&z.IsActive,
		&z.CreatedAt,
		&z.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(boundary, &z.Boundary); err != nil {
		return nil, err
	}
	if len(restriction) > 0 && string(restriction) != "null" {
		z.Restriction = &models.TimeWindow{}
		if err := fromJSON(restriction, z.Restriction); err != nil {
			return nil, err
		}
	}
	if err := fromJSON(authority, &z.LocalAuthority); err != nil {
		return nil, err
	}
	if err := fromJSON(stats, &z.Stats); err != nil {
		return nil, err
	}
	return z, nil
}

// Create сохраняет зону; имя зоны уникально
func (r *ZoneRepository) Create(ctx context.Context, zone *models.Zone) error {
	boundary, err := toJSON(zone.Boundary)
	if err != nil {
		return err
	}
	var restriction []byte
	if zone.Restriction != nil {
		if restriction, err = toJSON(zone.Restriction); err != nil {
			return err
		}
	}
	authority, err := toJSON(zone.LocalAuthority)
	if err != nil {
		return err
	}
	stats, err := toJSON(zone.Stats)
	if err != nil {
		return err
	}
	center := models.Centroid(zone.Boundary)
	if zone.Center != nil {
		center = *zone.Center
	}

	query := `
		INSERT INTO zones (
			id, name, risk_level, boundary, center, description, restriction, requires_permit,
			max_group_size, local_authority, stats, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = r.db.Exec(ctx, query,
		zone.ID,
		zone.Name,
		zone.RiskLevel,
		boundary,
		center.Longitude,
		center.Latitude,
		zone.Description,
		restriction,
		zone.RequiresPermit,
		zone.MaxGroupSize,
		authority,
		stats,
		zone.IsActive,
		zone.CreatedAt,
		zone.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "zones_name_key") {
			return apperror.Conflict("zone %q already exists", zone.Name)
		}
		return wrapErr(err, "failed to create zone %q", zone.Name)
	}
	return nil
}

// ListZones возвращает зоны, отсортированные по имени
func (r *ZoneRepository) ListZones(ctx context.Context, activeOnly bool) ([]*models.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE is_active OR NOT $1 ORDER BY name;`
	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, wrapErr(err, "failed to list zones")
	}
	defer rows.Close()

	zones := make([]*models.Zone, 0)
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zone row: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "error list iteration")
	}
	return zones, nil
}

// GetByName возвращает зону по имени
func (r *ZoneRepository) GetByName(ctx context.Context, name string) (*models.Zone, error) {
	z, err := scanZone(r.db.QueryRow(ctx, `SELECT `+zoneColumns+` FROM zones WHERE name = $1;`, name))
	if err != nil {
		return nil, wrapErr(err, "zone %q", name)
	}
	return z, nil
}

// UpdateRiskLevel меняет базовый уровень риска и возвращает обновленную зону
func (r *ZoneRepository) UpdateRiskLevel(ctx context.Context, name string, level models.RiskLevel) (*models.Zone, error) {
	query := `
		UPDATE zones SET
			risk_level = $1,
			updated_at = NOW()
		WHERE name = $2
		RETURNING ` + zoneColumns + `;`
	z, err := scanZone(r.db.QueryRow(ctx, query, level, name))
	if err != nil {
		return nil, wrapErr(err, "zone %q", name)
	}
	return z, nil
}

// Deactivate снимает зону с учета, запись остается в базе
func (r *ZoneRepository) Deactivate(ctx context.Context, name string) error {
	query := `
		UPDATE zones SET
			is_active = FALSE,
			updated_at = NOW()
		WHERE name = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, name)
	if err != nil {
		return wrapErr(err, "failed to deactivate zone %q", name)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("zone %q not found", name)
	}
	return nil
}
