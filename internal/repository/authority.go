package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service"
)

const authorityColumns = `
	id,
	badge_number,
	name,
	phone,
	department,
	station,
	is_on_duty,
	ST_X(current_location::geometry) as longitude,
	ST_Y(current_location::geometry) as latitude,
	permissions,
	stats,
	is_active,
	created_at,
	updated_at`

type AuthorityRepository struct {
	db *pgxpool.Pool
}

var _ service.AuthorityRepository = (*AuthorityRepository)(nil)

func NewAuthorityRepository(db *pgxpool.Pool) *AuthorityRepository {
	return &AuthorityRepository{db: db}
}

func scanAuthority(row rowScanner) (*models.Authority, error) {
	a := &models.Authority{}
	var (
		lon, lat *float64
		perms    []string
		stats    []byte
	)
	err := row.Scan(
		&a.ID,
		&a.BadgeNumber,
		&a.Name,
		&a.Phone,
		&a.Department,
		&a.Station,
		&a.IsOnDuty,
		&lon,
		&lat,
		&perms,
		&stats,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lon != nil && lat != nil {
		a.CurrentLocation = &models.Point{Longitude: *lon, Latitude: *lat}
	}
	a.Permissions = make([]models.Permission, 0, len(perms))
	for _, p := range perms {
		a.Permissions = append(a.Permissions, models.Permission(p))
	}
	if err := fromJSON(stats, &a.Stats); err != nil {
		return nil, err
	}
	return a, nil
}

func permissionStrings(perms []models.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

func pointArgs(p *models.Point) (lon, lat *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Longitude, &p.Latitude
}

// Create сохраняет сотрудника; номер жетона уникален
func (r *AuthorityRepository) Create(ctx context.Context, authority *models.Authority) error {
	stats, err := toJSON(authority.Stats)
	if err != nil {
		return err
	}
	lon, lat := pointArgs(authority.CurrentLocation)

	query := `
		INSERT INTO authorities (
			id, badge_number, name, phone, department, station, is_on_duty, current_location,
			permissions, stats, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			CASE WHEN $8::float8 IS NULL THEN NULL ELSE ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography END,
			$10, $11, $12, $13, $14);
	`
	_, err = r.db.Exec(ctx, query,
		authority.ID,
		authority.BadgeNumber,
		authority.Name,
		authority.Phone,
		authority.Department,
		authority.Station,
		authority.IsOnDuty,
		lon,
		lat,
		permissionStrings(authority.Permissions),
		stats,
		authority.IsActive,
		authority.CreatedAt,
		authority.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "authorities_badge_number_key") {
			return apperror.Conflict("badge number %q already registered", authority.BadgeNumber)
		}
		return wrapErr(err, "failed to create authority %s", authority.ID)
	}
	return nil
}

// GetByID возвращает сотрудника по UUID
func (r *AuthorityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Authority, error) {
	a, err := scanAuthority(r.db.QueryRow(ctx, `SELECT `+authorityColumns+` FROM authorities WHERE id = $1;`, id))
	if err != nil {
		return nil, wrapErr(err, "authority %s", id)
	}
	return a, nil
}

// Update блокирует строку сотрудника на время fn и сохраняет дежурство, позицию и статистику
func (r *AuthorityRepository) Update(ctx context.Context, id uuid.UUID, fn func(*models.Authority) error) (*models.Authority, error) {
	var updated *models.Authority
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		current, err := scanAuthority(tx.QueryRow(ctx,
			`SELECT `+authorityColumns+` FROM authorities WHERE id = $1 FOR UPDATE;`, id))
		if err != nil {
			return wrapErr(err, "authority %s", id)
		}
		if err := fn(current); err != nil {
			return err
		}
		stats, err := toJSON(current.Stats)
		if err != nil {
			return err
		}
		lon, lat := pointArgs(current.CurrentLocation)

		query := `
			UPDATE authorities SET
				is_on_duty = $1,
				current_location = CASE WHEN $2::float8 IS NULL THEN NULL ELSE ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography END,
				permissions = $4,
				stats = $5,
				is_active = $6,
				updated_at = $7
			WHERE id = $8;
		`
		if _, err := tx.Exec(ctx, query,
			current.IsOnDuty,
			lon,
			lat,
			permissionStrings(current.Permissions),
			stats,
			current.IsActive,
			current.UpdatedAt,
			id,
		); err != nil {
			return wrapErr(err, "failed to update authority %s", id)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindNearbyOnDuty ищет дежурных сотрудников в радиусе через ST_DWithin, по убыванию рейтинга
func (r *AuthorityRepository) FindNearbyOnDuty(ctx context.Context, point models.Point, radiusMeters float64) ([]*models.Authority, error) {
	query := `SELECT ` + authorityColumns + `
		FROM authorities
		WHERE
			is_active
			AND is_on_duty
			AND current_location IS NOT NULL
			AND ST_DWithin(
				current_location,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
				$3
			)
		ORDER BY (stats->>'rating')::float8 DESC NULLS LAST;
	`
	rows, err := r.db.Query(ctx, query, point.Longitude, point.Latitude, radiusMeters)
	if err != nil {
		return nil, wrapErr(err, "failed to find nearby authorities")
	}
	defer rows.Close()

	authorities := make([]*models.Authority, 0)
	for rows.Next() {
		a, err := scanAuthority(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan authority row: %w", err)
		}
		authorities = append(authorities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "error list iteration")
	}
	return authorities, nil
}
