package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service"
)

const touristColumns = `
	id,
	digital_id,
	name,
	email,
	phone,
	nationality,
	trip_start,
	trip_end,
	emergency_contacts,
	ST_X(current_location::geometry) as longitude,
	ST_Y(current_location::geometry) as latitude,
	location_accuracy,
	location_at,
	location_zone,
	history,
	last_activity,
	safety_score,
	is_active,
	created_at,
	updated_at`

type TouristRepository struct {
	db *pgxpool.Pool
}

var _ service.TouristRepository = (*TouristRepository)(nil)

func NewTouristRepository(db *pgxpool.Pool) *TouristRepository {
	return &TouristRepository{db: db}
}

func scanTourist(row rowScanner) (*models.Tourist, error) {
	t := &models.Tourist{History: models.NewLocationHistory()}
	var (
		contacts, history []byte
		lon, lat, acc     *float64
		locAt             *time.Time
		zone              *string
	)
	err := row.Scan(
		&t.ID,
		&t.DigitalID,
		&t.Name,
		&t.Email,
		&t.Phone,
		&t.Nationality,
		&t.Trip.StartDate,
		&t.Trip.EndDate,
		&contacts,
		&lon,
		&lat,
		&acc,
		&locAt,
		&zone,
		&history,
		&t.LastActivity,
		&t.SafetyScore,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(contacts, &t.EmergencyContacts); err != nil {
		return nil, err
	}
	if err := fromJSON(history, t.History); err != nil {
		return nil, err
	}
	if lon != nil && lat != nil {
		loc := &models.Location{Longitude: *lon, Latitude: *lat}
		if acc != nil {
			loc.Accuracy = *acc
		}
		if locAt != nil {
			loc.Timestamp = *locAt
		}
		if zone != nil {
			loc.ZoneName = *zone
		}
		t.CurrentLocation = loc
	}
	return t, nil
}

// locationArgs раскладывает текущую позицию на nullable параметры запроса
func locationArgs(loc *models.Location) (lon, lat, acc *float64, at *time.Time, zone *string) {
	if loc == nil {
		return nil, nil, nil, nil, nil
	}
	return &loc.Longitude, &loc.Latitude, &loc.Accuracy, &loc.Timestamp, &loc.ZoneName
}

// Create сохраняет туриста; запись туристов принадлежит сервису идентификации,
// метод используется при загрузке начальных данных
func (r *TouristRepository) Create(ctx context.Context, t *models.Tourist) error {
	contacts, err := toJSON(nonNilContacts(t.EmergencyContacts))
	if err != nil {
		return err
	}
	history, err := toJSON(t.History)
	if err != nil {
		return err
	}
	lon, lat, acc, at, zone := locationArgs(t.CurrentLocation)

	query := `
		INSERT INTO tourists (
			id, digital_id, name, email, phone, nationality, trip_start, trip_end, emergency_contacts,
			current_location, location_accuracy, location_at, location_zone,
			history, last_activity, safety_score, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			CASE WHEN $10::float8 IS NULL THEN NULL ELSE ST_SetSRID(ST_MakePoint($10, $11), 4326)::geography END,
			$12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO NOTHING;
	`
	_, err = r.db.Exec(ctx, query,
		t.ID, t.DigitalID, t.Name, t.Email, t.Phone, t.Nationality, t.Trip.StartDate, t.Trip.EndDate, contacts,
		lon, lat, acc, at, zone,
		history, t.LastActivity, t.SafetyScore, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, "failed to create tourist %s", t.ID)
	}
	return nil
}

// GetByID возвращает туриста по UUID
func (r *TouristRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tourist, error) {
	t, err := scanTourist(r.db.QueryRow(ctx, `SELECT `+touristColumns+` FROM tourists WHERE id = $1;`, id))
	if err != nil {
		return nil, wrapErr(err, "tourist %s", id)
	}
	return t, nil
}

// Update блокирует строку туриста на время fn; сохраняются только поля, которыми владеет ядро безопасности
func (r *TouristRepository) Update(ctx context.Context, id uuid.UUID, fn func(*models.Tourist) error) (*models.Tourist, error) {
	var updated *models.Tourist
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		current, err := scanTourist(tx.QueryRow(ctx,
			`SELECT `+touristColumns+` FROM tourists WHERE id = $1 FOR UPDATE;`, id))
		if err != nil {
			return wrapErr(err, "tourist %s", id)
		}
		if err := fn(current); err != nil {
			return err
		}
		history, err := toJSON(current.History)
		if err != nil {
			return err
		}
		lon, lat, acc, at, zone := locationArgs(current.CurrentLocation)

		query := `
			UPDATE tourists SET
				current_location = CASE WHEN $1::float8 IS NULL THEN NULL ELSE ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography END,
				location_accuracy = $3,
				location_at = $4,
				location_zone = $5,
				history = $6,
				last_activity = $7,
				safety_score = $8,
				updated_at = NOW()
			WHERE id = $9;
		`
		if _, err := tx.Exec(ctx, query, lon, lat, acc, at, zone, history, current.LastActivity, current.SafetyScore, id); err != nil {
			return wrapErr(err, "failed to update tourist %s", id)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListInactive возвращает активных туристов без активности с момента cutoff
func (r *TouristRepository) ListInactive(ctx context.Context, cutoff time.Time) ([]*models.Tourist, error) {
	query := `SELECT ` + touristColumns + `
		FROM tourists
		WHERE is_active AND last_activity < $1
		ORDER BY last_activity;`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, wrapErr(err, "failed to list inactive tourists")
	}
	defer rows.Close()

	tourists := make([]*models.Tourist, 0)
	for rows.Next() {
		t, err := scanTourist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tourist row: %w", err)
		}
		tourists = append(tourists, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "error list iteration")
	}
	return tourists, nil
}

func nonNilContacts(c []models.EmergencyContact) []models.EmergencyContact {
	if c == nil {
		return []models.EmergencyContact{}
	}
	return c
}
