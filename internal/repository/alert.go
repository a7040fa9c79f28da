package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service"
)

const alertColumns = `
	id,
	tourist_id,
	digital_id,
	type,
	severity,
	status,
	ST_X(location::geometry) as longitude,
	ST_Y(location::geometry) as latitude,
	accuracy,
	address,
	zone_name,
	details,
	response,
	communications,
	notified_contacts,
	escalation,
	created_at,
	updated_at`

type AlertRepository struct {
	db *pgxpool.Pool
}

var _ service.AlertRepository = (*AlertRepository)(nil)

func NewAlertRepository(db *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{db: db}
}

// rowScanner покрывает pgx.Row и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	a := &models.Alert{}
	var details, response, comms, notified, escalation []byte
	err := row.Scan(
		&a.ID,
		&a.TouristID,
		&a.DigitalID,
		&a.Type,
		&a.Severity,
		&a.Status,
		&a.Location.Longitude,
		&a.Location.Latitude,
		&a.Location.Accuracy,
		&a.Location.Address,
		&a.Location.ZoneName,
		&details,
		&response,
		&comms,
		&notified,
		&escalation,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, col := range []struct {
		data []byte
		dst  any
	}{
		{details, &a.Details},
		{response, &a.Response},
		{comms, &a.Communications},
		{notified, &a.NotifiedContacts},
		{escalation, &a.Escalation},
	} {
		if err := fromJSON(col.data, col.dst); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// alertDocument - сериализованные jsonb колонки тревоги
type alertDocument struct {
	details, response, comms, notified, escalation []byte
}

func encodeAlert(a *models.Alert) (alertDocument, error) {
	var doc alertDocument
	var err error
	if doc.details, err = toJSON(a.Details); err != nil {
		return doc, err
	}
	if doc.response, err = toJSON(a.Response); err != nil {
		return doc, err
	}
	comms := a.Communications
	if comms == nil {
		comms = []models.Communication{}
	}
	if doc.comms, err = toJSON(comms); err != nil {
		return doc, err
	}
	notified := a.NotifiedContacts
	if notified == nil {
		notified = []models.DeliveryResult{}
	}
	if doc.notified, err = toJSON(notified); err != nil {
		return doc, err
	}
	if doc.escalation, err = toJSON(a.Escalation); err != nil {
		return doc, err
	}
	return doc, nil
}

func nullableKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}

const insertAlertQuery = `
	INSERT INTO alerts (
		id, tourist_id, digital_id, type, severity, status, location, accuracy, address, zone_name,
		details, response, communications, notified_contacts, escalation, dedup_key, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19)`

func insertAlertArgs(a *models.Alert, doc alertDocument) []any {
	return []any{
		a.ID,
		a.TouristID,
		a.DigitalID,
		a.Type,
		a.Severity,
		a.Status,
		a.Location.Longitude,
		a.Location.Latitude,
		a.Location.Accuracy,
		a.Location.Address,
		a.Location.ZoneName,
		doc.details,
		doc.response,
		doc.comms,
		doc.notified,
		doc.escalation,
		nullableKey(a.DedupKey()),
		a.CreatedAt,
		a.UpdatedAt,
	}
}

// Create сохраняет новую тревогу
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	doc, err := encodeAlert(alert)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, insertAlertQuery, insertAlertArgs(alert, doc)...); err != nil {
		return wrapErr(err, "failed to create alert %s", alert.ID)
	}
	return nil
}

// CreateIfNoActive вставляет тревогу, если частичный уникальный индекс по ключу дедупликации свободен,
// иначе возвращает уже активную тревогу
func (r *AlertRepository) CreateIfNoActive(ctx context.Context, alert *models.Alert) (*models.Alert, bool, error) {
	key := alert.DedupKey()
	if key == "" {
		if err := r.Create(ctx, alert); err != nil {
			return nil, false, err
		}
		return alert.Clone(), true, nil
	}

	doc, err := encodeAlert(alert)
	if err != nil {
		return nil, false, err
	}
	query := insertAlertQuery + `
		ON CONFLICT (dedup_key) WHERE status = 'active' DO NOTHING;`

	// между конфликтом и чтением активная тревога может закрыться, тогда повторяем вставку
	for attempt := 0; attempt < 3; attempt++ {
		cmdTag, err := r.db.Exec(ctx, query, insertAlertArgs(alert, doc)...)
		if err != nil {
			return nil, false, wrapErr(err, "failed to create alert %s", alert.ID)
		}
		if cmdTag.RowsAffected() == 1 {
			return alert.Clone(), true, nil
		}

		existing, err := scanAlert(r.db.QueryRow(ctx,
			`SELECT `+alertColumns+` FROM alerts WHERE dedup_key = $1 AND status = 'active';`, key))
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, wrapErr(err, "failed to get active alert by dedup key")
		}
	}
	return nil, false, fmt.Errorf("failed to create alert %s: dedup key %q kept changing", alert.ID, key)
}

// GetByID возвращает тревогу по UUID
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	a, err := scanAlert(r.db.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1;`, id))
	if err != nil {
		return nil, wrapErr(err, "alert %s", id)
	}
	return a, nil
}

// Update блокирует строку на время fn и сохраняет изменяемые поля тревоги
func (r *AlertRepository) Update(ctx context.Context, id uuid.UUID, fn func(*models.Alert) error) (*models.Alert, error) {
	var updated *models.Alert
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		current, err := scanAlert(tx.QueryRow(ctx,
			`SELECT `+alertColumns+` FROM alerts WHERE id = $1 FOR UPDATE;`, id))
		if err != nil {
			return wrapErr(err, "alert %s", id)
		}
		if err := fn(current); err != nil {
			return err
		}
		doc, err := encodeAlert(current)
		if err != nil {
			return err
		}

		query := `
			UPDATE alerts SET
				severity = $1,
				status = $2,
				response = $3,
				communications = $4,
				notified_contacts = $5,
				escalation = $6,
				updated_at = $7
			WHERE id = $8;
		`
		if _, err := tx.Exec(ctx, query,
			current.Severity,
			current.Status,
			doc.response,
			doc.comms,
			doc.notified,
			doc.escalation,
			current.UpdatedAt,
			id,
		); err != nil {
			return wrapErr(err, "failed to update alert %s", id)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// List возвращает тревоги от новых к старым с фильтром по статусу и туристу
func (r *AlertRepository) List(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TouristID != nil {
		args = append(args, *filter.TouristID)
		conds = append(conds, fmt.Sprintf("tourist_id = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + alertColumns + ` FROM alerts`)
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, wrapErr(err, "failed to list alerts")
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "error list iteration")
	}
	return alerts, nil
}
