package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// HistoryCapacity - сколько последних точек хранится в истории перемещений
	HistoryCapacity = 50
	// DefaultAccuracyMeters подставляется, если клиент не прислал точность
	DefaultAccuracyMeters = 10.0
	// InitialSafetyScore - оценка нового туриста
	InitialSafetyScore = 85
)

// Location - снимок позиции туриста
type Location struct {
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
	ZoneName  string    `json:"zone_name,omitempty"`
}

// Point возвращает координаты локации
func (l Location) Point() Point {
	return Point{Longitude: l.Longitude, Latitude: l.Latitude}
}

// LocationHistory - кольцевой буфер фиксированной емкости, старые точки вытесняются
type LocationHistory struct {
	buf   []Location
	start int
	size  int
}

// NewLocationHistory создает пустую историю емкостью HistoryCapacity
func NewLocationHistory() *LocationHistory {
	return &LocationHistory{buf: make([]Location, HistoryCapacity)}
}

// Push добавляет точку, при переполнении вытесняя самую старую
func (h *LocationHistory) Push(loc Location) {
	if h.buf == nil {
		h.buf = make([]Location, HistoryCapacity)
	}
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = loc
		h.size++
		return
	}
	h.buf[h.start] = loc
	h.start = (h.start + 1) % len(h.buf)
}

// Len возвращает количество сохраненных точек
func (h *LocationHistory) Len() int {
	if h == nil {
		return 0
	}
	return h.size
}

// Items возвращает точки от самой старой к самой новой
func (h *LocationHistory) Items() []Location {
	if h == nil || h.size == 0 {
		return []Location{}
	}
	out := make([]Location, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Latest возвращает последнюю добавленную точку
func (h *LocationHistory) Latest() (Location, bool) {
	if h == nil || h.size == 0 {
		return Location{}, false
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)], true
}

// Clone копирует историю
func (h *LocationHistory) Clone() *LocationHistory {
	c := NewLocationHistory()
	for _, loc := range h.Items() {
		c.Push(loc)
	}
	return c
}

func (h *LocationHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Items())
}

func (h *LocationHistory) UnmarshalJSON(data []byte) error {
	var items []Location
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*h = LocationHistory{buf: make([]Location, HistoryCapacity)}
	for _, loc := range items {
		h.Push(loc)
	}
	return nil
}

// EmergencyContact - экстренный контакт туриста
type EmergencyContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// TripWindow - период действия поездки
type TripWindow struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// TripStatus - производный статус поездки
type TripStatus string

const (
	TripUpcoming  TripStatus = "upcoming"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
)

// Tourist - запись о туристе; владелец записи - сервис идентификации
type Tourist struct {
	ID                uuid.UUID          `json:"id"`
	DigitalID         string             `json:"digital_id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	Nationality       string             `json:"nationality"`
	Trip              TripWindow         `json:"trip"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
	CurrentLocation   *Location          `json:"current_location,omitempty"`
	History           *LocationHistory   `json:"history"`
	LastActivity      time.Time          `json:"last_activity"`
	SafetyScore       int                `json:"safety_score"`
	IsActive          bool               `json:"is_active"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// TripStatus вычисляется при чтении и не хранится
func (t *Tourist) TripStatus(now time.Time) TripStatus {
	if now.Before(t.Trip.StartDate) {
		return TripUpcoming
	}
	if now.After(t.Trip.EndDate) {
		return TripCompleted
	}
	return TripActive
}

// IsTripActive сообщает, действует ли поездка в момент now
func (t *Tourist) IsTripActive(now time.Time) bool {
	return t.TripStatus(now) == TripActive
}

// RecordLocation обновляет текущую позицию, историю и время последней активности
func (t *Tourist) RecordLocation(loc Location) {
	t.CurrentLocation = &loc
	if t.History == nil {
		t.History = NewLocationHistory()
	}
	t.History.Push(loc)
	t.LastActivity = loc.Timestamp
}

// Summary возвращает краткие данные для событий и уведомлений
func (t *Tourist) Summary() TouristSummary {
	return TouristSummary{
		ID:        t.ID,
		DigitalID: t.DigitalID,
		Name:      t.Name,
		Phone:     t.Phone,
	}
}

// Clone возвращает глубокую копию записи
func (t *Tourist) Clone() *Tourist {
	c := *t
	c.EmergencyContacts = append([]EmergencyContact(nil), t.EmergencyContacts...)
	if t.CurrentLocation != nil {
		loc := *t.CurrentLocation
		c.CurrentLocation = &loc
	}
	if t.History != nil {
		c.History = t.History.Clone()
	}
	return &c
}

// TouristSummary - краткая информация о туристе
type TouristSummary struct {
	ID        uuid.UUID `json:"id"`
	DigitalID string    `json:"digital_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
}
