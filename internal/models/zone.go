package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
)

// RiskLevel - уровень риска зоны, упорядочен: safe < medium < high < restricted
type RiskLevel string

const (
	RiskSafe       RiskLevel = "safe"
	RiskMedium     RiskLevel = "medium"
	RiskHigh       RiskLevel = "high"
	RiskRestricted RiskLevel = "restricted"
)

var riskOrder = []RiskLevel{RiskSafe, RiskMedium, RiskHigh, RiskRestricted}

// ParseRiskLevel проверяет строковое значение уровня риска
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, r := range riskOrder {
		if string(r) == s {
			return r, nil
		}
	}
	return "", apperror.Validation("unknown risk level %q", s)
}

// Rank возвращает позицию уровня в шкале, -1 для неизвестного
func (r RiskLevel) Rank() int {
	for i, level := range riskOrder {
		if level == r {
			return i
		}
	}
	return -1
}

// Elevate поднимает уровень на одну ступень, не выше restricted
func (r RiskLevel) Elevate() RiskLevel {
	i := r.Rank()
	if i < 0 {
		return r
	}
	if i+1 >= len(riskOrder) {
		return RiskRestricted
	}
	return riskOrder[i+1]
}

// ContainmentRadius возвращает радиус (в метрах), которым аппроксимируется граница зоны.
// Это намеренное упрощение вместо пересечения с полигоном: все пороги риска и
// оценки безопасности откалиброваны именно под эти радиусы.
func (r RiskLevel) ContainmentRadius() float64 {
	switch r {
	case RiskRestricted:
		return 500
	case RiskHigh:
		return 1000
	case RiskMedium:
		return 2000
	default:
		return 5000
	}
}

// Point - координата в порядке (долгота, широта)
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Validate проверяет диапазоны координат
func (p Point) Validate() error {
	if p.Longitude < -180 || p.Longitude > 180 {
		return apperror.Validation("longitude %v out of range [-180, 180]", p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return apperror.Validation("latitude %v out of range [-90, 90]", p.Latitude)
	}
	return nil
}

// TimeWindow - ежедневное окно ограничений в формате "HH:MM", может переходить через полночь
type TimeWindow struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

// Validate проверяет формат границ окна
func (w TimeWindow) Validate() error {
	if _, err := parseClock(w.Start); err != nil {
		return apperror.Validation("invalid restriction start %q: %v", w.Start, err)
	}
	if _, err := parseClock(w.End); err != nil {
		return apperror.Validation("invalid restriction end %q: %v", w.End, err)
	}
	return nil
}

// Contains сообщает, попадает ли время суток t в окно (границы включительно)
func (w TimeWindow) Contains(t time.Time) bool {
	start, err := parseClock(w.Start)
	if err != nil {
		return false
	}
	end, err := parseClock(w.End)
	if err != nil {
		return false
	}
	current := t.Hour()*60 + t.Minute()

	// окно через полночь, например 20:00-06:00
	if start > end {
		return current >= start || current <= end
	}
	return current >= start && current <= end
}

func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("expected HH:MM")
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad hour")
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute")
	}
	return h*60 + m, nil
}

// LocalAuthority - контакты местного отделения
type LocalAuthority struct {
	Station            string `json:"station,omitempty"`
	Phone              string `json:"phone,omitempty"`
	ResponsibleOfficer string `json:"responsible_officer,omitempty"`
}

// ZoneStats - статистика инцидентов по зоне
type ZoneStats struct {
	TotalIncidents   int        `json:"total_incidents"`
	LastIncidentDate *time.Time `json:"last_incident_date,omitempty"`
	AvgResponseTime  float64    `json:"avg_response_time"`
}

// Zone - именованная географическая зона с уровнем риска
type Zone struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	RiskLevel      RiskLevel      `json:"risk_level"`
	Boundary       []Point        `json:"boundary"`
	Center         *Point         `json:"center,omitempty"`
	Description    string         `json:"description,omitempty"`
	Restriction    *TimeWindow    `json:"restriction,omitempty"`
	RequiresPermit bool           `json:"requires_permit"`
	MaxGroupSize   int            `json:"max_group_size,omitempty"`
	LocalAuthority LocalAuthority `json:"local_authority"`
	Stats          ZoneStats      `json:"stats"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Validate выполняет проверки при создании зоны
func (z *Zone) Validate() error {
	if strings.TrimSpace(z.Name) == "" {
		return apperror.Validation("zone name is required")
	}
	if z.RiskLevel.Rank() < 0 {
		return apperror.Validation("unknown risk level %q", z.RiskLevel)
	}
	if len(z.Boundary) < 4 {
		return apperror.Validation("zone boundary needs a closed ring of at least 4 points")
	}
	for _, p := range z.Boundary {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if z.Center != nil {
		if err := z.Center.Validate(); err != nil {
			return err
		}
	}
	if z.Restriction != nil {
		if err := z.Restriction.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsRestrictedAt сообщает, действует ли ограничение по времени в момент t
func (z *Zone) IsRestrictedAt(t time.Time) bool {
	if z.Restriction == nil || z.Restriction.Start == "" {
		return false
	}
	return z.Restriction.Contains(t)
}

// EffectiveRisk возвращает уровень риска с учетом времени суток
func (z *Zone) EffectiveRisk(t time.Time) RiskLevel {
	if z.IsRestrictedAt(t) {
		return z.RiskLevel.Elevate()
	}
	return z.RiskLevel
}

// Clone возвращает копию зоны, границы копируются
func (z *Zone) Clone() *Zone {
	c := *z
	c.Boundary = append([]Point(nil), z.Boundary...)
	if z.Center != nil {
		center := *z.Center
		c.Center = &center
	}
	if z.Restriction != nil {
		r := *z.Restriction
		c.Restriction = &r
	}
	if z.Stats.LastIncidentDate != nil {
		d := *z.Stats.LastIncidentDate
		c.Stats.LastIncidentDate = &d
	}
	return &c
}

// Centroid вычисляет среднюю точку кольца; замыкающая точка, совпадающая с первой, не учитывается
func Centroid(ring []Point) Point {
	pts := ring
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) == 0 {
		return Point{}
	}
	var lon, lat float64
	for _, p := range pts {
		lon += p.Longitude
		lat += p.Latitude
	}
	return Point{Longitude: lon / float64(len(pts)), Latitude: lat / float64(len(pts))}
}

// ZoneMatch - зона вместе с расстоянием до точки и эффективным риском
type ZoneMatch struct {
	Zone           *Zone     `json:"zone"`
	DistanceMeters float64   `json:"distance_meters"`
	EffectiveRisk  RiskLevel `json:"effective_risk"`
	TimeRestricted bool      `json:"time_restricted"`
}
