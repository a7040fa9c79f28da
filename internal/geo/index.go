package geo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ZoneSource - хранилище, из которого загружается индекс
type ZoneSource interface {
	ListZones(ctx context.Context, activeOnly bool) ([]*models.Zone, error)
}

// Index - обновляемый набор зон риска в памяти.
//
// Принадлежность точки зоне определяется расстоянием до центра зоны и радиусом
// по уровню риска (restricted 500 м, high 1000 м, medium 2000 м, safe 5000 м),
// а не пересечением с полигоном. Это упрощение сохранено сознательно: пороги
// оценки безопасности и геозон рассчитаны на него.
//
// Зоны хранятся как неизменяемые снимки: изменение уровня риска подменяет
// указатель на копию, поэтому читатели не видят частично обновленных данных.
type Index struct {
	mu     sync.RWMutex
	zones  map[string]*models.Zone
	loc    *time.Location
	logger *logrus.Logger
}

// NewIndex создает пустой индекс; loc задает часовой пояс для окон ограничений
func NewIndex(logger *logrus.Logger, loc *time.Location) *Index {
	if loc == nil {
		loc = time.Local
	}
	return &Index{
		zones:  make(map[string]*models.Zone),
		loc:    loc,
		logger: logger,
	}
}

// Load заменяет содержимое индекса зонами из источника
func (i *Index) Load(ctx context.Context, src ZoneSource) error {
	zones, err := src.ListZones(ctx, false)
	if err != nil {
		return fmt.Errorf("geo: could not load zones: %w", err)
	}
	next := make(map[string]*models.Zone, len(zones))
	for _, z := range zones {
		next[z.Name] = z.Clone()
	}

	i.mu.Lock()
	i.zones = next
	i.mu.Unlock()

	i.logger.WithFields(logrus.Fields{
		"component": "geo_index",
		"zones":     len(next),
	}).Info("Zone index loaded")
	return nil
}

// Upsert добавляет или заменяет зону
func (i *Index) Upsert(z *models.Zone) {
	c := z.Clone()
	i.mu.Lock()
	i.zones[c.Name] = c
	i.mu.Unlock()
}

// SetRiskLevel меняет базовый уровень риска зоны
func (i *Index) SetRiskLevel(name string, level models.RiskLevel) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	z, ok := i.zones[name]
	if !ok {
		return apperror.NotFound("zone %q not found", name)
	}
	c := z.Clone()
	c.RiskLevel = level
	i.zones[name] = c
	return nil
}

// Deactivate снимает флаг активности
func (i *Index) Deactivate(name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	z, ok := i.zones[name]
	if !ok {
		return apperror.NotFound("zone %q not found", name)
	}
	c := z.Clone()
	c.IsActive = false
	i.zones[name] = c
	return nil
}

// Zone возвращает снимок зоны по имени
func (i *Index) Zone(name string) (*models.Zone, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	z, ok := i.zones[name]
	return z, ok
}

// Zones возвращает все зоны, отсортированные по имени
func (i *Index) Zones(activeOnly bool) []*models.Zone {
	i.mu.RLock()
	out := make([]*models.Zone, 0, len(i.zones))
	for _, z := range i.zones {
		if activeOnly && !z.IsActive {
			continue
		}
		out = append(out, z)
	}
	i.mu.RUnlock()
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// EffectiveRisk возвращает уровень риска зоны в момент at
func (i *Index) EffectiveRisk(name string, at time.Time) (models.RiskLevel, error) {
	z, ok := i.Zone(name)
	if !ok {
		return "", apperror.NotFound("zone %q not found", name)
	}
	return z.EffectiveRisk(at.In(i.loc)), nil
}

// ZonesContaining возвращает зоны, в которые попадает точка, по возрастанию расстояния до центра
func (i *Index) ZonesContaining(lon, lat float64, at time.Time, activeOnly bool) []models.ZoneMatch {
	return i.collect(models.Point{Longitude: lon, Latitude: lat}, at, func(z *models.Zone, dist float64) bool {
		if activeOnly && !z.IsActive {
			return false
		}
		return dist <= z.RiskLevel.ContainmentRadius()
	})
}

// NearbyZones возвращает активные зоны, центр которых не дальше radiusMeters
func (i *Index) NearbyZones(lon, lat, radiusMeters float64, at time.Time) []models.ZoneMatch {
	return i.collect(models.Point{Longitude: lon, Latitude: lat}, at, func(z *models.Zone, dist float64) bool {
		return z.IsActive && dist <= radiusMeters
	})
}

// Nearest возвращает ближайшую активную зону в пределах maxDistance
func (i *Index) Nearest(lon, lat, maxDistance float64, at time.Time) (models.ZoneMatch, bool) {
	matches := i.NearbyZones(lon, lat, maxDistance, at)
	if len(matches) == 0 {
		return models.ZoneMatch{}, false
	}
	return matches[0], true
}

func (i *Index) collect(p models.Point, at time.Time, keep func(*models.Zone, float64) bool) []models.ZoneMatch {
	local := at.In(i.loc)

	i.mu.RLock()
	matches := make([]models.ZoneMatch, 0)
	for _, z := range i.zones {
		// зона без центра пропускается, вызывающий код не падает
		if z.Center == nil {
			continue
		}
		dist := Distance(p, *z.Center)
		if !keep(z, dist) {
			continue
		}
		matches = append(matches, models.ZoneMatch{
			Zone:           z,
			DistanceMeters: dist,
			EffectiveRisk:  z.EffectiveRisk(local),
			TimeRestricted: z.IsRestrictedAt(local),
		})
	}
	i.mu.RUnlock()

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].DistanceMeters == matches[b].DistanceMeters {
			return matches[a].Zone.Name < matches[b].Zone.Name
		}
		return matches[a].DistanceMeters < matches[b].DistanceMeters
	})
	return matches
}

// HighestRisk возвращает наибольший эффективный риск среди совпадений
func HighestRisk(matches []models.ZoneMatch) models.RiskLevel {
	highest := models.RiskSafe
	for _, m := range matches {
		if m.EffectiveRisk.Rank() > highest.Rank() {
			highest = m.EffectiveRisk
		}
	}
	return highest
}
