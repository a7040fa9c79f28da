package memory

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shenikar/tourist_safety_system/internal/models"
)

// Seed - начальные данные для режима STORAGE_DRIVER=memory
type Seed struct {
	Tourists    []*models.Tourist   `json:"tourists"`
	Zones       []*models.Zone      `json:"zones"`
	Authorities []*models.Authority `json:"authorities"`
}

// LoadSeed читает JSON с начальными данными и загружает их в хранилище.
// Зоны проверяются так же, как при создании через API; центр вычисляется по границе.
func (s *Store) LoadSeed(r io.Reader) (Seed, error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return seed, fmt.Errorf("memory: could not decode seed: %w", err)
	}

	for _, z := range seed.Zones {
		if err := z.Validate(); err != nil {
			return seed, fmt.Errorf("memory: invalid seed zone %q: %w", z.Name, err)
		}
		if z.Center == nil {
			c := models.Centroid(z.Boundary)
			z.Center = &c
		}
	}

	s.mu.Lock()
	for _, z := range seed.Zones {
		s.zones[z.Name] = z.Clone()
	}
	for _, a := range seed.Authorities {
		s.authorities[a.ID] = a.Clone()
	}
	s.mu.Unlock()

	for _, t := range seed.Tourists {
		s.AddTourist(t)
	}
	return seed, nil
}
