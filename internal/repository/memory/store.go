package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

// Store - хранилище в памяти для локального запуска и тестов.
// Каждое чтение и запись работает с копиями, изменения применяются под общей блокировкой.
type Store struct {
	mu          sync.Mutex
	tourists    map[uuid.UUID]*models.Tourist
	zones       map[string]*models.Zone
	alerts      map[uuid.UUID]*models.Alert
	activeByKey map[string]uuid.UUID
	authorities map[uuid.UUID]*models.Authority
}

func NewStore() *Store {
	return &Store{
		tourists:    make(map[uuid.UUID]*models.Tourist),
		zones:       make(map[string]*models.Zone),
		alerts:      make(map[uuid.UUID]*models.Alert),
		activeByKey: make(map[string]uuid.UUID),
		authorities: make(map[uuid.UUID]*models.Authority),
	}
}

// AddTourist сохраняет туриста; регистрация туристов вне этого сервиса, метод нужен для загрузки данных
func (s *Store) AddTourist(t *models.Tourist) {
	c := t.Clone()
	if c.History == nil {
		c.History = models.NewLocationHistory()
	}
	s.mu.Lock()
	s.tourists[c.ID] = c
	s.mu.Unlock()
}
