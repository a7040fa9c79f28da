package scoring

import (
	"time"

	"github.com/shenikar/tourist_safety_system/internal/models"
)

const maxScore = 100

// Scorer вычисляет оценку безопасности туриста.
// Результат зависит только от входных данных: последней активности,
// эффективного риска текущей зоны и момента расчета.
type Scorer struct {
	loc *time.Location
}

// NewScorer создает оценщик; loc задает часовой пояс для штрафа по времени суток
func NewScorer(loc *time.Location) *Scorer {
	if loc == nil {
		loc = time.Local
	}
	return &Scorer{loc: loc}
}

// Score возвращает оценку 0..100. Пустой zoneRisk означает, что турист вне зон.
func (s *Scorer) Score(lastActivity time.Time, zoneRisk models.RiskLevel, now time.Time) int {
	score := maxScore
	score -= InactivityPenalty(now.Sub(lastActivity))
	score -= ZonePenalty(zoneRisk)
	score -= TimeOfDayPenalty(now.In(s.loc).Hour())
	return clamp(score)
}

// InactivityPenalty: >6ч -30, >3ч -15, >1ч -5
func InactivityPenalty(inactive time.Duration) int {
	switch {
	case inactive > 6*time.Hour:
		return 30
	case inactive > 3*time.Hour:
		return 15
	case inactive > time.Hour:
		return 5
	}
	return 0
}

// ZonePenalty: restricted -40, high -25, medium -10
func ZonePenalty(risk models.RiskLevel) int {
	switch risk {
	case models.RiskRestricted:
		return 40
	case models.RiskHigh:
		return 25
	case models.RiskMedium:
		return 10
	}
	return 0
}

// TimeOfDayPenalty: ночь 22:00-05:59 -15, вечер и раннее утро 18:00-07:59 -5
func TimeOfDayPenalty(hour int) int {
	if isNight(hour) {
		return 15
	}
	if hour >= 18 || hour <= 7 {
		return 5
	}
	return 0
}

// Explain возвращает человекочитаемые факторы оценки
func (s *Scorer) Explain(score int, lastActivity, now time.Time) []string {
	factors := make([]string, 0, 3)
	switch {
	case score >= 80:
		factors = append(factors, "Good safety status")
	case score >= 60:
		factors = append(factors, "Moderate safety status")
	default:
		factors = append(factors, "Low safety status - attention required")
	}

	if now.Sub(lastActivity) > 3*time.Hour {
		factors = append(factors, "Extended inactivity period")
	}
	if isNight(now.In(s.loc).Hour()) {
		factors = append(factors, "Night time travel")
	}
	return factors
}

func isNight(hour int) bool {
	return hour >= 22 || hour <= 5
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
