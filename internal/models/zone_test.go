package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m int) time.Time {
	return time.Date(2026, 1, 10, h, m, 0, 0, time.UTC)
}

func TestTimeWindow_Contains(t *testing.T) {
	overnight := TimeWindow{Start: "20:00", End: "06:00"}
	daytime := TimeWindow{Start: "09:30", End: "17:00"}

	tests := []struct {
		window TimeWindow
		at     time.Time
		want   bool
	}{
		{overnight, clock(23, 0), true},
		{overnight, clock(20, 0), true},
		{overnight, clock(6, 0), true},
		{overnight, clock(6, 1), false},
		{overnight, clock(12, 0), false},
		{overnight, clock(19, 59), false},
		{daytime, clock(9, 30), true},
		{daytime, clock(17, 0), true},
		{daytime, clock(17, 1), false},
		{daytime, clock(8, 0), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.window.Contains(tt.at), "%s-%s at %s", tt.window.Start, tt.window.End, tt.at.Format("15:04"))
	}
}

func TestTimeWindow_Validate(t *testing.T) {
	assert.NoError(t, TimeWindow{Start: "00:00", End: "23:59"}.Validate())
	assert.Error(t, TimeWindow{Start: "24:00", End: "01:00"}.Validate())
	assert.Error(t, TimeWindow{Start: "10", End: "11:00"}.Validate())
	assert.Error(t, TimeWindow{Start: "10:00", End: "11:60"}.Validate())
	assert.False(t, TimeWindow{Start: "bad", End: "11:00"}.Contains(clock(10, 0)))
}

func TestRiskLevel_Elevate(t *testing.T) {
	assert.Equal(t, RiskMedium, RiskSafe.Elevate())
	assert.Equal(t, RiskHigh, RiskMedium.Elevate())
	assert.Equal(t, RiskRestricted, RiskHigh.Elevate())
	assert.Equal(t, RiskRestricted, RiskRestricted.Elevate())
}

func TestZone_EffectiveRisk(t *testing.T) {
	z := &Zone{Name: "Beach", RiskLevel: RiskSafe, Restriction: &TimeWindow{Start: "20:00", End: "06:00"}}

	assert.Equal(t, RiskMedium, z.EffectiveRisk(clock(22, 0)))
	assert.Equal(t, RiskSafe, z.EffectiveRisk(clock(14, 0)))

	z.Restriction = nil
	assert.Equal(t, RiskSafe, z.EffectiveRisk(clock(22, 0)))
}

func TestZone_Validate(t *testing.T) {
	ring := []Point{{1, 1}, {1, 2}, {2, 2}, {1, 1}}
	z := &Zone{Name: "Fort", RiskLevel: RiskHigh, Boundary: ring}
	require.NoError(t, z.Validate())

	short := &Zone{Name: "Fort", RiskLevel: RiskHigh, Boundary: ring[:3]}
	assert.True(t, errors.Is(short.Validate(), apperror.ErrValidation))

	badRisk := &Zone{Name: "Fort", RiskLevel: "extreme", Boundary: ring}
	assert.Error(t, badRisk.Validate())

	badPoint := &Zone{Name: "Fort", RiskLevel: RiskHigh, Boundary: []Point{{200, 1}, {1, 2}, {2, 2}, {200, 1}}}
	assert.Error(t, badPoint.Validate())

	noName := &Zone{RiskLevel: RiskHigh, Boundary: ring}
	assert.Error(t, noName.Validate())
}

func TestCentroid_SkipsClosingPoint(t *testing.T) {
	ring := []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}

	assert.Equal(t, Point{Longitude: 1, Latitude: 1}, Centroid(ring))
	assert.Equal(t, Point{}, Centroid(nil))
}

func TestPoint_Validate(t *testing.T) {
	assert.NoError(t, Point{Longitude: 180, Latitude: -90}.Validate())
	assert.Error(t, Point{Longitude: -180.1, Latitude: 0}.Validate())
	assert.Error(t, Point{Longitude: 0, Latitude: 90.5}.Validate())
}
