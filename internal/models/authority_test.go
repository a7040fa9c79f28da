package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthority_DefaultPermissions(t *testing.T) {
	now := time.Now()

	a, err := NewAuthority("B-17", "Officer Das", "+911234", DepartmentTourism, "Shillong", nil, now)

	require.NoError(t, err)
	assert.Equal(t, DefaultPermissions(DepartmentTourism), a.Permissions)
	assert.Equal(t, 5.0, a.Stats.Rating)
	assert.True(t, a.IsActive)
	assert.False(t, a.IsOnDuty)
	assert.True(t, a.HasPermission(PermCreateZones))
	assert.False(t, a.HasPermission(PermAcknowledgeAlerts))
}

func TestNewAuthority_Validation(t *testing.T) {
	_, err := NewAuthority("", "Name", "", DepartmentPolice, "", nil, time.Now())
	assert.Error(t, err)

	_, err = NewAuthority("B-1", "Name", "", Department("navy"), "", nil, time.Now())
	assert.Error(t, err)
}

func TestHasPermission_AdminHasEverything(t *testing.T) {
	a := &Authority{Department: DepartmentAdmin}
	assert.True(t, a.HasPermission(PermManageAuthorities))
	assert.True(t, a.HasPermission(Permission("anything")))
}

func TestAuthorityStats_RecordResolution(t *testing.T) {
	s := AuthorityStats{Rating: 5, ActiveAlerts: 1}

	s.RecordResolution(10, true)
	assert.Equal(t, 1, s.AlertsHandled)
	assert.Equal(t, 0, s.ActiveAlerts)
	assert.Equal(t, 10.0, s.AvgResponseTime)
	assert.Equal(t, 5.0, s.Rating)

	s.RecordResolution(40, false)
	assert.Equal(t, 2, s.AlertsHandled)
	assert.Equal(t, 1, s.SuccessfulResolutions)
	assert.Equal(t, 25.0, s.AvgResponseTime)
	// 0.5*4 + 1, без бонуса за скорость
	assert.Equal(t, 3.0, s.Rating)
	assert.Equal(t, 0, s.ActiveAlerts)
}
