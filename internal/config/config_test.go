package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelac/internal/types"
)

func TestDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 3, cfg.ACTotalCount)
	assert.Equal(t, 5, cfg.RoomCount)
	assert.Equal(t, float32(25), cfg.DefaultTemp)
	assert.Equal(t, float32(120), cfg.TimeSlice)
	assert.Equal(t, 6.0, cfg.TimeAcceleration)
	assert.Equal(t, float32(100), cfg.BillingRoomRate)
	assert.True(t, cfg.EnableCycleDailyFee)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOTEL_AC_TOTAL_COUNT", "2")
	t.Setenv("HOTEL_TIME_SLICE", "60")
	t.Setenv("TIME_ACCELERATION_FACTOR", "12.5")

	cfg := Load()

	assert.Equal(t, 2, cfg.ACTotalCount)
	assert.Equal(t, float32(60), cfg.TimeSlice)
	assert.Equal(t, 12.5, cfg.TimeAcceleration)
}

func TestTempRanges(t *testing.T) {
	cfg := Load()

	cooling := cfg.TempRange(types.ModeCooling)
	require.Equal(t, float32(18), cooling.Min)
	require.Equal(t, float32(28), cooling.Max)
	require.Equal(t, float32(25), cooling.Default)

	heating := cfg.TempRange(types.ModeHeating)
	require.Equal(t, float32(18), heating.Min)
	require.Equal(t, float32(25), heating.Max)
	require.Equal(t, float32(23), heating.Default)

	assert.True(t, cooling.Contains(18))
	assert.True(t, cooling.Contains(28))
	assert.False(t, cooling.Contains(17.9))
	assert.False(t, cooling.Contains(28.1))
}
