package slots_test

import (
	"testing"
	"time"

	"ms-facility-booking/internal/slots"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := slots.DefaultConfig().Catalog()
	require.NoError(t, err)

	// 08:00-22:00 in 2h steps is seven windows.
	require.Len(t, catalog, 7)
	assert.Equal(t, "08:00", catalog[0].StartTime)
	assert.Equal(t, "10:00", catalog[0].EndTime)
	assert.Equal(t, "20:00", catalog[6].StartTime)
	assert.Equal(t, "22:00", catalog[6].EndTime)

	// Windows are ordered and back-to-back.
	for i := 1; i < len(catalog); i++ {
		assert.Equal(t, catalog[i-1].EndTime, catalog[i].StartTime)
	}
}

func TestCatalogCustomConfig(t *testing.T) {
	cfg := slots.Config{DayStart: "09:00", DayEnd: "17:00", SlotWidth: time.Hour}
	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Len(t, catalog, 8)

	// A width that does not divide the day evenly drops the partial tail.
	cfg = slots.Config{DayStart: "08:00", DayEnd: "21:00", SlotWidth: 2 * time.Hour}
	catalog, err = cfg.Catalog()
	require.NoError(t, err)
	assert.Len(t, catalog, 6)
	assert.Equal(t, "20:00", catalog[5].EndTime)
}

func TestCatalogInvalidConfig(t *testing.T) {
	_, err := slots.Config{DayStart: "22:00", DayEnd: "08:00", SlotWidth: time.Hour}.Catalog()
	assert.Error(t, err)

	_, err = slots.Config{DayStart: "8am", DayEnd: "22:00", SlotWidth: time.Hour}.Catalog()
	assert.Error(t, err)
}

func TestOverlapsHalfOpen(t *testing.T) {
	a, _ := slots.ParseClock("10:00")
	b, _ := slots.ParseClock("12:00")
	c, _ := slots.ParseClock("12:00")
	d, _ := slots.ParseClock("14:00")

	// Back-to-back intervals share an endpoint but do not overlap.
	assert.False(t, slots.Overlaps(a, b, c, d))
	assert.False(t, slots.Overlaps(c, d, a, b))

	// Any shared interior point is an overlap.
	assert.True(t, slots.Overlaps(a, d, b, c+30))
	assert.True(t, slots.Overlaps(a, b, a+30, b+90))
	assert.True(t, slots.Overlaps(a+15, b-15, a, b))
}

func TestClockRoundTrip(t *testing.T) {
	m, err := slots.ParseClock("14:30")
	require.NoError(t, err)
	assert.Equal(t, 870, m)
	assert.Equal(t, "14:30", slots.FormatClock(m))

	_, err = slots.ParseClock("25:00")
	assert.Error(t, err)
}
