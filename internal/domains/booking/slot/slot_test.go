package slot_test

import (
	"testing"
	"time"

	"campus/config"
	"campus/internal/domains/booking/model"
	"campus/internal/domains/booking/slot"
	"campus/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozen() (*slot.Resolver, time.Time) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, timezone.GetLocation())

	return slot.New(17, 4, timezone.NewFixedClock(now)), now
}

func TestResolve(t *testing.T) {
	resolver, now := frozen()
	loc := timezone.GetLocation()

	tests := []struct {
		index int
		start time.Time
	}{
		{index: 1, start: time.Date(2025, 3, 10, 18, 0, 0, 0, loc)},
		{index: 2, start: time.Date(2025, 3, 10, 19, 0, 0, 0, loc)},
		{index: 3, start: time.Date(2025, 3, 10, 20, 0, 0, 0, loc)},
		{index: 4, start: time.Date(2025, 3, 10, 21, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		window, err := resolver.Resolve(tt.index)
		require.NoError(t, err)

		assert.Equal(t, tt.index, window.Index)
		assert.True(t, tt.start.Equal(window.Start), "slot %d start %s", tt.index, window.Start)
		assert.Equal(t, time.Hour, window.End.Sub(window.Start))
		assert.Equal(t, tt.index, window.Start.Hour()-17)
		assert.Equal(t, now.Day(), window.Start.Day())
	}
}

func TestResolve_OutOfRange(t *testing.T) {
	resolver, _ := frozen()

	for _, index := range []int{-1, 0, 5, 100} {
		_, err := resolver.Resolve(index)
		assert.ErrorIs(t, err, model.ErrInvalidSlot, "index %d", index)
	}
}

func TestIndexOf(t *testing.T) {
	resolver, _ := frozen()

	for index := 1; index <= resolver.Count(); index++ {
		window, err := resolver.Resolve(index)
		require.NoError(t, err)

		assert.Equal(t, index, resolver.IndexOf(window.Start))
		assert.Equal(t, index, resolver.IndexOf(window.Start.UTC()))
	}
}

func TestToday(t *testing.T) {
	resolver, _ := frozen()
	loc := timezone.GetLocation()

	from, to := resolver.Today()

	assert.True(t, from.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, loc)))
	assert.True(t, to.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, loc)))
	assert.True(t, from.Equal(resolver.StartOfToday()))
}

func TestNewResolver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Reservation.SlotBaseHour = 8
	cfg.Reservation.SlotCount = 10

	now := time.Date(2025, 3, 10, 9, 30, 0, 0, timezone.GetLocation())
	resolver := slot.NewResolver(cfg, timezone.NewFixedClock(now))

	window, err := resolver.Resolve(10)
	require.NoError(t, err)
	assert.Equal(t, 18, window.Start.Hour())

	_, err = resolver.Resolve(11)
	assert.ErrorIs(t, err, model.ErrInvalidSlot)
	assert.Equal(t, now, resolver.Now())
}
