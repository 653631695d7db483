package timezone_test

import (
	"testing"
	"time"

	"campus/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{name: "iana name", zone: "Asia/Seoul", want: "Asia/Seoul"},
		{name: "empty falls back to utc", zone: "", want: "UTC"},
		{name: "unknown falls back to utc", zone: "Mars/Olympus", want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timezone.Load(tt.zone).String())
		})
	}
}

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestFormat(t *testing.T) {
	instant := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, instant.In(timezone.GetLocation()).Format(time.RFC3339), timezone.Format(instant, time.RFC3339))
}

func TestStartOfDay(t *testing.T) {
	loc := timezone.GetLocation()

	tests := []struct {
		name   string
		moment time.Time
		want   time.Time
	}{
		{name: "evening", moment: time.Date(2025, 3, 10, 19, 45, 12, 0, loc), want: time.Date(2025, 3, 10, 0, 0, 0, 0, loc)},
		{name: "midnight is its own start", moment: time.Date(2025, 3, 10, 0, 0, 0, 0, loc), want: time.Date(2025, 3, 10, 0, 0, 0, 0, loc)},
		{name: "last nanosecond", moment: time.Date(2025, 3, 10, 23, 59, 59, 999999999, loc), want: time.Date(2025, 3, 10, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(timezone.StartOfDay(tt.moment)))
		})
	}
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := timezone.NewSystemClock().Now()

	assert.WithinDuration(t, before, now, time.Second)
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, timezone.GetLocation())
	clock := timezone.NewFixedClock(at)

	require.True(t, clock.Now().Equal(at))
	assert.Equal(t, clock.Now(), clock.Now())
}
