package timezone

import (
	"sync/atomic"
	"time"

	"campus/config"

	"github.com/rs/zerolog/log"
)

var appLocation atomic.Pointer[time.Location]

func init() {
	appLocation.Store(Load(config.Get().App.Timezone))
}

// Load resolves an IANA zone name. Slot windows and the retention cutoff are wall-clock
// times of this zone, so an unknown name falls back to UTC loudly instead of failing.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use IANA names like 'Asia/Seoul' or 'Europe/London'")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

// GetLocation returns the application timezone.
func GetLocation() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Format formats t as wall-clock time of the application timezone.
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
