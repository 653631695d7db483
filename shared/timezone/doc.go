// Package timezone pins every wall-clock computation to one zone, read from APP_TIMEZONE
// when the package is first imported.
//
// Reservation slots are hours of the local day and the retention sweep cuts at local
// midnight, so code never calls time.Now directly:
//
//	clock := timezone.NewSystemClock()     // production
//	clock := timezone.NewFixedClock(at)    // tests
//	midnight := timezone.StartOfDay(clock.Now())
//
// Only IANA names are accepted ("UTC", "Asia/Seoul", "America/New_York").
package timezone
