// Package timestamp formats the human-readable timestamps written into task
// documents. Times are shown at a fixed UTC-5 offset labelled "ET"; daylight
// saving is not applied.
package timestamp

import "time"

// Layout is the reference layout of a formatted timestamp.
const Layout = "2006-01-02 15:04:05 ET"

var eastern = time.FixedZone("ET", -5*60*60)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Format renders t in the fixed ET offset.
func Format(t time.Time) string {
	return t.In(eastern).Format(Layout)
}
