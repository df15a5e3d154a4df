package scraper

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// FlightGroup deduplicates concurrent scrapes of the same page. Multiple
// callers asking for one key share a single in-flight fetch.
type FlightGroup struct {
	group singleflight.Group
}

// NewFlightGroup creates an empty flight group.
func NewFlightGroup() *FlightGroup {
	return &FlightGroup{}
}

// Do executes fn under singleflight for key. Concurrent calls with the same
// key block on the first call and share its result.
func (f *FlightGroup) Do(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, error) {
	result, err, _ := f.group.Do(key, func() (interface{}, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return fn()
	})
	return result, err
}

// Forget removes a key, allowing the next call to execute fresh.
func (f *FlightGroup) Forget(key string) {
	f.group.Forget(key)
}
