// Package tracking keeps the latest known position of each driver in memory
// and answers arrival estimates against it. Samples arrive from driver
// heartbeats and from backend location polls; readers only ever see the
// newest sample per driver.
package tracking

import (
	"math"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Sample is one recorded driver position.
type Sample struct {
	Location kernel.GeoPoint
	At       time.Time
}

// LocationTracker is a concurrency-safe store of latest driver positions.
type LocationTracker struct {
	avgSpeedKmPerH float64

	mu      sync.RWMutex
	samples map[string]Sample
}

// NewLocationTracker creates a tracker using the given average travel speed
// for arrival estimates.
func NewLocationTracker(avgSpeedKmPerH float64) *LocationTracker {
	return &LocationTracker{
		avgSpeedKmPerH: avgSpeedKmPerH,
		samples:        make(map[string]Sample),
	}
}

// Record stores a position sample. An older sample never overwrites a newer
// one, so an out-of-order poll cannot move a driver backwards.
func (t *LocationTracker) Record(driverID kernel.UUID, location kernel.GeoPoint, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.samples[driverID.String()]; ok && at.Before(existing.At) {
		return
	}

	t.samples[driverID.String()] = Sample{Location: location, At: at}
}

// Latest returns the newest sample for a driver, if any.
func (t *LocationTracker) Latest(driverID kernel.UUID) (Sample, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sample, ok := t.samples[driverID.String()]
	return sample, ok
}

// EtaMinutes returns the estimated minutes for the driver to reach the
// destination at the tracker's average speed, rounded up. Returns nil when
// the driver has no known position.
func (t *LocationTracker) EtaMinutes(driverID kernel.UUID, destination kernel.GeoPoint) *int {
	sample, ok := t.Latest(driverID)
	if !ok {
		return nil
	}

	distanceKm, err := sample.Location.DistanceKm(destination)
	if err != nil {
		return nil
	}

	if t.avgSpeedKmPerH <= 0 {
		return nil
	}

	eta := int(math.Ceil(distanceKm / t.avgSpeedKmPerH * 60))
	return &eta
}
