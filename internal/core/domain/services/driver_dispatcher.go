package services

import (
	"errors"
	"math"
	"sort"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// ErrNoDriversAvailable is returned when the candidate pool for an order is
// empty: no drivers are online and free, or all of them were excluded.
var ErrNoDriversAvailable = errors.New("no drivers available")

// AssignmentCandidate is one scored driver for an order: the driver itself,
// the straight-line distance to the delivery point, and the estimated travel
// time at the dispatcher's average speed.
type AssignmentCandidate struct {
	Driver     *driver.Driver
	DistanceKm float64
	EtaMinutes int
}

// DriverDispatcher is a domain service that selects the best driver for a
// dispatch-eligible order.
//
// Selection algorithm:
//   - Pool: available drivers, minus an optional exclusion (the previous
//     driver after a post-acceptance cancellation)
//   - Quality floor: drivers below the rating floor are dropped, but only
//     when at least one pooled driver satisfies the floor; a pool of only
//     low-rated drivers is used as-is rather than failing the order
//   - Winner: minimum distance to the delivery point; ties go to the higher
//     rating, then to the lexicographically smaller driver id, so repeated
//     runs over the same pool are deterministic
type DriverDispatcher struct {
	ratingFloor    float64
	avgSpeedKmPerH float64
}

// NewDriverDispatcher creates a DriverDispatcher with the given quality floor
// and the average travel speed used for ETA estimates.
func NewDriverDispatcher(ratingFloor, avgSpeedKmPerH float64) DriverDispatcher {
	return DriverDispatcher{ratingFloor: ratingFloor, avgSpeedKmPerH: avgSpeedKmPerH}
}

// Dispatch selects the best driver for the order and executes the assignment:
// the driver becomes busy and the order records the driver id. The order's
// status does not change — pickup confirmation stays a separate driver action.
//
// excludeDriverID removes one driver from consideration for this attempt,
// which is how a reassignment after a driver cancellation avoids bouncing the
// order back to the driver who just dropped it.
func (d DriverDispatcher) Dispatch(
	o *order.Order,
	drivers []*driver.Driver,
	excludeDriverID *kernel.UUID,
) (*driver.Driver, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	candidates, err := d.Candidates(o.DeliveryPoint(), drivers, excludeDriverID)
	if err != nil {
		return nil, err
	}

	best := candidates[0].Driver
	if err := best.MarkBusy(); err != nil {
		return nil, err
	}

	if err := o.AssignDriver(best.ID()); err != nil {
		best.MarkAvailable()
		return nil, err
	}

	return best, nil
}

// Candidates returns the scored pool for a delivery destination, best first,
// without assigning anyone. Returns ErrNoDriversAvailable when the pool is
// empty.
func (d DriverDispatcher) Candidates(
	destination kernel.GeoPoint,
	drivers []*driver.Driver,
	excludeDriverID *kernel.UUID,
) ([]AssignmentCandidate, error) {
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	pool := make([]*driver.Driver, 0, len(drivers))
	for _, dr := range drivers {
		if err := dr.Validate(); err != nil {
			return nil, err
		}
		if !dr.IsAvailable() {
			continue
		}
		if excludeDriverID != nil && dr.ID().IsEqual(*excludeDriverID) {
			continue
		}
		pool = append(pool, dr)
	}

	pool = d.applyRatingFloor(pool)
	if len(pool) == 0 {
		return nil, ErrNoDriversAvailable
	}

	candidates := make([]AssignmentCandidate, 0, len(pool))
	for _, dr := range pool {
		distanceKm, err := dr.Location().DistanceKm(destination)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, AssignmentCandidate{
			Driver:     dr,
			DistanceKm: distanceKm,
			EtaMinutes: d.etaMinutes(distanceKm),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		if candidates[i].Driver.Rating() != candidates[j].Driver.Rating() {
			return candidates[i].Driver.Rating() > candidates[j].Driver.Rating()
		}
		return candidates[i].Driver.ID().String() < candidates[j].Driver.ID().String()
	})

	return candidates, nil
}

// applyRatingFloor drops drivers below the floor, but only when someone in
// the pool satisfies it. Otherwise the floor is waived for this attempt.
func (d DriverDispatcher) applyRatingFloor(pool []*driver.Driver) []*driver.Driver {
	qualified := make([]*driver.Driver, 0, len(pool))
	for _, dr := range pool {
		if dr.Rating() >= d.ratingFloor {
			qualified = append(qualified, dr)
		}
	}

	if len(qualified) == 0 {
		return pool
	}
	return qualified
}

func (d DriverDispatcher) etaMinutes(distanceKm float64) int {
	if d.avgSpeedKmPerH <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / d.avgSpeedKmPerH * 60))
}
