package stats

import (
	"context"
	"time"
)

type Repository interface {
	// LoadInputs returns every member, every member package sale and the
	// usage schedules starting in [visitsFrom, visitsTo).
	LoadInputs(
		ctx context.Context,
		visitsFrom time.Time,
		visitsTo time.Time,
	) (Inputs, error)
}
