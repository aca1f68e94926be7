package geocoding

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"estatequery/server/internal/models"
)

type LocationStore interface {
	ListLocationsMissingCoordinates(ctx context.Context, afterID int64, limit int) ([]models.Location, error)
	UpdateLocationCoordinates(ctx context.Context, id int64, latitude, longitude decimal.Decimal) error
}

type AddressGeocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// Backfiller fills in coordinates for locations that have an address but no position.
type Backfiller struct {
	store     LocationStore
	geocoder  AddressGeocoder
	batchSize int
	logger    *logrus.Logger
}

func NewBackfiller(store LocationStore, geocoder AddressGeocoder, batchSize int, logger *logrus.Logger) *Backfiller {
	if logger == nil {
		logger = logrus.New()
	}
	if batchSize < 1 {
		batchSize = 50
	}
	return &Backfiller{
		store:     store,
		geocoder:  geocoder,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run walks every location missing coordinates once and returns how many
// were updated. Addresses the geocoder cannot resolve are skipped.
func (b *Backfiller) Run(ctx context.Context) (int, error) {
	updated := 0
	var afterID int64

	for {
		locations, err := b.store.ListLocationsMissingCoordinates(ctx, afterID, b.batchSize)
		if err != nil {
			return updated, err
		}
		if len(locations) == 0 {
			break
		}

		for _, loc := range locations {
			afterID = loc.LocationID

			coords, err := b.geocoder.Geocode(ctx, *loc.FullAddress)
			if errors.Is(err, ErrNoResults) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return updated, ctx.Err()
				}
				b.logger.WithError(err).WithField("location_id", loc.LocationID).Error("Failed to geocode location")
				continue
			}

			if err := b.store.UpdateLocationCoordinates(ctx, loc.LocationID, coords.Latitude, coords.Longitude); err != nil {
				return updated, err
			}
			updated++
		}

		if len(locations) < b.batchSize {
			break
		}
	}

	b.logger.WithField("updated", updated).Info("Finished coordinates backfill")
	return updated, nil
}
