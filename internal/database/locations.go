package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"estatequery/server/internal/models"
)

// ListLocations returns a page of locations ordered by primary key.
func (d *Database) ListLocations(ctx context.Context, skip, limit int) ([]models.Location, error) {
	locations := make([]models.Location, 0)
	err := d.db.WithContext(ctx).
		Order("location_id").
		Offset(skip).
		Limit(limit).
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// GetLocation returns ErrNotFound when no location has the given id.
func (d *Database) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	err := d.db.WithContext(ctx).Where("location_id = ?", id).First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	return &location, nil
}

// ListGeocodedLocations returns every location with both coordinates set.
func (d *Database) ListGeocodedLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := d.db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("location_id").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list geocoded locations: %w", err)
	}
	return locations, nil
}

// ListLocationsMissingCoordinates returns up to limit locations after afterID
// that have an address but lack latitude or longitude.
func (d *Database) ListLocationsMissingCoordinates(ctx context.Context, afterID int64, limit int) ([]models.Location, error) {
	var locations []models.Location
	err := d.db.WithContext(ctx).
		Where("location_id > ?", afterID).
		Where("full_address IS NOT NULL AND full_address <> ''").
		Where("latitude IS NULL OR longitude IS NULL").
		Order("location_id").
		Limit(limit).
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list locations without coordinates: %w", err)
	}
	return locations, nil
}

func (d *Database) UpdateLocationCoordinates(ctx context.Context, id int64, latitude, longitude decimal.Decimal) error {
	result := d.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("location_id = ?", id).
		Updates(map[string]any{
			"latitude":  latitude,
			"longitude": longitude,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update coordinates of location %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
