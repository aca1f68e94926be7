package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estatequery/server/internal/models"
)

// sortableColumns maps public sort fields onto listing columns.
var sortableColumns = map[string]string{
	"price": "price_total_zl",
}

// OfferQuery holds the optional ordering of an offer listing.
type OfferQuery struct {
	SortBy string
	Order  string
}

// ApplyOrdering adds an ORDER BY clause for a whitelisted sort field.
// Unknown or empty fields leave the query unchanged. Any order other than
// "asc" sorts descending.
func ApplyOrdering(db *gorm.DB, sortBy, order string) *gorm.DB {
	if sortBy == "" {
		return db
	}

	column, ok := sortableColumns[sortBy]
	if !ok {
		return db
	}

	desc := !strings.EqualFold(strings.TrimSpace(order), "asc")
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "listing_id"}})
}

func (d *Database) ListOffers(ctx context.Context, query OfferQuery) ([]models.Listing, error) {
	offers := make([]models.Listing, 0)
	stmt := ApplyOrdering(d.db.WithContext(ctx).Model(&models.Listing{}), query.SortBy, query.Order)
	if err := stmt.Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// UpsertListings inserts a batch of listings, replacing rows that share a URL.
func UpsertListings(tx *gorm.DB, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			UpdateAll: true,
		}).
		Create(listings).Error
	if err != nil {
		return fmt.Errorf("failed to upsert listings: %w", err)
	}
	return nil
}
