package models

import "github.com/shopspring/decimal"

// Location holds the geographic part of a listing.
type Location struct {
	LocationID   int64               `gorm:"column:location_id;primaryKey;autoIncrement" json:"location_id"`
	City         *string             `gorm:"size:255" json:"city"`
	Locality     *string             `gorm:"size:255" json:"locality"`
	CityDistrict *string             `gorm:"size:255" json:"city_district"`
	Street       *string             `gorm:"size:255" json:"street"`
	FullAddress  *string             `gorm:"size:500" json:"full_address"`
	Latitude     decimal.NullDecimal `gorm:"type:numeric(9,6)" json:"latitude"`
	Longitude    decimal.NullDecimal `gorm:"type:numeric(9,6)" json:"longitude"`

	Listings []Listing `gorm:"foreignKey:LocationID" json:"-"`
}

func (Location) TableName() string {
	return "location"
}

// LocationResponse is the public representation of a location.
type LocationResponse struct {
	LocationID   int64               `json:"location_id"`
	City         *string             `json:"city"`
	Locality     *string             `json:"locality"`
	CityDistrict *string             `json:"city_district"`
	Street       *string             `json:"street"`
	FullAddress  *string             `json:"full_address"`
	Latitude     decimal.NullDecimal `json:"latitude"`
	Longitude    decimal.NullDecimal `json:"longitude"`
}

func (l Location) Response() LocationResponse {
	return LocationResponse{
		LocationID:   l.LocationID,
		City:         l.City,
		Locality:     l.Locality,
		CityDistrict: l.CityDistrict,
		Street:       l.Street,
		FullAddress:  l.FullAddress,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
	}
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude.Valid && l.Longitude.Valid
}
