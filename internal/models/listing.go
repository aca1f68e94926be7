package models

import "github.com/shopspring/decimal"

type Building struct {
	BuildingID   int64   `gorm:"column:building_id;primaryKey;autoIncrement" json:"building_id"`
	YearBuilt    *int    `json:"year_built"`
	BuildingType *string `gorm:"size:100" json:"building_type"`
	Floor        *int    `json:"floor"`
}

func (Building) TableName() string {
	return "building"
}

type Owner struct {
	OwnerID      int64   `gorm:"column:owner_id;primaryKey;autoIncrement" json:"owner_id"`
	OwnerType    *string `gorm:"size:50" json:"owner_type"`
	ContactName  *string `gorm:"size:255" json:"contact_name"`
	ContactPhone *string `gorm:"size:50" json:"contact_phone"`
	ContactEmail *string `gorm:"size:255" json:"contact_email"`
}

func (Owner) TableName() string {
	return "owner"
}

type Features struct {
	FeaturesID    int64   `gorm:"column:features_id;primaryKey;autoIncrement" json:"features_id"`
	HasBasement   *bool   `json:"has_basement"`
	HasParking    *bool   `json:"has_parking"`
	KitchenType   *string `gorm:"size:100" json:"kitchen_type"`
	WindowType    *string `gorm:"size:100" json:"window_type"`
	OwnershipType *string `gorm:"size:100" json:"ownership_type"`
	Equipment     *string `json:"equipment"`
}

func (Features) TableName() string {
	return "features"
}

// Listing is a single real-estate offer.
type Listing struct {
	ListingID           int64               `gorm:"column:listing_id;primaryKey;autoIncrement" json:"listing_id"`
	LocationID          int64               `gorm:"not null;index" json:"location_id"`
	BuildingID          int64               `gorm:"not null" json:"building_id"`
	OwnerID             int64               `gorm:"not null" json:"owner_id"`
	FeaturesID          int64               `gorm:"not null" json:"features_id"`
	Rooms               *int                `json:"rooms"`
	Area                decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"area"`
	PriceTotalZl        decimal.NullDecimal `gorm:"column:price_total_zl;type:numeric(12,2)" json:"price_total_zl"`
	PriceSqmZl          decimal.NullDecimal `gorm:"column:price_sqm_zl;type:numeric(12,2)" json:"price_sqm_zl"`
	PricePerSqmDetailed decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"price_per_sqm_detailed"`
	DatePosted          *Date               `gorm:"type:date" json:"date_posted"`
	PhotoCount          *int                `json:"photo_count"`
	URL                 *string             `gorm:"column:url;uniqueIndex" json:"url"`
	ImageURL            *string             `gorm:"column:image_url" json:"image_url"`
	DescriptionText     *string             `json:"description_text"`

	Location *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"-"`
	Building *Building `gorm:"foreignKey:BuildingID;references:BuildingID" json:"-"`
	Owner    *Owner    `gorm:"foreignKey:OwnerID;references:OwnerID" json:"-"`
	Features *Features `gorm:"foreignKey:FeaturesID;references:FeaturesID" json:"-"`
}

func (Listing) TableName() string {
	return "listing"
}
