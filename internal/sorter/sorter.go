// Package sorter orders in-memory offer records by a single derived key.
//
// Records are plain attribute maps so the same code serves rows loaded from the
// database, decoded JSON payloads and test fixtures. Supported fields:
//
//   - price          total price of the offer
//   - price_per_sqm  price per square meter, derived from price/area when absent
//   - date_added     date the offer was added
//   - area           floor area
package sorter

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Offer is a single offer record keyed by attribute name.
type Offer map[string]any

// SortField enumerates the fields offers can be ordered by.
type SortField string

const (
	SortFieldPrice       SortField = "price"
	SortFieldPricePerSqm SortField = "price_per_sqm"
	SortFieldDateAdded   SortField = "date_added"
	SortFieldArea        SortField = "area"
)

// ParseSortField maps a logical field name onto a SortField.
// The second result is false for empty or unknown names.
func ParseSortField(name string) (SortField, bool) {
	switch field := SortField(name); field {
	case SortFieldPrice, SortFieldPricePerSqm, SortFieldDateAdded, SortFieldArea:
		return field, true
	default:
		return "", false
	}
}

// Direction represents ordering direction. The zero value sorts ascending.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// ParseDirection returns DirectionDesc for "desc" in any letter case and
// DirectionAsc for everything else.
func ParseDirection(value string) Direction {
	if strings.EqualFold(strings.TrimSpace(value), string(DirectionDesc)) {
		return DirectionDesc
	}
	return DirectionAsc
}

// SortOffers returns a new slice holding offers ordered by sortBy.
//
// The input slice is never reordered. Equal keys keep their original relative
// order in both directions. When sortBy is empty or not a known field the
// offers are returned in their original order.
func SortOffers(offers []Offer, sortBy string, direction Direction) []Offer {
	sorted := make([]Offer, len(offers))
	copy(sorted, offers)

	field, ok := ParseSortField(sortBy)
	if !ok || len(sorted) < 2 {
		return sorted
	}

	keyed := make([]keyedOffer, len(sorted))
	for i, offer := range sorted {
		keyed[i] = keyedOffer{offer: offer, key: buildSortKey(offer, field)}
	}

	descending := direction == DirectionDesc
	slices.SortStableFunc(keyed, func(a, b keyedOffer) int {
		c := compareKeys(a.key, b.key)
		if descending {
			return -c
		}
		return c
	})

	for i := range keyed {
		sorted[i] = keyed[i].offer
	}
	return sorted
}

type keyedOffer struct {
	offer Offer
	key   sortKey
}

// sortKey holds either a numeric or a date key. A null key orders before
// every non-null key.
type sortKey struct {
	number decimal.Decimal
	date   time.Time
	null   bool
}

func compareKeys(a, b sortKey) int {
	switch {
	case a.null && b.null:
		return 0
	case a.null:
		return -1
	case b.null:
		return 1
	}
	if c := a.date.Compare(b.date); c != 0 {
		return c
	}
	return a.number.Cmp(b.number)
}

func buildSortKey(offer Offer, field SortField) sortKey {
	switch field {
	case SortFieldPrice:
		return sortKey{number: normalizeDecimal(offer["price"])}
	case SortFieldPricePerSqm:
		return sortKey{number: PricePerSqm(offer)}
	case SortFieldDateAdded:
		date, ok := toDate(offer["date_added"])
		return sortKey{date: date, null: !ok}
	case SortFieldArea:
		return sortKey{number: normalizeDecimal(offer["area"])}
	default:
		return sortKey{number: decimal.Zero}
	}
}

// divisionPrecision is the number of fractional digits kept by price/area.
const divisionPrecision = 28

// PricePerSqm returns the offer's price per square meter. A stored non-null
// price_per_sqm wins, even when malformed; otherwise price/area is derived
// when both are present and area is non-zero. Every other case yields zero.
func PricePerSqm(offer Offer) decimal.Decimal {
	if direct := offer["price_per_sqm"]; !isNull(direct) {
		return normalizeDecimal(direct)
	}

	price, ok := toDecimal(offer["price"])
	if !ok {
		return decimal.Zero
	}
	area, ok := toDecimal(offer["area"])
	if !ok || area.IsZero() {
		return decimal.Zero
	}
	return price.DivRound(area, divisionPrecision)
}
