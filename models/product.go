package models

import "strconv"

// Column names shared by the raw file, combined dataset and snapshot contracts.
const (
	ColName         = "name"
	ColPrice        = "price"
	ColOldPrice     = "old_price"
	ColDiscount     = "discount"
	ColTotalReviews = "total_reviews"
	ColSource       = "source"
	ColURL          = "url"
	ColCategory     = "category"
)

// FirstSeenMarker is the rendered old price for a product with no snapshot entry.
const FirstSeenMarker = "N/A"

// SnapshotEntry is one persisted (name, source, price) triple — the last
// observed state of a product on one source. Price is nil when the cleaned
// price was unparseable.
type SnapshotEntry struct {
	Name   string
	Source string
	Price  *float64
}

// Alert reports one detected price change or first sighting.
type Alert struct {
	Product  string
	Source   string
	OldPrice *float64 // nil when the product had no snapshot entry
	NewPrice *float64
	URL      string
}

// FirstSeen reports whether this alert is a first sighting rather than a change.
func (a *Alert) FirstSeen() bool { return a.OldPrice == nil }

// OldPriceLabel renders the old price, or the first-seen marker.
func (a *Alert) OldPriceLabel() string {
	if a.OldPrice == nil {
		return FirstSeenMarker
	}
	return FormatPrice(a.OldPrice)
}

// NewPriceLabel renders the new price; empty when unparseable.
func (a *Alert) NewPriceLabel() string { return FormatPrice(a.NewPrice) }

// FormatPrice renders a nullable price with the shortest exact decimal form.
// A nil price renders as the empty string (a null cell).
func FormatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
