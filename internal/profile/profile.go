package profile

import (
	"strconv"
	"strings"
)

// Category identifies a business vertical. BrandRef names the benchmark
// brands the strategy prompt compares the merchant against.
type Category struct {
	ID       string
	Label    string
	BrandRef string
}

// Categories is the fixed catalog shown on the input page, in display order.
var Categories = []Category{
	{ID: "Restaurant", Label: "Restaurant", BrandRef: "Swiggy/Zomato top brands like Domino's"},
	{ID: "Cafe", Label: "Cafe", BrandRef: "Starbucks or Third Wave Coffee"},
	{ID: "Retail", Label: "Retail", BrandRef: "Westside or H&M"},
	{ID: "Electronics", Label: "Electronics", BrandRef: "Croma or Reliance Digital"},
	{ID: "Grocery", Label: "Grocery", BrandRef: "Zepto or Blinkit"},
	{ID: "Clothing", Label: "Fashion", BrandRef: "Zara or Myntra"},
	{ID: "Gym", Label: "Gym", BrandRef: "Cult.fit"},
	{ID: "Jewelry", Label: "Jewelry", BrandRef: "Tanishq"},
	{ID: "Other", Label: "Other", BrandRef: "premium loyalty programs"},
}

// CategoryByID returns the catalog entry for id, falling back to "Other"
// so a stale or misspelled id never breaks the flow.
func CategoryByID(id string) Category {
	for _, c := range Categories {
		if strings.EqualFold(c.ID, id) {
			return c
		}
	}
	return Categories[len(Categories)-1]
}

// Profile holds the merchant's business inputs. Values are already coerced
// and clamped; downstream consumers can use them without re-validation.
type Profile struct {
	StoreName         string
	Category          Category
	DailyVisits       float64
	AverageOrderValue float64
	DiscountPercent   float64
}

// New builds a Profile from raw form-style string inputs. Non-numeric or
// empty fields coerce to 0 rather than erroring.
func New(storeName, categoryID, visits, aov, discount string) Profile {
	p := Profile{
		StoreName:         strings.TrimSpace(storeName),
		Category:          CategoryByID(categoryID),
		DailyVisits:       CoerceNumber(visits),
		AverageOrderValue: CoerceNumber(aov),
		DiscountPercent:   CoerceNumber(discount),
	}
	p.Clamp()
	return p
}

// CoerceNumber parses a free-form numeric field. Empty or unparseable input
// yields 0; negatives clamp to 0.
func CoerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Clamp forces the numeric fields into their valid ranges. The source UI let
// negative projections through; here they clamp to 0 and discount caps at 100.
func (p *Profile) Clamp() {
	if p.DailyVisits < 0 {
		p.DailyVisits = 0
	}
	if p.AverageOrderValue < 0 {
		p.AverageOrderValue = 0
	}
	if p.DiscountPercent < 0 {
		p.DiscountPercent = 0
	}
	if p.DiscountPercent > 100 {
		p.DiscountPercent = 100
	}
}
