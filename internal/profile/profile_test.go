package profile

import "testing"

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1500", 1500},
		{" 42.5 ", 42.5},
		{"", 0},
		{"abc", 0},
		{"12x", 0},
		{"-10", 0},
	}
	for _, c := range cases {
		if got := CoerceNumber(c.in); got != c.want {
			t.Errorf("CoerceNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewClampsDiscount(t *testing.T) {
	p := New("Cafe Blue", "Cafe", "50", "1500", "150")
	if p.DiscountPercent != 100 {
		t.Errorf("Expected discount capped at 100, got %v", p.DiscountPercent)
	}
	if p.Category.ID != "Cafe" {
		t.Errorf("Expected Cafe category, got %s", p.Category.ID)
	}
}

func TestCategoryByIDFallsBack(t *testing.T) {
	c := CategoryByID("Spaceport")
	if c.ID != "Other" {
		t.Errorf("Expected fallback to Other, got %s", c.ID)
	}
	if CategoryByID("restaurant").ID != "Restaurant" {
		t.Error("Expected case-insensitive category lookup")
	}
}
