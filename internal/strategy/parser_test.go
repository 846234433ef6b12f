package strategy

import "testing"

func TestParseItems(t *testing.T) {
	items := ParseItems("Burger 200\nPizza 450\n", 1500)
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Burger" || items[0].Price != 200 {
		t.Errorf("First item = %+v, want Burger/200", items[0])
	}
	if items[1].Name != "Pizza" || items[1].Price != 450 {
		t.Errorf("Second item = %+v, want Pizza/450", items[1])
	}
}

func TestParseItemsSeparators(t *testing.T) {
	items := ParseItems("Masala Dosa: 120\nFilter Coffee - 60\n+ Veg Thali 250", 0)
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %+v", items)
	}
	if items[0].Name != "Masala Dosa" || items[0].Price != 120 {
		t.Errorf("Colon separator parse = %+v", items[0])
	}
	if items[1].Name != "Filter Coffee" || items[1].Price != 60 {
		t.Errorf("Dash separator parse = %+v", items[1])
	}
	if items[2].Name != "Veg Thali" || items[2].Price != 250 {
		t.Errorf("Plus decoration parse = %+v", items[2])
	}
}

func TestParseItemsDropsPricelessLines(t *testing.T) {
	items := ParseItems("Our specials today\nBurger 200\nAsk staff for combos", 1500)
	if len(items) != 1 || items[0].Name != "Burger" {
		t.Errorf("Expected only Burger to survive, got %+v", items)
	}
}

func TestParseItemsEmptyInputYieldsSynthetic(t *testing.T) {
	items := ParseItems("", 1500)
	if len(items) != 1 {
		t.Fatalf("Expected single synthetic item, got %+v", items)
	}
	if items[0].Price != 1500 {
		t.Errorf("Synthetic item priced %v, want the AOV 1500", items[0].Price)
	}
}
