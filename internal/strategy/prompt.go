package strategy

import (
	"fmt"

	"goldstrategist/internal/profile"
)

// BuildPrompt composes the strategist prompt for a merchant profile and
// menu input. The provider is asked for strict JSON in the exact shape the
// normalizer expects; any drift is repaired there, not here.
func BuildPrompt(p profile.Profile, menuText string) string {
	return fmt.Sprintf(`Act as a world-class loyalty strategist for "Discount Dost".
Store: %s (%s). AOV: ₹%.0f. Current discount: %.0f%%. Daily visits: %.0f.
Benchmark this store against %s.

Task: analyze the menu/data below carefully.

1. 10 Deals (Big Combos):
   - Create BIG COMBOS (e.g. "Family Feast", "Party Platter") using REAL items from the input.
   - Price: approx ₹%.0f.
   - Gold reward: ~15%% of the deal price.

2. 5 Gold Vouchers (High Value):
   - Design gold cards that replace cash discounts.
   - Amounts: high value, ₹%.0f to ₹%.0f.
   - Thresholds: upsell, 1.2x to 2x the AOV.

3. 1 Repeat Card (Loyalty):
   - One retention card based on what the customer purchased today.
   - Specify: trigger, offer_title, next_visit_min_spend, next_visit_gold_reward, tier (Silver/Gold/Platinum/Black).

Output rules:
- Output MUST be valid JSON, starting with { and ending with }.
- NO explanations, NO markdown, NO extra text.

Required JSON schema:
{
  "deals": [{"title": "string", "items": [{"name": "string", "price": number}], "price": number, "gold": number, "description": "string"}],
  "vouchers": [{"threshold": number, "amount": number, "desc": "string"}],
  "repeatCard": {"offer_title": "string", "trigger": "string", "next_visit_min_spend": number, "next_visit_gold_reward": number, "tier": "string", "description": "string"}
}

Input data:
%s`,
		p.StoreName, p.Category.Label,
		p.AverageOrderValue, p.DiscountPercent, p.DailyVisits,
		p.Category.BrandRef,
		p.AverageOrderValue,
		p.AverageOrderValue*0.3, p.AverageOrderValue*0.6,
		menuText,
	)
}
