package strategy

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"goldstrategist/internal/llm"
)

// minUsableDeals is the smallest deal count a strategy can render with.
// Anything below it triggers the deterministic fallback.
const minUsableDeals = 3

// ValidationError marks a provider payload that could not be repaired into
// a usable bundle. The caller substitutes the deterministic fallback.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("strategy payload rejected: %s", e.Reason)
}

// Provider payloads drifted across revisions: items may be a structured
// list or a single descriptive string, the repeat card may be singular or
// an array, and field names vary between the price/gold shorthand and the
// longer forms. rawDeal captures the union.
type rawDeal struct {
	Title       string          `json:"title"`
	Items       json.RawMessage `json:"items"`
	Price       float64         `json:"price"`
	DealPrice   float64         `json:"dealPrice"`
	Gold        float64         `json:"gold"`
	GoldReward  float64         `json:"goldReward"`
	Description string          `json:"description"`
}

type rawVoucher struct {
	Threshold   float64 `json:"threshold"`
	Amount      float64 `json:"amount"`
	Desc        string  `json:"desc"`
	Description string  `json:"description"`
}

type rawRepeatCard struct {
	OfferTitle          string  `json:"offer_title"`
	Trigger             string  `json:"trigger"`
	NextVisitMinSpend   float64 `json:"next_visit_min_spend"`
	NextVisitGoldReward float64 `json:"next_visit_gold_reward"`
	Tier                string  `json:"tier"`
	Description         string  `json:"description"`
}

type rawBundle struct {
	Deals       []rawDeal       `json:"deals"`
	Vouchers    []rawVoucher    `json:"vouchers"`
	RepeatCard  *rawRepeatCard  `json:"repeatCard"`
	RepeatCards []rawRepeatCard `json:"repeatCards"`
}

// Normalize validates and repairs a provider-returned payload into a
// renderable Bundle. Derived numbers (deal price, economics) are always
// recomputed locally; an LLM's arithmetic is never trusted. A payload that
// cannot be repaired returns a *ValidationError.
func Normalize(payload string, aov float64) (*Bundle, error) {
	doc := llm.ExtractJSON(llm.StripFences(payload))
	if doc == "" {
		return nil, &ValidationError{Reason: "no JSON object in payload"}
	}

	var raw rawBundle
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	b := newBundle(OriginGenerated)

	for _, rd := range raw.Deals {
		deal, ok := normalizeDeal(rd)
		if !ok {
			continue
		}
		b.Deals = append(b.Deals, deal)
	}
	if len(b.Deals) < minUsableDeals {
		return nil, &ValidationError{Reason: fmt.Sprintf("only %d usable deals after normalization", len(b.Deals))}
	}

	for _, rv := range raw.Vouchers {
		if rv.Amount <= 0 || rv.Threshold <= 0 {
			continue
		}
		desc := rv.Desc
		if desc == "" {
			desc = rv.Description
		}
		b.Vouchers = append(b.Vouchers, Voucher{
			Threshold:   rv.Threshold,
			Amount:      math.Max(MinVoucherAmount, rv.Amount),
			Description: desc,
		})
	}
	if len(b.Vouchers) == 0 {
		b.Vouchers = defaultVouchers(aov)
	}

	// Schema versions differ on cardinality here: later revisions carry a
	// single card, earlier ones a list. First entry wins.
	card := raw.RepeatCard
	if card == nil && len(raw.RepeatCards) > 0 {
		card = &raw.RepeatCards[0]
	}
	if card == nil || card.Trigger == "" {
		b.RepeatCard = defaultRepeatCard(aov)
	} else {
		b.RepeatCard = RepeatCard{
			OfferTitle:          card.OfferTitle,
			Trigger:             card.Trigger,
			NextVisitMinSpend:   card.NextVisitMinSpend,
			NextVisitGoldReward: math.Max(MinRepeatReward, card.NextVisitGoldReward),
			Tier:                card.Tier,
			Description:         card.Description,
		}
	}

	return b, nil
}

// normalizeDeal repairs one raw deal. Returns ok=false when the deal has no
// usable price at all.
func normalizeDeal(rd rawDeal) (Deal, bool) {
	price := rd.Price
	if price == 0 {
		price = rd.DealPrice
	}

	items := parseDealItems(rd.Items, price)

	// Recompute the deal price from the item sum whenever that sum is
	// positive: providers routinely return contradictory totals.
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	if sum > 0 {
		price = sum
	}
	if price <= 0 {
		return Deal{}, false
	}

	gold := rd.Gold
	if gold == 0 {
		gold = rd.GoldReward
	}
	if gold == 0 {
		gold = math.Round(price * GoldPercentDefault)
	}
	gold = math.Max(MinGoldReward, gold)

	title := strings.TrimSpace(rd.Title)
	if title == "" {
		title = "Combo Offer"
	}

	return Deal{
		Title:       title,
		Items:       items,
		DealPrice:   price,
		GoldReward:  gold,
		Description: rd.Description,
		Economics:   ComputeEconomics(price, gold),
	}, true
}

// parseDealItems handles the items drift: a structured list in later
// revisions, a single descriptive string in earlier ones. The string form
// wraps into a one-element list priced at the stated deal price.
func parseDealItems(raw json.RawMessage, statedPrice float64) []Item {
	if len(raw) == 0 {
		return nil
	}

	var list []Item
	if err := json.Unmarshal(raw, &list); err == nil {
		kept := list[:0]
		for _, it := range list {
			if strings.TrimSpace(it.Name) != "" && it.Price > 0 {
				kept = append(kept, it)
			}
		}
		return kept
	}

	var desc string
	if err := json.Unmarshal(raw, &desc); err == nil && strings.TrimSpace(desc) != "" {
		return []Item{{Name: strings.TrimSpace(desc), Price: statedPrice}}
	}
	return nil
}
