package strategy

import (
	"fmt"
	"math"
	"strings"
)

// Deterministic synthesizer shape: always 10 deals and 5 vouchers.
const (
	fallbackDealCount = 10
)

// Title prefixes cycled across the synthesized deals.
var dealPrefixes = []string{"Super Saver", "Family Feast", "Party Platter", "Duo Delight", "Value Combo"}

// Voucher tiers as AOV multiples: threshold factor and gold-amount factor.
var voucherTiers = []struct {
	threshold float64
	amount    float64
}{
	{1.2, 0.15},
	{1.5, 0.30},
	{2.5, 0.60},
	{3.5, 0.80},
	{5.0, 1.50},
}

// Synthesize builds a complete substitute strategy from parsed menu items
// without any network call. It is pure and deterministic: the same items
// and AOV always produce the same bundle (modulo the bundle ID).
func Synthesize(items []Item, aov float64) *Bundle {
	if len(items) == 0 {
		items = []Item{{Name: fallbackItemName, Price: aov}}
	}

	b := newBundle(OriginFallback)

	for i := 0; i < fallbackDealCount; i++ {
		dealItems := []Item{items[i%len(items)]}
		// Alternate single-item and two-item combos.
		if i%2 == 1 && len(items) > 1 {
			dealItems = append(dealItems, items[(i+1)%len(items)])
		}

		var price float64
		names := make([]string, 0, len(dealItems))
		for _, it := range dealItems {
			price += it.Price
			names = append(names, it.Name)
		}
		gold := math.Max(MinGoldReward, math.Round(price*GoldPercentDefault))

		b.Deals = append(b.Deals, Deal{
			Title:       fmt.Sprintf("%s: %s", dealPrefixes[i%len(dealPrefixes)], strings.Join(names, " + ")),
			Items:       dealItems,
			DealPrice:   price,
			GoldReward:  gold,
			Description: fmt.Sprintf("Buy %s and earn ₹%.0f in gold.", strings.Join(names, " + "), gold),
			Economics:   ComputeEconomics(price, gold),
		})
	}

	for _, tier := range voucherTiers {
		amount := math.Max(MinVoucherAmount, math.Round(aov*tier.amount))
		threshold := math.Round(aov * tier.threshold)
		b.Vouchers = append(b.Vouchers, Voucher{
			Threshold:   threshold,
			Amount:      amount,
			Description: fmt.Sprintf("₹%.0f gold on bills above ₹%.0f", amount, threshold),
		})
	}

	b.RepeatCard = defaultRepeatCard(aov)
	return b
}

// defaultRepeatCard builds the standard retention card from the average
// order value. Shared with the normalizer's back-fill path.
func defaultRepeatCard(aov float64) RepeatCard {
	minSpend := math.Round(aov * RepeatTriggerMultiple)
	reward := math.Max(MinRepeatReward, math.Round(aov*RepeatRewardRate))
	return RepeatCard{
		OfferTitle:          "Come Back Bonus",
		Trigger:             fmt.Sprintf("Bill above ₹%.0f", minSpend),
		NextVisitMinSpend:   minSpend,
		NextVisitGoldReward: reward,
		Tier:                "Gold",
		Description:         fmt.Sprintf("Spend ₹%.0f on your next visit and earn ₹%.0f in gold.", minSpend, reward),
	}
}

// defaultVouchers builds the two starter retention tiers used when a
// provider returns none.
func defaultVouchers(aov float64) []Voucher {
	var out []Voucher
	for _, tier := range voucherTiers[:2] {
		amount := math.Max(MinVoucherAmount, math.Round(aov*tier.amount))
		threshold := math.Round(aov * tier.threshold)
		out = append(out, Voucher{
			Threshold:   threshold,
			Amount:      amount,
			Description: fmt.Sprintf("₹%.0f gold on bills above ₹%.0f", amount, threshold),
		})
	}
	return out
}
