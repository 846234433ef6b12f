// Package strategy models the promotional strategy bundle (combo deals,
// gold vouchers, repeat-business card) and the machinery that produces one:
// the prompt sent to generation providers, the normalizer that repairs
// their replies, and the deterministic fallback used when generation is
// unavailable.
package strategy

import (
	"math"

	"github.com/google/uuid"

	"goldstrategist/internal/llm"
)

// Fixed business constants of the gold economy.
const (
	// GoldPercentDefault sizes a deal's gold reward when the provider
	// omits it: ~15% of the deal price.
	GoldPercentDefault = 0.15

	// MinGoldReward is the floor for any deal's gold reward, in rupees.
	MinGoldReward = 50

	// MinVoucherAmount is the floor for any voucher's gold amount.
	MinVoucherAmount = 50

	// Repeat-card sizing: trigger at 1.5x the average bill, reward 40% of
	// it with a ₹100 floor.
	RepeatTriggerMultiple = 1.5
	RepeatRewardRate      = 0.4
	MinRepeatReward       = 100

	// Deal economics: the platform keeps 10% of the bill, GST is 18% of
	// that fee.
	platformFeeRate = 0.10
	gstRate         = 0.18
)

// Item is one menu entry inside a deal.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Economics is the derived profitability breakdown of a deal. These figures
// are always recomputed locally, never taken from a provider.
type Economics struct {
	PlatformFee float64 `json:"platformFee"`
	GST         float64 `json:"gst"`
	NetEarning  float64 `json:"netMerchantEarning"`
}

// ComputeEconomics derives the fee, tax and net receivable for a deal.
func ComputeEconomics(dealPrice, goldReward float64) Economics {
	fee := math.Round(dealPrice * platformFeeRate)
	gst := math.Round(fee * gstRate)
	return Economics{
		PlatformFee: fee,
		GST:         gst,
		NetEarning:  dealPrice - goldReward - fee - gst,
	}
}

// Deal is one combo offer: a priced basket of items with a gold reward.
type Deal struct {
	Title       string    `json:"title"`
	Items       []Item    `json:"items"`
	DealPrice   float64   `json:"dealPrice"`
	GoldReward  float64   `json:"goldReward"`
	Description string    `json:"description,omitempty"`
	Economics   Economics `json:"derived"`
}

// Voucher is one retention tier: gold granted on bills above a threshold.
type Voucher struct {
	Threshold   float64 `json:"spendThreshold"`
	Amount      float64 `json:"goldAmount"`
	Description string  `json:"description,omitempty"`
}

// RepeatCard is the single loyalty card of a strategy: what today's
// purchase triggers for the next visit.
type RepeatCard struct {
	OfferTitle          string  `json:"offerTitle"`
	Trigger             string  `json:"triggerCondition"`
	NextVisitMinSpend   float64 `json:"nextVisitMinSpend"`
	NextVisitGoldReward float64 `json:"nextVisitGoldReward"`
	Tier                string  `json:"tierLabel"`
	Description         string  `json:"description,omitempty"`
}

// Origin records how a bundle was produced.
type Origin string

const (
	// OriginGenerated marks a bundle produced by a generation provider.
	OriginGenerated Origin = "generated"
	// OriginFallback marks a deterministic substitute; results are
	// approximate but the user is never blocked.
	OriginFallback Origin = "fallback"
)

// Bundle is the aggregate strategy: replaced wholesale on regeneration,
// never partially mutated.
type Bundle struct {
	ID         string                `json:"id"`
	Origin     Origin                `json:"origin"`
	Deals      []Deal                `json:"deals"`
	Vouchers   []Voucher             `json:"vouchers"`
	RepeatCard RepeatCard            `json:"repeatCard"`
	Sources    []llm.GroundingSource `json:"groundingSources,omitempty"`
}

func newBundle(origin Origin) *Bundle {
	return &Bundle{ID: uuid.NewString(), Origin: origin}
}
