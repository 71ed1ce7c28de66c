package rtp_utils

/*
Lottery math used by the slash commands, the lottery monitor and alerts.
- RTP and the per-tier minimums enforced by the Chance platform
- creator economics (platform fee, affiliate share, ROI, break-even)
*/

import (
	"errors"
	"fmt"
)

// PlatformFee is the share of gross ticket revenue kept by the platform.
const PlatformFee = 0.05

// MaxAffiliate is the highest affiliate percentage a creator may offer.
const MaxAffiliate = 20.0

// MinPrize is the smallest prize the platform accepts, in USDC.
const MinPrize = 100.0

var (
	ErrNonPositive      = errors.New("all values must be positive numbers")
	ErrPrizeTooSmall    = fmt.Errorf("minimum prize is $%.0f USDC", MinPrize)
	ErrTicketAbovePrize = errors.New("ticket price cannot exceed prize amount")
	ErrAffiliateRange   = errors.New("affiliate must be between 0 and 20%")
)

// Tier is the minimum RTP requirement for a prize bracket.
type Tier struct {
	Minimum float64
	Name    string
}

// CalculateRTP returns the return-to-player percentage: prize × (1/odds) / ticket × 100.
func CalculateRTP(prize, ticket float64, odds int64) float64 {
	if odds <= 0 || ticket <= 0 {
		return 0
	}
	return prize / float64(odds) / ticket * 100
}

// MinimumRTP returns the tier a prize falls into.
func MinimumRTP(prize float64) Tier {
	switch {
	case prize < MinPrize:
		return Tier{Minimum: 0, Name: "Below minimum ($100+)"}
	case prize < 10_000:
		return Tier{Minimum: 70, Name: "$100-$10K tier"}
	case prize < 100_000:
		return Tier{Minimum: 60, Name: "$10K-$100K tier"}
	default:
		return Tier{Minimum: 50, Name: "$100K+ tier"}
	}
}

func PassesMinimum(rtp, minimum float64) bool {
	return rtp >= minimum
}

// NetRate is the fraction of gross revenue the creator keeps.
func NetRate(affiliate float64) float64 {
	return 1 - PlatformFee - affiliate/100
}

// MaxProfitableRTP is the RTP above which the creator loses money on expectation.
func MaxProfitableRTP(affiliate float64) float64 {
	return NetRate(affiliate) * 100
}

// CalculateROI returns the creator's expected ROI percentage when odds tickets are sold.
func CalculateROI(prize, ticket float64, odds int64, affiliate float64) float64 {
	if prize <= 0 {
		return 0
	}
	gross := float64(odds) * ticket
	net := gross * NetRate(affiliate)
	return (net - prize) / prize * 100
}

// BreakevenTickets is the number of tickets after which the creator is in profit.
func BreakevenTickets(prize, ticket, affiliate float64) int64 {
	perTicket := ticket * NetRate(affiliate)
	if perTicket <= 0 {
		return 0
	}
	return int64(prize/perTicket) + 1
}

// ValidateSetup applies the input checks shared by the calculator commands.
func ValidateSetup(prize, ticket float64, odds int64) error {
	if prize <= 0 || ticket <= 0 || odds <= 0 {
		return ErrNonPositive
	}
	if prize < MinPrize {
		return ErrPrizeTooSmall
	}
	if ticket > prize {
		return ErrTicketAbovePrize
	}
	return nil
}

func ValidateAffiliate(affiliate float64) error {
	if affiliate < 0 || affiliate > MaxAffiliate {
		return ErrAffiliateRange
	}
	return nil
}

// Position describes how an RTP compares with the rest of the market.
type Position int

const (
	PositionFails Position = iota
	PositionBarelyPasses
	PositionMeetsMinimum
	PositionCompetitive
	PositionVeryCompetitive
)

func MarketPosition(rtp float64, tier Tier) Position {
	switch {
	case !PassesMinimum(rtp, tier.Minimum):
		return PositionFails
	case rtp >= 85:
		return PositionVeryCompetitive
	case rtp >= 75:
		return PositionCompetitive
	case rtp >= tier.Minimum+5:
		return PositionMeetsMinimum
	default:
		return PositionBarelyPasses
	}
}

func (p Position) String() string {
	switch p {
	case PositionVeryCompetitive:
		return "🔥 **Very competitive!** This is player-friendly RTP."
	case PositionCompetitive:
		return "✅ **Competitive.** Good balance of value and profit."
	case PositionMeetsMinimum:
		return "⚠️ **Meets minimum** but competitors may offer better."
	case PositionBarelyPasses:
		return "⚠️ **Barely passes.** Consider increasing RTP to compete."
	default:
		return "❌ **Below minimum** for this tier."
	}
}
