package rtp_utils

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTargetRange    = errors.New("target RTP must be between 1 and 100%")
	ErrNoValidOptions = errors.New("could not generate valid options for these parameters")
)

// BelowTierError is returned when a target RTP is under the tier minimum.
type BelowTierError struct {
	Target float64
	Tier   Tier
}

func (e *BelowTierError) Error() string {
	return fmt.Sprintf("target RTP %g%% is below the minimum %g%% for %s", e.Target, e.Tier.Minimum, e.Tier.Name)
}

// UnprofitableError is returned when a target RTP leaves the creator at a loss.
type UnprofitableError struct {
	Target    float64
	Affiliate float64
	MaxRTP    float64
}

func (e *UnprofitableError) Error() string {
	return fmt.Sprintf("target RTP %g%% is too high to be profitable (max %.1f%% with %g%% affiliate)", e.Target, e.MaxRTP, e.Affiliate)
}

// minSuggestedOdds drops setups that would be close to a coin flip.
const minSuggestedOdds = 10

// Option is one suggested ticket/odds pair for a prize.
type Option struct {
	Name        string
	Description string
	Ticket      float64
	Odds        int64

	RTP            float64
	ROI            float64
	Breakeven      int64
	ExpectedProfit float64
}

type Suggestion struct {
	Prize     float64
	TargetRTP float64
	Affiliate float64
	Tier      Tier
	MaxRTP    float64
	Options   []Option
}

type candidate struct {
	name, desc string
	ticket     float64
}

// Suggest works backwards from a prize and target RTP to up to three setups.
// RTP = prize / odds / ticket × 100, so ticket × odds = prize × 100 / RTP.
func Suggest(prize, targetRTP, affiliate float64) (*Suggestion, error) {
	if prize < MinPrize {
		return nil, ErrPrizeTooSmall
	}
	if targetRTP <= 0 || targetRTP > 100 {
		return nil, ErrTargetRange
	}
	if err := ValidateAffiliate(affiliate); err != nil {
		return nil, err
	}

	tier := MinimumRTP(prize)
	if targetRTP < tier.Minimum {
		return nil, &BelowTierError{Target: targetRTP, Tier: tier}
	}
	maxRTP := MaxProfitableRTP(affiliate)
	if targetRTP > maxRTP {
		return nil, &UnprofitableError{Target: targetRTP, Affiliate: affiliate, MaxRTP: maxRTP}
	}

	product := prize * 100 / targetRTP
	oddsFor := func(ticket float64) int64 { return int64(product / ticket) }

	var picked []candidate
	for _, c := range []candidate{
		{"💚 Budget Play", "Low entry, high odds - accessible to everyone", math.Max(1, round2(prize*0.005))},
		{"💛 Standard", "Balanced entry and odds", math.Max(5, round2(prize*0.01))},
		{"💎 Premium", "Higher entry, better odds per ticket", math.Max(10, round2(prize*0.025))},
	} {
		if oddsFor(c.ticket) >= minSuggestedOdds {
			picked = append(picked, c)
		}
	}

	if len(picked) < 3 && oddsFor(1) >= minSuggestedOdds && !hasTicket(picked, 1) {
		micro := candidate{"🪙 Micro", "$1 entry - maximum accessibility", 1}
		picked = append([]candidate{micro}, picked...)
	}

	if len(picked) < 3 {
		whale := candidate{"🐋 Whale", "High entry, best odds", math.Max(50, round2(prize*0.05))}
		if oddsFor(whale.ticket) >= minSuggestedOdds {
			picked = append(picked, whale)
		}
	}

	if len(picked) == 0 {
		return nil, ErrNoValidOptions
	}
	if len(picked) > 3 {
		picked = picked[:3]
	}

	s := &Suggestion{
		Prize:     prize,
		TargetRTP: targetRTP,
		Affiliate: affiliate,
		Tier:      tier,
		MaxRTP:    maxRTP,
	}
	for _, c := range picked {
		odds := oddsFor(c.ticket)
		gross := float64(odds) * c.ticket
		s.Options = append(s.Options, Option{
			Name:           c.name,
			Description:    c.desc,
			Ticket:         c.ticket,
			Odds:           odds,
			RTP:            CalculateRTP(prize, c.ticket, odds),
			ROI:            CalculateROI(prize, c.ticket, odds, affiliate),
			Breakeven:      BreakevenTickets(prize, c.ticket, affiliate),
			ExpectedProfit: gross*NetRate(affiliate) - prize,
		})
	}
	return s, nil
}

func hasTicket(cs []candidate, ticket float64) bool {
	for _, c := range cs {
		if c.ticket == ticket {
			return true
		}
	}
	return false
}

// optimizeMargin is how far below the profitability ceiling Optimize stays.
const optimizeMargin = 5

// OptimizedTarget picks a player-friendly RTP that keeps the creator profitable:
// at least ten points over the tier minimum (and 75%), capped 5 points under the
// break-even RTP.
func OptimizedTarget(prize, affiliate float64) (float64, error) {
	if prize < MinPrize {
		return 0, ErrPrizeTooSmall
	}
	if err := ValidateAffiliate(affiliate); err != nil {
		return 0, err
	}
	tier := MinimumRTP(prize)
	maxRTP := MaxProfitableRTP(affiliate)

	target := math.Max(tier.Minimum+10, 75)
	if ceiling := maxRTP - optimizeMargin; target > ceiling {
		target = ceiling
	}
	target = math.Round(target*10) / 10
	if target < tier.Minimum {
		return 0, &UnprofitableError{Target: tier.Minimum, Affiliate: affiliate, MaxRTP: maxRTP}
	}
	return target, nil
}

// Optimize returns the suggested setups at the optimized target RTP.
func Optimize(prize, affiliate float64) (*Suggestion, error) {
	target, err := OptimizedTarget(prize, affiliate)
	if err != nil {
		return nil, err
	}
	return Suggest(prize, target, affiliate)
}
