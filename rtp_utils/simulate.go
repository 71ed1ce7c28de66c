package rtp_utils

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
)

// DefaultSimulationRuns is how many lotteries /simulate plays out.
const DefaultSimulationRuns = 1000

var ErrInvalidRuns = errors.New("simulation runs must be positive")

// SimulationInput describes the lottery to simulate. MaxTickets of 0 means
// sales continue until a winning ticket is drawn.
type SimulationInput struct {
	Prize      float64
	Ticket     float64
	Odds       int64
	Affiliate  float64
	MaxTickets int64
	Runs       int
}

type SimulationResult struct {
	Input SimulationInput
	RTP   float64

	AvgProfit    float64
	MedianProfit float64
	BestProfit   float64
	WorstProfit  float64

	// ProfitableRuns is the share of runs (percent) where the creator made money.
	ProfitableRuns float64
	// NoWinnerRuns is the share of runs (percent) that hit MaxTickets without a winner.
	NoWinnerRuns float64
	AvgTickets   float64
}

// Simulate plays the lottery out Runs times. Each ticket independently wins
// with probability 1/odds; the draw stops at the first winner or at MaxTickets.
// When nobody wins the prize returns to the creator, so only fees are lost.
func Simulate(in SimulationInput, rng *rand.Rand) (*SimulationResult, error) {
	if err := ValidateSetup(in.Prize, in.Ticket, in.Odds); err != nil {
		return nil, err
	}
	if err := ValidateAffiliate(in.Affiliate); err != nil {
		return nil, err
	}
	if in.Runs == 0 {
		in.Runs = DefaultSimulationRuns
	}
	if in.Runs < 0 {
		return nil, ErrInvalidRuns
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	net := NetRate(in.Affiliate)
	p := 1 / float64(in.Odds)

	profits := make([]float64, in.Runs)
	var profitable, noWinner int
	var ticketsTotal float64

	for i := range profits {
		sold, won := ticketsUntilWin(rng, p, in.MaxTickets)
		revenue := float64(sold) * in.Ticket * net
		profit := revenue
		if won {
			profit -= in.Prize
		} else {
			noWinner++
		}
		profits[i] = profit
		ticketsTotal += float64(sold)
		if profit > 0 {
			profitable++
		}
	}

	sort.Float64s(profits)
	var sum float64
	for _, v := range profits {
		sum += v
	}

	runs := float64(in.Runs)
	return &SimulationResult{
		Input:          in,
		RTP:            CalculateRTP(in.Prize, in.Ticket, in.Odds),
		AvgProfit:      sum / runs,
		MedianProfit:   median(profits),
		BestProfit:     profits[len(profits)-1],
		WorstProfit:    profits[0],
		ProfitableRuns: float64(profitable) / runs * 100,
		NoWinnerRuns:   float64(noWinner) / runs * 100,
		AvgTickets:     ticketsTotal / runs,
	}, nil
}

// ticketsUntilWin samples the geometric number of tickets sold up to and
// including the first winner, truncated at maxTickets.
func ticketsUntilWin(rng *rand.Rand, p float64, maxTickets int64) (int64, bool) {
	var n int64
	if p >= 1 {
		n = 1
	} else {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		n = int64(math.Ceil(math.Log(u) / math.Log1p(-p)))
		if n < 1 {
			n = 1
		}
	}
	if maxTickets > 0 && n > maxTickets {
		return maxTickets, false
	}
	return n, true
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
