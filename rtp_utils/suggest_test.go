package rtp_utils

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggest_ThreeOptions(t *testing.T) {
	s, err := Suggest(5000, 75, 0)
	require.NoError(t, err)
	require.Len(t, s.Options, 3)

	budget, standard, premium := s.Options[0], s.Options[1], s.Options[2]
	require.Equal(t, "💚 Budget Play", budget.Name)
	require.Equal(t, 25.0, budget.Ticket)
	require.Equal(t, int64(266), budget.Odds)

	require.Equal(t, 50.0, standard.Ticket)
	require.Equal(t, int64(133), standard.Odds)

	require.Equal(t, 125.0, premium.Ticket)
	require.Equal(t, int64(53), premium.Odds)

	require.InDelta(t, 75.19, budget.RTP, 0.01)
	require.InDelta(t, 26.35, budget.ROI, 1e-9)
	require.Equal(t, int64(211), budget.Breakeven)
	require.InDelta(t, 1317.5, budget.ExpectedProfit, 1e-9)

	for _, o := range s.Options {
		require.GreaterOrEqual(t, o.RTP, 75.0, o.Name)
	}
}

func TestSuggest_MinimumTickets(t *testing.T) {
	s, err := Suggest(100, 70, 0)
	require.NoError(t, err)
	require.Len(t, s.Options, 3)
	require.Equal(t, 1.0, s.Options[0].Ticket)
	require.Equal(t, 5.0, s.Options[1].Ticket)
	require.Equal(t, 10.0, s.Options[2].Ticket)
}

func TestSuggest_Errors(t *testing.T) {
	_, err := Suggest(50, 75, 0)
	require.ErrorIs(t, err, ErrPrizeTooSmall)

	_, err = Suggest(5000, 0, 0)
	require.ErrorIs(t, err, ErrTargetRange)

	_, err = Suggest(5000, 101, 0)
	require.ErrorIs(t, err, ErrTargetRange)

	_, err = Suggest(5000, 75, 21)
	require.ErrorIs(t, err, ErrAffiliateRange)

	_, err = Suggest(5000, 65, 0)
	var below *BelowTierError
	require.True(t, errors.As(err, &below))
	require.Equal(t, 70.0, below.Tier.Minimum)

	_, err = Suggest(5000, 90, 10)
	var unprofitable *UnprofitableError
	require.True(t, errors.As(err, &unprofitable))
	require.InDelta(t, 85, unprofitable.MaxRTP, 1e-9)
}

func TestOptimizedTarget(t *testing.T) {
	cases := []struct {
		prize, affiliate, want float64
	}{
		{5000, 0, 80},
		{50_000, 0, 75},
		{5000, 15, 75},
		{5000, 20, 70},
		{250_000, 0, 75},
	}
	for _, c := range cases {
		got, err := OptimizedTarget(c.prize, c.affiliate)
		require.NoError(t, err)
		require.InDelta(t, c.want, got, 1e-9, "prize=%v affiliate=%v", c.prize, c.affiliate)
	}

	_, err := OptimizedTarget(10, 0)
	require.ErrorIs(t, err, ErrPrizeTooSmall)
}

func TestOptimize_UsesSuggest(t *testing.T) {
	s, err := Optimize(5000, 20)
	require.NoError(t, err)
	require.InDelta(t, 70, s.TargetRTP, 1e-9)
	require.NotEmpty(t, s.Options)
	for _, o := range s.Options {
		require.Greater(t, o.ExpectedProfit, 0.0, o.Name)
	}
}

func TestSimulate_CertainWin(t *testing.T) {
	res, err := Simulate(SimulationInput{Prize: 100, Ticket: 100, Odds: 1, Runs: 50}, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	require.InDelta(t, 1, res.AvgTickets, 1e-9)
	require.InDelta(t, -5, res.AvgProfit, 1e-9)
	require.InDelta(t, -5, res.MedianProfit, 1e-9)
	require.Zero(t, res.ProfitableRuns)
	require.Zero(t, res.NoWinnerRuns)
}

func TestSimulate_MeanTicketsNearOdds(t *testing.T) {
	res, err := Simulate(SimulationInput{Prize: 5000, Ticket: 25, Odds: 250, Runs: 4000}, rand.New(rand.NewPCG(7, 11)))
	require.NoError(t, err)

	require.InDelta(t, 250, res.AvgTickets, 20)
	require.InDelta(t, 80, res.RTP, 1e-9)
	require.LessOrEqual(t, res.WorstProfit, res.MedianProfit)
	require.LessOrEqual(t, res.MedianProfit, res.BestProfit)
	require.Greater(t, res.ProfitableRuns, 0.0)
	require.Less(t, res.ProfitableRuns, 100.0)
}

func TestSimulate_MaxTicketsCap(t *testing.T) {
	res, err := Simulate(SimulationInput{Prize: 50_000, Ticket: 10, Odds: 10_000, MaxTickets: 1, Runs: 500}, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	require.InDelta(t, 1, res.AvgTickets, 1e-9)
	require.Greater(t, res.NoWinnerRuns, 90.0)
}

func TestSimulate_DefaultsAndErrors(t *testing.T) {
	res, err := Simulate(SimulationInput{Prize: 1000, Ticket: 10, Odds: 100}, nil)
	require.NoError(t, err)
	require.Equal(t, DefaultSimulationRuns, res.Input.Runs)

	_, err = Simulate(SimulationInput{Prize: 1000, Ticket: 10, Odds: 100, Runs: -1}, nil)
	require.ErrorIs(t, err, ErrInvalidRuns)

	_, err = Simulate(SimulationInput{Prize: 1000, Ticket: 10, Odds: 0}, nil)
	require.ErrorIs(t, err, ErrNonPositive)
}

func TestCompare(t *testing.T) {
	c, err := Compare(
		Setup{Prize: 5000, Ticket: 25, Odds: 250},
		Setup{Prize: 5000, Ticket: 20, Odds: 250},
	)
	require.NoError(t, err)

	require.InDelta(t, 80, c.A.RTP, 1e-9)
	require.InDelta(t, 100, c.B.RTP, 1e-9)
	require.Equal(t, WinnerB, c.PlayerPick)
	require.Equal(t, WinnerA, c.CreatorPick)
	require.Equal(t, WinnerA, c.FasterBreakeven)
	require.Equal(t, int64(264), c.B.Breakeven)
	require.True(t, c.A.Passes)
}

func TestCompare_Tie(t *testing.T) {
	s := Setup{Prize: 1000, Ticket: 10, Odds: 100}
	c, err := Compare(s, s)
	require.NoError(t, err)
	require.Equal(t, WinnerTie, c.PlayerPick)
	require.Equal(t, WinnerTie, c.CreatorPick)
	require.Equal(t, WinnerTie, c.FasterBreakeven)
}

func TestCompare_ValidatesBoth(t *testing.T) {
	_, err := Compare(Setup{Prize: 5000, Ticket: 25, Odds: 250}, Setup{Prize: 10, Ticket: 1, Odds: 5})
	require.ErrorIs(t, err, ErrPrizeTooSmall)
}
