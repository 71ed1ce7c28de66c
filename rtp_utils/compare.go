package rtp_utils

// Setup is one lottery configuration in a comparison.
type Setup struct {
	Prize     float64
	Ticket    float64
	Odds      int64
	Affiliate float64
}

type SetupMetrics struct {
	Setup
	RTP            float64
	Tier           Tier
	Passes         bool
	ROI            float64
	Breakeven      int64
	ExpectedProfit float64
}

func metricsFor(s Setup) SetupMetrics {
	gross := float64(s.Odds) * s.Ticket
	rtp := CalculateRTP(s.Prize, s.Ticket, s.Odds)
	tier := MinimumRTP(s.Prize)
	return SetupMetrics{
		Setup:          s,
		RTP:            rtp,
		Tier:           tier,
		Passes:         PassesMinimum(rtp, tier.Minimum),
		ROI:            CalculateROI(s.Prize, s.Ticket, s.Odds, s.Affiliate),
		Breakeven:      BreakevenTickets(s.Prize, s.Ticket, s.Affiliate),
		ExpectedProfit: gross*NetRate(s.Affiliate) - s.Prize,
	}
}

// Winner identifies which setup is better on a metric: "A", "B" or "Tie".
type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "Tie"
)

type Comparison struct {
	A, B SetupMetrics

	// PlayerPick favours the higher RTP.
	PlayerPick Winner
	// CreatorPick favours the higher ROI.
	CreatorPick Winner
	// FasterBreakeven favours the lower break-even ticket count.
	FasterBreakeven Winner
}

// Compare validates and compares two setups side by side.
func Compare(a, b Setup) (*Comparison, error) {
	for _, s := range []Setup{a, b} {
		if err := ValidateSetup(s.Prize, s.Ticket, s.Odds); err != nil {
			return nil, err
		}
		if err := ValidateAffiliate(s.Affiliate); err != nil {
			return nil, err
		}
	}

	ma, mb := metricsFor(a), metricsFor(b)
	return &Comparison{
		A:               ma,
		B:               mb,
		PlayerPick:      higher(ma.RTP, mb.RTP),
		CreatorPick:     higher(ma.ROI, mb.ROI),
		FasterBreakeven: higher(float64(mb.Breakeven), float64(ma.Breakeven)),
	}, nil
}

func higher(a, b float64) Winner {
	switch {
	case a > b:
		return WinnerA
	case b > a:
		return WinnerB
	default:
		return WinnerTie
	}
}
