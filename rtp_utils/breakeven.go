package rtp_utils

// Scenario is the creator's outcome when a given number of tickets sells.
type Scenario struct {
	Label       string
	TicketsSold int64
	Gross       float64
	Profit      float64
}

// BreakevenReport summarizes creator economics for one lottery setup.
type BreakevenReport struct {
	Prize     float64
	Ticket    float64
	Odds      int64
	Affiliate float64

	RTP  float64
	Tier Tier

	ExpectedGross  float64
	PlatformCost   float64
	AffiliateCost  float64
	NetRevenue     float64
	ExpectedProfit float64
	ROI            float64

	NetPerTicket     float64
	BreakevenTickets int64
	// BreakevenShare is the break-even point as a percentage of odds.
	BreakevenShare float64

	Scenarios []Scenario
}

var scenarioShares = []struct {
	label string
	share float64
}{
	{"😰 Slow sales (50%)", 0.5},
	{"📊 Expected (100%)", 1},
	{"📈 Strong (150%)", 1.5},
	{"🚀 Viral (200%)", 2},
}

// Breakeven validates the setup and computes the break-even report.
func Breakeven(prize, ticket float64, odds int64, affiliate float64) (*BreakevenReport, error) {
	if err := ValidateSetup(prize, ticket, odds); err != nil {
		return nil, err
	}
	if err := ValidateAffiliate(affiliate); err != nil {
		return nil, err
	}

	r := &BreakevenReport{
		Prize:     prize,
		Ticket:    ticket,
		Odds:      odds,
		Affiliate: affiliate,
		RTP:       CalculateRTP(prize, ticket, odds),
		Tier:      MinimumRTP(prize),
	}

	r.ExpectedGross = float64(odds) * ticket
	r.PlatformCost = r.ExpectedGross * PlatformFee
	r.AffiliateCost = r.ExpectedGross * affiliate / 100
	r.NetRevenue = r.ExpectedGross - r.PlatformCost - r.AffiliateCost
	r.ExpectedProfit = r.NetRevenue - prize
	r.ROI = CalculateROI(prize, ticket, odds, affiliate)

	r.NetPerTicket = ticket * NetRate(affiliate)
	r.BreakevenTickets = BreakevenTickets(prize, ticket, affiliate)
	r.BreakevenShare = float64(r.BreakevenTickets) / float64(odds) * 100

	for _, s := range scenarioShares {
		sold := int64(float64(odds) * s.share)
		gross := float64(sold) * ticket
		r.Scenarios = append(r.Scenarios, Scenario{
			Label:       s.label,
			TicketsSold: sold,
			Gross:       gross,
			Profit:      gross*NetRate(affiliate) - prize,
		})
	}
	return r, nil
}
