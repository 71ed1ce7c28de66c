package chance_api

// Stats aggregates platform-wide numbers for /stats.
type Stats struct {
	Lotteries    int
	Active       int
	Completed    int
	Creators     int
	Winners      int
	Volume       float64
	PrizesWon    float64
	PrizesListed float64
	TicketsSold  int64
	AverageRTP   float64
	LargestPrize float64
}

// PlatformStats summarizes a lottery list. Lotteries without a computable RTP
// are left out of the average.
func PlatformStats(lotteries []Lottery) Stats {
	var s Stats
	creators := map[string]struct{}{}
	var rtpSum float64
	var rtpCount int

	for _, l := range lotteries {
		s.Lotteries++
		if l.Active() {
			s.Active++
		} else {
			s.Completed++
		}
		if p := normalizeAddress(l.PrizeProvider); p != "" {
			creators[p] = struct{}{}
		}

		prize := l.Prize()
		s.PrizesListed += prize
		if prize > s.LargestPrize {
			s.LargestPrize = prize
		}
		if l.HasWinner {
			s.Winners++
			s.PrizesWon += prize
		}
		s.Volume += l.Revenue()
		s.TicketsSold += l.Tickets()

		if rtp := l.RTP(); rtp > 0 {
			rtpSum += rtp
			rtpCount++
		}
	}

	s.Creators = len(creators)
	if rtpCount > 0 {
		s.AverageRTP = rtpSum / float64(rtpCount)
	}
	return s
}
