package chance_api

import (
	"sort"
	"strings"
)

// Ranking is one leaderboard row.
type Ranking struct {
	Address string
	Count   int
	Wins    int
	Volume  float64
	Won     float64
	Tickets int64
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// TopCreators ranks prize providers by number of lotteries created.
func TopCreators(lotteries []Lottery, limit int) []Ranking {
	by := map[string]*Ranking{}
	for _, l := range lotteries {
		addr := normalizeAddress(l.PrizeProvider)
		if addr == "" {
			continue
		}
		r := rankingFor(by, addr)
		r.Count++
		r.Volume += l.Revenue()
		if l.HasWinner {
			r.Wins++
		}
	}
	return top(by, limit, func(a, b *Ranking) bool { return a.Count > b.Count })
}

// TopWinners ranks winners by total prize value won.
func TopWinners(lotteries []Lottery, limit int) []Ranking {
	by := map[string]*Ranking{}
	for _, l := range lotteries {
		if !l.HasWinner {
			continue
		}
		addr := normalizeAddress(l.Winner)
		if addr == "" {
			continue
		}
		r := rankingFor(by, addr)
		r.Wins++
		r.Won += l.Prize()
	}
	return top(by, limit, func(a, b *Ranking) bool { return a.Won > b.Won })
}

// TopVolume ranks prize providers by gross ticket revenue generated.
func TopVolume(lotteries []Lottery, limit int) []Ranking {
	by := map[string]*Ranking{}
	for _, l := range lotteries {
		addr := normalizeAddress(l.PrizeProvider)
		if addr == "" {
			continue
		}
		r := rankingFor(by, addr)
		r.Volume += l.Revenue()
		r.Tickets += l.Tickets()
	}
	return top(by, limit, func(a, b *Ranking) bool { return a.Volume > b.Volume })
}

func rankingFor(by map[string]*Ranking, addr string) *Ranking {
	r, ok := by[addr]
	if !ok {
		r = &Ranking{Address: addr}
		by[addr] = r
	}
	return r
}

// top orders rows best first, breaking ties by address.
func top(by map[string]*Ranking, limit int, better func(a, b *Ranking) bool) []Ranking {
	rows := make([]*Ranking, 0, len(by))
	for _, r := range by {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if better(rows[i], rows[j]) {
			return true
		}
		if better(rows[j], rows[i]) {
			return false
		}
		return rows[i].Address < rows[j].Address
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]Ranking, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}
