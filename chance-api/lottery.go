package chance_api

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"Chance_bot_v1/rtp_utils"
)

// USDCDecimals is the number of decimals USDC amounts carry on-chain.
const USDCDecimals = 6

const usdcUnit = 1_000_000

// BigInt holds an integer the subgraph serializes as a JSON string (or,
// occasionally, a number). Malformed values decode as zero.
type BigInt string

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*b = ""
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	*b = BigInt(strings.TrimSpace(s))
	return nil
}

// Int returns the value, or 0 when it is empty or not an integer.
func (b BigInt) Int() int64 {
	if b == "" {
		return 0
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// USDC converts a raw 6-decimal amount to dollars.
func (b BigInt) USDC() float64 {
	return float64(b.Int()) / usdcUnit
}

// FromUSDC converts dollars to a raw 6-decimal amount.
func FromUSDC(v float64) BigInt {
	return BigInt(strconv.FormatInt(int64(math.Round(v*usdcUnit)), 10))
}

// Lottery is one lottery as indexed by the Chance subgraph.
type Lottery struct {
	ID                  string `json:"id"`
	ContractAddress     string `json:"contractAddress"`
	PrizeProvider       string `json:"prizeProvider"`
	PrizeAmount         BigInt `json:"prizeAmount"`
	TicketPrice         BigInt `json:"ticketPrice"`
	PickRange           BigInt `json:"pickRange"`
	MaxTickets          BigInt `json:"maxTickets"`
	Duration            BigInt `json:"duration"`
	AffiliatePercentage BigInt `json:"affiliatePercentage"`
	TicketsSold         BigInt `json:"ticketsSold"`
	GrossRevenue        BigInt `json:"grossRevenue"`
	Status              string `json:"status"`
	HasWinner           bool   `json:"hasWinner"`
	Winner              string `json:"winner"`
	CreatedAt           BigInt `json:"createdAt"`
}

// Key identifies the lottery for de-duplication.
func (l Lottery) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return l.ContractAddress
}

// Contract is the lottery's on-chain address. Subgraph ids are the address.
func (l Lottery) Contract() string {
	if l.ContractAddress != "" {
		return l.ContractAddress
	}
	return l.ID
}

func (l Lottery) Prize() float64   { return l.PrizeAmount.USDC() }
func (l Lottery) Ticket() float64  { return l.TicketPrice.USDC() }
func (l Lottery) Revenue() float64 { return l.GrossRevenue.USDC() }
func (l Lottery) Odds() int64      { return l.PickRange.Int() }
func (l Lottery) Tickets() int64   { return l.TicketsSold.Int() }

// Affiliate is the affiliate share in percent (0-20).
func (l Lottery) Affiliate() float64 { return float64(l.AffiliatePercentage.Int()) }

// DurationSeconds is 0 for lotteries without an end time.
func (l Lottery) DurationSeconds() int64 { return l.Duration.Int() }

func (l Lottery) RTP() float64 {
	return rtp_utils.CalculateRTP(l.Prize(), l.Ticket(), l.Odds())
}

func (l Lottery) Created() time.Time {
	secs := l.CreatedAt.Int()
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// Active reports whether tickets can still be bought.
func (l Lottery) Active() bool {
	switch strings.ToUpper(l.Status) {
	case "ACTIVE", "OPEN", "":
		return !l.HasWinner
	default:
		return false
	}
}

// PlayURL is the lottery's page on the Chance web app.
func PlayURL(base string, l Lottery) string {
	base = strings.TrimRight(base, "/")
	if l.Key() == "" {
		return base
	}
	return base + "/lottery/" + l.Key()
}

// lotteriesEnvelope is the GraphQL response for lottery list queries.
type lotteriesEnvelope struct {
	Data struct {
		Lotteries []Lottery `json:"lotteries"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

var _ json.Unmarshaler = (*BigInt)(nil)
