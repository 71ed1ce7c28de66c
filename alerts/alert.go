package alerts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"Chance_bot_v1/rtp_utils"
)

// MaxAlertsPerUser caps how many alerts one user may hold.
const MaxAlertsPerUser = 5

var (
	ErrMaxAlerts       = fmt.Errorf("you've reached the maximum of %d alerts, delete one first", MaxAlertsPerUser)
	ErrNoAlerts        = errors.New("you don't have any alerts")
	ErrAlertNotFound   = errors.New("alert not found")
	ErrNoCriteria      = errors.New("set at least one alert criterion")
	ErrInvalidCriteria = errors.New("invalid alert criteria")
)

// Alert is a user's filter for new lotteries. A zero criterion is not applied.
type Alert struct {
	ID        int       `json:"id"`
	MinPrize  float64   `json:"min_prize,omitempty"`
	MaxPrize  float64   `json:"max_prize,omitempty"`
	MaxTicket float64   `json:"max_ticket,omitempty"`
	MinRTP    float64   `json:"min_rtp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that an alert has at least one sensible criterion.
func (a Alert) Validate() error {
	if a.MinPrize == 0 && a.MaxPrize == 0 && a.MaxTicket == 0 && a.MinRTP == 0 {
		return ErrNoCriteria
	}
	if a.MinPrize < 0 || a.MaxPrize < 0 || a.MaxTicket < 0 || a.MinRTP < 0 {
		return fmt.Errorf("%w: values cannot be negative", ErrInvalidCriteria)
	}
	if a.MinPrize > 0 && a.MaxPrize > 0 && a.MinPrize > a.MaxPrize {
		return fmt.Errorf("%w: min prize is above max prize", ErrInvalidCriteria)
	}
	if a.MinRTP > 100 {
		return fmt.Errorf("%w: min RTP cannot exceed 100%%", ErrInvalidCriteria)
	}
	return nil
}

// Matches reports whether a lottery with these values passes every set criterion.
func (a Alert) Matches(prize, ticket, rtp float64) bool {
	if a.MinPrize > 0 && prize < a.MinPrize {
		return false
	}
	if a.MaxPrize > 0 && prize > a.MaxPrize {
		return false
	}
	if a.MaxTicket > 0 && ticket > a.MaxTicket {
		return false
	}
	if a.MinRTP > 0 && rtp < a.MinRTP {
		return false
	}
	return true
}

// Describe lists the alert's criteria for /myalerts.
func (a Alert) Describe() string {
	var parts []string
	if a.MinPrize > 0 {
		parts = append(parts, "Prize ≥ "+rtp_utils.FormatCurrency(a.MinPrize, false))
	}
	if a.MaxPrize > 0 {
		parts = append(parts, "Prize ≤ "+rtp_utils.FormatCurrency(a.MaxPrize, false))
	}
	if a.MaxTicket > 0 {
		parts = append(parts, "Ticket ≤ "+rtp_utils.FormatCurrency(a.MaxTicket, false))
	}
	if a.MinRTP > 0 {
		parts = append(parts, "RTP ≥ "+rtp_utils.FormatPercent(a.MinRTP))
	}
	if len(parts) == 0 {
		return "Any lottery"
	}
	return strings.Join(parts, " • ")
}
