package rtp_utils

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders $1,234.56. With short set, amounts of a thousand or
// more use K/M suffixes.
func FormatCurrency(amount float64, short bool) string {
	if short {
		switch {
		case amount >= 1_000_000:
			return fmt.Sprintf("$%.2fM", amount/1_000_000)
		case amount >= 1_000:
			return fmt.Sprintf("$%.1fK", amount/1_000)
		}
	}
	return "$" + printer.Sprintf("%.2f", amount)
}

// FormatCompact is the leaderboard style: $1.23M, $12.3K, $950.
func FormatCompact(amount float64) string {
	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("$%.2fM", amount/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("$%.1fK", amount/1_000)
	default:
		return "$" + printer.Sprintf("%.0f", amount)
	}
}

// FormatNumber groups thousands: 1234567 -> 1,234,567.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat groups thousands and keeps the given number of decimals.
func FormatFloat(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// FormatPercent trims a trailing .0 the way the calculator replies show user input.
func FormatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f%%", v)
	}
	return fmt.Sprintf("%g%%", v)
}

// ShortAddress shortens a wallet address to 0x1234...abcd.
func ShortAddress(addr string) string {
	if addr == "" {
		return "Unknown"
	}
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// ShortContract is the footer form used on lottery posts: first 8, last 6.
func ShortContract(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-6:]
}

// round2 rounds to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
