// Package decision assembles the recommendation text injected into the
// assistant prompt. This is template text keyed on the visitor's stored
// interests, not a financial model; the thresholds are configuration
// constants, nothing more.
package decision

import (
	"fmt"
	"strings"
)

const (
	// InvestmentThreshold splits the investment clause between the
	// buy-the-dip and wait-for-a-pullback wording.
	InvestmentThreshold = 60000.0
	// CryptoThreshold does the same for the crypto clause.
	CryptoThreshold = 65000.0
)

// UnavailablePhrase is the literal wording substituted into the prompt
// whenever the price fetch failed.
const UnavailablePhrase = "the current BTC price is unavailable"

// Compose builds the decision text from the visitor's interests and the
// fetched price. priceKnown is false when the fetch failed. Clauses are
// independent and appear in a fixed order regardless of how the
// interests were listed; unrecognized interests contribute nothing.
func Compose(interests []string, btcPrice float64, priceKnown bool) string {
	has := make(map[string]bool, len(interests))
	for _, it := range interests {
		has[strings.ToLower(strings.TrimSpace(it))] = true
	}

	var b strings.Builder
	if priceKnown {
		b.WriteString(fmt.Sprintf("The current BTC price is $%.2f.", btcPrice))
	} else {
		b.WriteString("Note: " + UnavailablePhrase + ".")
	}

	if has["investment"] {
		switch {
		case !priceKnown:
			b.WriteString(" The user is interested in investment, but no price data is available to base a recommendation on.")
		case btcPrice < InvestmentThreshold:
			b.WriteString(" The user is interested in investment; with BTC below its recent range, suggest this could be a moment to buy the dip.")
		default:
			b.WriteString(" The user is interested in investment; with BTC at or above its recent range, suggest waiting for a pullback before buying.")
		}
	}

	if has["crypto"] {
		switch {
		case !priceKnown:
			b.WriteString(" The user follows crypto markets; mention that live market data is currently unavailable.")
		case btcPrice < CryptoThreshold:
			b.WriteString(" The user follows crypto markets; BTC is in an accumulation zone at this level.")
		default:
			b.WriteString(" The user follows crypto markets; the market is running hot at this level.")
		}
	}

	if has["technology"] {
		b.WriteString(" The user is interested in technology; weave in a note about recent developments in blockchain and AI tooling.")
	}

	return b.String()
}
