package decision

import (
	"strings"
	"testing"
)

func TestComposeClausePresentOnlyForListedCategories(t *testing.T) {
	out := Compose([]string{"investment"}, 50000, true)
	if !strings.Contains(out, "investment") {
		t.Fatalf("missing investment clause: %q", out)
	}
	if strings.Contains(out, "technology") || strings.Contains(out, "crypto markets") {
		t.Fatalf("unrequested clauses present: %q", out)
	}

	out = Compose([]string{"gardening", "opera"}, 50000, true)
	if strings.Contains(out, "investment") || strings.Contains(out, "technology") {
		t.Fatalf("unrecognized interests should contribute nothing: %q", out)
	}
}

func TestComposeIsOrderIndependent(t *testing.T) {
	a := Compose([]string{"investment", "technology", "crypto"}, 50000, true)
	b := Compose([]string{"crypto", "investment", "technology"}, 50000, true)
	c := Compose([]string{"technology", "crypto", "investment"}, 50000, true)
	if a != b || b != c {
		t.Fatalf("output depends on interest ordering:\n%q\n%q\n%q", a, b, c)
	}
}

func TestComposeInvestmentThreshold(t *testing.T) {
	low := Compose([]string{"investment"}, InvestmentThreshold-1, true)
	if !strings.Contains(low, "buy the dip") {
		t.Fatalf("below threshold should suggest buying: %q", low)
	}
	high := Compose([]string{"investment"}, InvestmentThreshold, true)
	if !strings.Contains(high, "waiting for a pullback") {
		t.Fatalf("at threshold should suggest waiting: %q", high)
	}
}

func TestComposeCryptoThreshold(t *testing.T) {
	low := Compose([]string{"crypto"}, CryptoThreshold-1, true)
	if !strings.Contains(low, "accumulation zone") {
		t.Fatalf("below threshold wording missing: %q", low)
	}
	high := Compose([]string{"crypto"}, CryptoThreshold, true)
	if !strings.Contains(high, "running hot") {
		t.Fatalf("at threshold wording missing: %q", high)
	}
}

func TestComposeCaseInsensitiveAndTrimmed(t *testing.T) {
	out := Compose([]string{" Investment ", "TECHNOLOGY"}, 62000, true)
	if !strings.Contains(out, "investment") || !strings.Contains(out, "technology") {
		t.Fatalf("matching should ignore case and surrounding space: %q", out)
	}
}

func TestComposeWithUnknownPrice(t *testing.T) {
	out := Compose([]string{"investment", "technology"}, 0, false)
	if !strings.Contains(out, UnavailablePhrase) {
		t.Fatalf("unavailable phrase missing: %q", out)
	}
	// Price-independent clauses still appear.
	if !strings.Contains(out, "technology") {
		t.Fatalf("technology clause should survive a failed fetch: %q", out)
	}
	if strings.Contains(out, "buy the dip") || strings.Contains(out, "waiting for a pullback") {
		t.Fatalf("price-conditioned wording must not appear without a price: %q", out)
	}
}
