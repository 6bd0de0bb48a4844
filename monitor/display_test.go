package monitor

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xyths/qlm/types"
)

func TestRenderLoan(t *testing.T) {
	r := BuildReport(nil, sampleLoan(), samplePrices())
	var buf bytes.Buffer
	Render(&buf, r)
	out := buf.String()
	for _, want := range []string{
		"OKX Flexible Loan",
		"Collateral: 10000.00 USD, borrowed: 5000.00 USD",
		"LTV: current 50.00%, margin call at 80.00%, liquidation at 90.00%",
		"Risk: SAFE, 62.50% of the margin-call LTV in use",
		"Buffer: 30.00 points to margin call, 40.00 points to liquidation",
		"Collateral can drop 37.50% before a margin call",
		"Borrowed:",
		"USDT",
		"Collateral assets:",
		"BTC",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "stale") {
		t.Error("stale note without stale prices")
	}
}

func TestRenderNoLoan(t *testing.T) {
	r := &Report{Time: time.Now()}
	var buf bytes.Buffer
	Render(&buf, r)
	out := buf.String()
	if !strings.Contains(out, "No active flexible loan.") {
		t.Errorf("missing no-loan line in:\n%s", out)
	}
	if strings.Contains(out, "Trading account") {
		t.Error("account section rendered without balances")
	}
}

func TestRenderStalePrices(t *testing.T) {
	r := BuildReport(nil, sampleLoan(), samplePrices())
	r.PricesStale = true
	var buf bytes.Buffer
	Render(&buf, r)
	if !strings.Contains(buf.String(), "(prices from cache, may be stale)") {
		t.Error("missing stale note")
	}
}

func TestRenderFoldsDust(t *testing.T) {
	r := &Report{Time: time.Now(), HasLoan: true}
	for i := 0; i < 25; i++ {
		r.Collateral = append(r.Collateral, Asset{
			Currency: fmt.Sprintf("C%02d", i),
			Amount:   decimal.NewFromInt(1),
			Value:    decimal.NewFromInt(int64(100 - i)),
		})
	}
	var buf bytes.Buffer
	Render(&buf, r)
	out := buf.String()
	if !strings.Contains(out, "C19") {
		t.Error("row 20 missing")
	}
	if strings.Contains(out, "C20") {
		t.Error("row 21 rendered past the cap")
	}
	// 76+77+78+79+80 for the five folded rows
	if !strings.Contains(out, "and 5 more worth 390.00 USD") {
		t.Errorf("bad fold line in:\n%s", out)
	}
}

func TestRenderAccountFold(t *testing.T) {
	r := &Report{Time: time.Now(), TotalEquity: decimal.NewFromInt(1000)}
	for i := 0; i < 12; i++ {
		r.Balances = append(r.Balances, Asset{
			Currency: fmt.Sprintf("B%02d", i),
			Amount:   decimal.NewFromInt(1),
			Value:    decimal.NewFromInt(int64(50 - i)),
		})
	}
	var buf bytes.Buffer
	Render(&buf, r)
	out := buf.String()
	if !strings.Contains(out, "Trading account: 1000.00 USD") {
		t.Errorf("missing account header in:\n%s", out)
	}
	if !strings.Contains(out, "and 2 more") {
		t.Errorf("missing balance fold in:\n%s", out)
	}
}

func TestRenderSummary(t *testing.T) {
	s := &types.LoanSummary{
		Hours:         24,
		Count:         3,
		First:         time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		Last:          time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		MinLTV:        40,
		MaxLTV:        70,
		AvgLTV:        55,
		CollateralUsd: 9000,
		LoanUsd:       4950,
	}
	var buf bytes.Buffer
	RenderSummary(&buf, s)
	out := buf.String()
	for _, want := range []string{
		"Last 24 hours: 3 snapshots",
		"LTV min 40.00%, max 70.00%, avg 55.00%",
		"Latest collateral 9000.00 USD, loan 4950.00 USD",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, &types.LoanSummary{Hours: 24})
	out := buf.String()
	if !strings.Contains(out, "Last 24 hours: 0 snapshots") {
		t.Errorf("bad empty summary:\n%s", out)
	}
	if strings.Contains(out, "LTV") {
		t.Error("stats rendered for an empty summary")
	}
}
