package monitor

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xyths/qlm/types"
)

const (
	maxCollateralRows = 20
	maxBalanceRows    = 10
)

// Render writes the report as plain text, one monitoring cycle per call.
func Render(w io.Writer, r *Report) {
	fmt.Fprintf(w, "OKX Flexible Loan  %s\n", r.Time.Format("2006-01-02 15:04:05"))
	if !r.HasLoan {
		fmt.Fprintln(w, "No active flexible loan.")
		renderAccount(w, r)
		return
	}
	fmt.Fprintf(w, "Collateral: %s USD, borrowed: %s USD\n", money(r.CollateralUsd), money(r.LoanUsd))
	fmt.Fprintf(w, "LTV: current %s%%, margin call at %s%%, liquidation at %s%%\n",
		pct(r.CurLTV), pct(r.MarginCallLTV), pct(r.LiqLTV))
	fmt.Fprintf(w, "Risk: %s, %s%% of the margin-call LTV in use\n", r.Risk, pct(r.Usage))
	fmt.Fprintf(w, "Buffer: %s points to margin call, %s points to liquidation\n",
		pct(r.MarginCallBuffer), pct(r.LiqBuffer))
	fmt.Fprintf(w, "Collateral can drop %s%% before a margin call\n", pct(r.DropHeadroom))
	if r.PricesStale {
		fmt.Fprintln(w, "(prices from cache, may be stale)")
	}

	if len(r.Borrowed) > 0 {
		fmt.Fprintln(w, "Borrowed:")
		for _, a := range r.Borrowed {
			fmt.Fprintf(w, "  %-8s %20s %14s USD\n", a.Currency, a.Amount.String(), money(a.Value))
		}
	}
	if len(r.Collateral) > 0 {
		fmt.Fprintln(w, "Collateral assets:")
		one := decimal.NewFromInt(1)
		shown := 0
		rest := 0
		dust := decimal.Zero
		for _, a := range r.Collateral {
			if shown < maxCollateralRows && a.Value.GreaterThanOrEqual(one) {
				fmt.Fprintf(w, "  %-8s %20s %14s USD\n", a.Currency, a.Amount.String(), money(a.Value))
				shown++
				continue
			}
			rest++
			dust = dust.Add(a.Value)
		}
		if rest > 0 {
			fmt.Fprintf(w, "  and %d more worth %s USD\n", rest, money(dust))
		}
	}
	renderAccount(w, r)
}

func renderAccount(w io.Writer, r *Report) {
	if r.TotalEquity.IsZero() && len(r.Balances) == 0 {
		return
	}
	fmt.Fprintf(w, "Trading account: %s USD\n", money(r.TotalEquity))
	for i, a := range r.Balances {
		if i >= maxBalanceRows {
			fmt.Fprintf(w, "  and %d more\n", len(r.Balances)-i)
			break
		}
		fmt.Fprintf(w, "  %-8s %20s %14s USD\n", a.Currency, a.Amount.String(), money(a.Value))
	}
}

// RenderSummary writes the history aggregate produced by the snapshot
// store.
func RenderSummary(w io.Writer, s *types.LoanSummary) {
	fmt.Fprintf(w, "Last %d hours: %d snapshots\n", s.Hours, s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "From %s to %s\n",
		s.First.Format("2006-01-02 15:04:05"), s.Last.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "LTV min %.2f%%, max %.2f%%, avg %.2f%%\n", s.MinLTV, s.MaxLTV, s.AvgLTV)
	fmt.Fprintf(w, "Latest collateral %.2f USD, loan %.2f USD\n", s.CollateralUsd, s.LoanUsd)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func pct(d decimal.Decimal) string {
	return d.StringFixed(2)
}
