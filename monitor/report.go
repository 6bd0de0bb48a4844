package monitor

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xyths/qlm/exchange/okx"
	"github.com/xyths/qlm/types"
)

type RiskLevel int

const (
	RiskSafe RiskLevel = iota
	RiskCaution
	RiskWarning
	RiskHigh
	RiskMarginCall
)

func (l RiskLevel) String() string {
	switch l {
	case RiskSafe:
		return "SAFE"
	case RiskCaution:
		return "CAUTION"
	case RiskWarning:
		return "WARNING"
	case RiskHigh:
		return "HIGH RISK"
	case RiskMarginCall:
		return "MARGIN CALL ACTIVE"
	}
	return "UNKNOWN"
}

func ParseRiskLevel(s string, fallback RiskLevel) RiskLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAFE":
		return RiskSafe
	case "CAUTION":
		return RiskCaution
	case "WARNING":
		return RiskWarning
	case "HIGH", "HIGH RISK":
		return RiskHigh
	case "MARGIN CALL", "MARGIN CALL ACTIVE":
		return RiskMarginCall
	}
	return fallback
}

var hundred = decimal.NewFromInt(100)

// these never get a market quote, one coin is one dollar
var stablecoins = map[string]bool{
	"USDT": true,
	"USDC": true,
	"USD":  true,
	"DAI":  true,
	"TUSD": true,
	"BUSD": true,
}

// PriceMap builds a USD price per base currency from spot tickers.
// Quotes other than USDT/USDC/USD are ignored, the first positive last
// price per base wins.
func PriceMap(tickers []okx.Ticker) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		parts := strings.Split(t.InstId, "-")
		if len(parts) != 2 {
			continue
		}
		base, quote := parts[0], parts[1]
		switch quote {
		case "USDT", "USDC", "USD":
		default:
			continue
		}
		if _, ok := prices[base]; ok {
			continue
		}
		if last := dec(t.Last); last.IsPositive() {
			prices[base] = last
		}
	}
	for coin := range stablecoins {
		prices[coin] = decimal.NewFromInt(1)
	}
	return prices
}

// the exchange sends numbers as strings and omits zero fields
func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

type Asset struct {
	Currency string
	Amount   decimal.Decimal
	Price    decimal.Decimal
	Value    decimal.Decimal
}

// Report is one monitoring cycle, LTV fields in percent.
type Report struct {
	Time  time.Time
	Label string

	HasLoan       bool
	CollateralUsd decimal.Decimal
	LoanUsd       decimal.Decimal
	CurLTV        decimal.Decimal
	MarginCallLTV decimal.Decimal
	LiqLTV        decimal.Decimal

	// Usage is how much of the margin-call LTV is in use, in percent.
	Usage            decimal.Decimal
	Risk             RiskLevel
	MarginCallBuffer decimal.Decimal // LTV points left before margin call
	LiqBuffer        decimal.Decimal // LTV points left before liquidation
	DropHeadroom     decimal.Decimal // percent the collateral value can fall

	Collateral []Asset
	Borrowed   []Asset

	TotalEquity decimal.Decimal
	Balances    []Asset

	PricesStale bool
}

// Assess maps the current LTV against the margin-call LTV onto a risk
// level. Usage below 70% is safe, 85% cautions, 95% warns; past that
// the loan is one price move from a margin call.
func Assess(cur, marginCall decimal.Decimal) RiskLevel {
	if !marginCall.IsPositive() {
		return RiskSafe
	}
	usage := cur.Div(marginCall).Mul(hundred)
	switch {
	case usage.LessThan(decimal.NewFromInt(70)):
		return RiskSafe
	case usage.LessThan(decimal.NewFromInt(85)):
		return RiskCaution
	case usage.LessThan(decimal.NewFromInt(95)):
		return RiskWarning
	case cur.LessThan(marginCall):
		return RiskHigh
	default:
		return RiskMarginCall
	}
}

// BuildReport values the loan position and the trading account with the
// given prices. balance and loan may be nil when the fetch failed or no
// loan is active.
func BuildReport(balance *okx.Balance, loan *okx.LoanInfo, prices map[string]decimal.Decimal) *Report {
	r := &Report{Time: time.Now()}
	if balance != nil {
		r.TotalEquity = dec(balance.TotalEq)
		for _, d := range balance.Details {
			eq := dec(d.Eq)
			if !eq.IsPositive() {
				continue
			}
			price := prices[d.Ccy]
			r.Balances = append(r.Balances, Asset{
				Currency: d.Ccy,
				Amount:   eq,
				Price:    price,
				Value:    eq.Mul(price),
			})
		}
		sortByValue(r.Balances)
	}
	if loan != nil {
		r.HasLoan = true
		r.CollateralUsd = dec(loan.CollateralNotionalUsd)
		r.LoanUsd = dec(loan.LoanNotionalUsd)
		r.CurLTV = dec(loan.CurLTV).Mul(hundred)
		r.MarginCallLTV = dec(loan.MarginCallLTV).Mul(hundred)
		r.LiqLTV = dec(loan.LiqLTV).Mul(hundred)
		if r.MarginCallLTV.IsPositive() {
			r.Usage = r.CurLTV.Div(r.MarginCallLTV).Mul(hundred)
			r.DropHeadroom = r.MarginCallLTV.Sub(r.CurLTV).Div(r.MarginCallLTV).Mul(hundred)
		}
		r.MarginCallBuffer = r.MarginCallLTV.Sub(r.CurLTV)
		r.LiqBuffer = r.LiqLTV.Sub(r.CurLTV)
		r.Risk = Assess(r.CurLTV, r.MarginCallLTV)
		for _, a := range loan.CollateralData {
			amt := dec(a.Amt)
			price := prices[a.Ccy]
			r.Collateral = append(r.Collateral, Asset{
				Currency: a.Ccy,
				Amount:   amt,
				Price:    price,
				Value:    amt.Mul(price),
			})
		}
		sortByValue(r.Collateral)
		for _, a := range loan.LoanData {
			amt := dec(a.Amt)
			if !amt.IsPositive() {
				continue
			}
			price := prices[a.Ccy]
			r.Borrowed = append(r.Borrowed, Asset{
				Currency: a.Ccy,
				Amount:   amt,
				Price:    price,
				Value:    amt.Mul(price),
			})
		}
		sortByValue(r.Borrowed)
	}
	return r
}

func sortByValue(assets []Asset) {
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Value.GreaterThan(assets[j].Value)
	})
}

// Snapshot converts the report into its storage form.
func (r *Report) Snapshot() *types.LoanSnapshot {
	snap := &types.LoanSnapshot{
		Time:  r.Time,
		Label: r.Label,
		Risk:  r.Risk.String(),
	}
	snap.Equity, _ = r.TotalEquity.Float64()
	snap.CollateralUsd, _ = r.CollateralUsd.Float64()
	snap.LoanUsd, _ = r.LoanUsd.Float64()
	snap.CurLTV, _ = r.CurLTV.Float64()
	snap.MarginCallLTV, _ = r.MarginCallLTV.Float64()
	snap.LiqLTV, _ = r.LiqLTV.Float64()
	for _, a := range r.Collateral {
		snap.Collateral = append(snap.Collateral, assetValue(a))
	}
	for _, a := range r.Borrowed {
		snap.Borrowed = append(snap.Borrowed, assetValue(a))
	}
	return snap
}

func assetValue(a Asset) types.AssetValue {
	v := types.AssetValue{Currency: a.Currency}
	v.Amount, _ = a.Amount.Float64()
	v.Price, _ = a.Price.Float64()
	v.Value, _ = a.Value.Float64()
	return v
}
