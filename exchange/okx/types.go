package okx

import (
	"encoding/json"
	"fmt"
)

// every v5 endpoint wraps its payload in this envelope
type response struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// APIError is a reply the exchange refused, either at the HTTP layer
// (401/403) or with a non-zero application code.
type APIError struct {
	Status int
	Code   string
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("okx: HTTP %d, code %s: %s", e.Status, e.Code, e.Msg)
}

// Hint translates the usual authentication failures into the fix.
func (e *APIError) Hint() string {
	switch e.Code {
	case "50102":
		return "timestamp expired, check the local clock against UTC"
	case "50103", "50111":
		return "invalid OK-ACCESS-KEY, check OKX_API_KEY"
	case "50104", "50105":
		return "invalid passphrase, OKX_PASSPHRASE is case sensitive"
	case "50113":
		return "invalid signature, check OKX_SECRET_KEY for stray spaces"
	case "50110":
		return "IP not on the key's allowlist"
	case "50030", "50114":
		return "key lacks permission, the Read permission is enough for monitoring"
	}
	if e.Status == 401 || e.Status == 403 {
		return "authentication rejected, verify key, secret and passphrase belong to the same API key"
	}
	return ""
}

type Balance struct {
	TotalEq string          `json:"totalEq"`
	UTime   string          `json:"uTime"`
	Details []BalanceDetail `json:"details"`
}

type BalanceDetail struct {
	Ccy     string `json:"ccy"`
	Eq      string `json:"eq"`
	AvailEq string `json:"availEq"`
	CashBal string `json:"cashBal"`
}

type LoanInfo struct {
	CollateralNotionalUsd string        `json:"collateralNotionalUsd"`
	LoanNotionalUsd       string        `json:"loanNotionalUsd"`
	CurLTV                string        `json:"curLTV"`
	MarginCallLTV         string        `json:"marginCallLTV"`
	LiqLTV                string        `json:"liqLTV"`
	CollateralData        []AssetAmount `json:"collateralData"`
	LoanData              []AssetAmount `json:"loanData"`
}

type AssetAmount struct {
	Ccy string `json:"ccy"`
	Amt string `json:"amt"`
}

type CollateralAssets struct {
	Assets []AssetAmount `json:"assets"`
}

type Ticker struct {
	InstType string `json:"instType"`
	InstId   string `json:"instId"`
	Last     string `json:"last"`
}

type AccountConfig struct {
	Uid     string `json:"uid"`
	AcctLv  string `json:"acctLv"`
	PosMode string `json:"posMode"`
	Level   string `json:"level"`
}

type MaxLoan struct {
	InstId  string `json:"instId"`
	MgnMode string `json:"mgnMode"`
	MgnCcy  string `json:"mgnCcy"`
	MaxLoan string `json:"maxLoan"`
	Ccy     string `json:"ccy"`
	Side    string `json:"side"`
}
