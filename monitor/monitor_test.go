package monitor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xyths/qlm/exchange/okx"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu           sync.Mutex
	balanceCalls int
	loanCalls    int
	tickersCalls int

	balance *okx.Balance
	loan    *okx.LoanInfo
	tickers []okx.Ticker

	balanceErr error
	loanErr    error
	tickersErr error
}

func (f *fakeAPI) AccountBalance(ctx context.Context) (*okx.Balance, error) {
	f.mu.Lock()
	f.balanceCalls++
	f.mu.Unlock()
	return f.balance, f.balanceErr
}

func (f *fakeAPI) LoanInfo(ctx context.Context) (*okx.LoanInfo, error) {
	f.mu.Lock()
	f.loanCalls++
	f.mu.Unlock()
	return f.loan, f.loanErr
}

func (f *fakeAPI) Tickers(ctx context.Context, instType string) ([]okx.Ticker, error) {
	f.mu.Lock()
	f.tickersCalls++
	f.mu.Unlock()
	return f.tickers, f.tickersErr
}

func newTestMonitor(api LoanAPI) (*Monitor, *bytes.Buffer) {
	m := New(Config{Exchange: ExchangeConf{Name: "okx", Label: "test"}})
	m.Sugar = zap.NewNop().Sugar()
	m.ex = api
	buf := &bytes.Buffer{}
	m.out = buf
	return m, buf
}

func TestNewInterval(t *testing.T) {
	m := New(Config{})
	if m.interval != DefaultInterval {
		t.Errorf("default interval = %s", m.interval)
	}
	m = New(Config{Monitor: MonitorConf{Interval: "30s"}})
	if m.interval != 30*time.Second {
		t.Errorf("interval = %s", m.interval)
	}
	if m.alertLevel != RiskWarning {
		t.Errorf("default alert level = %s", m.alertLevel)
	}
}

func TestMonitorOnce(t *testing.T) {
	api := &fakeAPI{
		balance: &okx.Balance{
			TotalEq: "12345.6",
			Details: []okx.BalanceDetail{{Ccy: "BTC", Eq: "0.5"}},
		},
		loan: sampleLoan(),
		tickers: []okx.Ticker{
			{InstId: "BTC-USDT", Last: "50000"},
			{InstId: "ETH-USDT", Last: "2000"},
		},
	}
	m, buf := newTestMonitor(api)
	if err := m.Once(context.Background()); err != nil {
		t.Fatalf("Once: %s", err)
	}
	if api.balanceCalls != 1 || api.loanCalls != 1 || api.tickersCalls != 1 {
		t.Errorf("calls = %d/%d/%d, want one each",
			api.balanceCalls, api.loanCalls, api.tickersCalls)
	}
	out := buf.String()
	for _, want := range []string{
		"LTV: current 50.00%",
		"Risk: SAFE",
		"Trading account: 12345.60 USD",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMonitorOnceLoanError(t *testing.T) {
	api := &fakeAPI{loanErr: errors.New("boom")}
	m, buf := newTestMonitor(api)
	if err := m.Once(context.Background()); err == nil {
		t.Fatal("loan fetch error swallowed")
	}
	if buf.Len() != 0 {
		t.Errorf("rendered a failed cycle:\n%s", buf.String())
	}
}

func TestMonitorOnceBalanceDegrades(t *testing.T) {
	api := &fakeAPI{
		loan:       sampleLoan(),
		balanceErr: errors.New("boom"),
		tickers:    []okx.Ticker{{InstId: "BTC-USDT", Last: "50000"}},
	}
	m, buf := newTestMonitor(api)
	if err := m.Once(context.Background()); err != nil {
		t.Fatalf("balance error should not fail the cycle: %s", err)
	}
	out := buf.String()
	if !strings.Contains(out, "LTV: current 50.00%") {
		t.Errorf("loan section missing:\n%s", out)
	}
	if strings.Contains(out, "Trading account") {
		t.Errorf("account section rendered from a failed fetch:\n%s", out)
	}
}

func TestMonitorOnceTickersDegrade(t *testing.T) {
	api := &fakeAPI{
		loan:       sampleLoan(),
		tickersErr: errors.New("boom"),
	}
	m, buf := newTestMonitor(api)
	if err := m.Once(context.Background()); err != nil {
		t.Fatalf("tickers error should not fail the cycle: %s", err)
	}
	out := buf.String()
	// no cache configured: stablecoins only, nothing marked stale
	if strings.Contains(out, "stale") {
		t.Errorf("stale note without a cache:\n%s", out)
	}
	if !strings.Contains(out, "USDT") {
		t.Errorf("borrowed side missing:\n%s", out)
	}
}

func report(risk RiskLevel) *Report {
	return &Report{
		HasLoan:       true,
		Risk:          risk,
		CurLTV:        d("50"),
		MarginCallLTV: d("80"),
		Usage:         d("62.5"),
	}
}

func TestAlertTransitions(t *testing.T) {
	m, _ := newTestMonitor(nil)

	m.alert(report(RiskSafe))
	if m.alerted {
		t.Error("alerted below the alert level")
	}
	m.alert(report(RiskWarning))
	if !m.alerted || m.lastRisk != RiskWarning {
		t.Error("no alert on reaching the alert level")
	}
	m.alert(report(RiskWarning))
	if !m.alerted {
		t.Error("alert state dropped on an unchanged level")
	}
	m.alert(report(RiskHigh))
	if !m.alerted || m.lastRisk != RiskHigh {
		t.Error("level change not tracked")
	}
	m.alert(report(RiskSafe))
	if m.alerted {
		t.Error("no recovery reset")
	}
	m.alert(&Report{})
	if m.alerted {
		t.Error("alert state kept with no loan")
	}
}
