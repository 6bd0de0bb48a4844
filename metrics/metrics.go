package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CurrentLTV = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "okx_loan_current_ltv", Help: "Current flexible loan LTV in percent"},
	)
	CollateralUsd = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "okx_loan_collateral_usd", Help: "Flexible loan collateral value in USD"},
	)
	LoanUsd = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "okx_loan_borrowed_usd", Help: "Flexible loan borrowed value in USD"},
	)
	EquityUsd = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "okx_account_equity_usd", Help: "Trading account equity in USD"},
	)
	RiskLevel = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "okx_loan_risk_level", Help: "Risk level, 0 safe to 4 margin call"},
	)
	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "okx_monitor_fetch_errors_total", Help: "Failed API fetches"},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(CurrentLTV, CollateralUsd, LoanUsd, EquityUsd, RiskLevel, FetchErrors)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
