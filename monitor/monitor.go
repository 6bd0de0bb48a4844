package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xyths/hs"
	"github.com/xyths/hs/broadcast"
	"github.com/xyths/hs/logger"
	"github.com/xyths/qlm/cache"
	"github.com/xyths/qlm/exchange/okx"
	"github.com/xyths/qlm/metrics"
	"github.com/xyths/qlm/snapshot"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const DefaultInterval = 5 * time.Minute

// LoanAPI is the slice of the exchange client the monitor needs.
type LoanAPI interface {
	AccountBalance(ctx context.Context) (*okx.Balance, error)
	LoanInfo(ctx context.Context) (*okx.LoanInfo, error)
	Tickers(ctx context.Context, instType string) ([]okx.Ticker, error)
}

type Monitor struct {
	cfg        Config
	interval   time.Duration
	alertLevel RiskLevel

	Sugar  *zap.SugaredLogger
	db     *mongo.Database
	ex     LoanAPI
	prices *cache.Prices
	store  *snapshot.Store
	robots []broadcast.Broadcaster
	out    io.Writer

	lastRisk RiskLevel
	alerted  bool
}

func New(cfg Config) *Monitor {
	interval := DefaultInterval
	if cfg.Monitor.Interval != "" {
		d, err := time.ParseDuration(cfg.Monitor.Interval)
		if err != nil {
			logger.Sugar.Fatalf("error interval format: %s", cfg.Monitor.Interval)
		}
		interval = d
	}
	return &Monitor{
		cfg:        cfg,
		interval:   interval,
		alertLevel: ParseRiskLevel(cfg.Monitor.AlertLevel, RiskWarning),
		out:        os.Stdout,
	}
}

func (m *Monitor) Init(ctx context.Context) error {
	l, err := hs.NewZapLogger(m.cfg.Log)
	if err != nil {
		return err
	}
	m.Sugar = l.Sugar()
	m.Sugar.Info("Logger initialized")

	pair, err := m.cfg.KeyPair()
	if err != nil {
		return err
	}
	client, err := okx.New(pair)
	if err != nil {
		return err
	}
	client.Debug = m.cfg.Monitor.Debug
	m.ex = client
	m.Sugar.Info("Exchange initialized")

	if m.cfg.Mongo.URI != "" {
		db, err := hs.ConnectMongo(ctx, m.cfg.Mongo)
		if err != nil {
			return err
		}
		m.db = db
		m.store = snapshot.New(db)
		if m.cfg.MySQL.URI != "" {
			if err := m.store.WithMySQL(m.cfg.MySQL.URI); err != nil {
				return err
			}
		}
		if m.cfg.Monitor.Output != "" {
			m.store.WithOutput(m.cfg.Monitor.Output)
		}
		m.Sugar.Info("Snapshot store initialized")
	}
	if m.cfg.Redis.Addr != "" {
		prices, err := cache.New(ctx, m.cfg.Redis.Addr, m.cfg.Redis.DB)
		if err != nil {
			m.Sugar.Errorf("redis unavailable: %s", err)
		} else {
			m.prices = prices
			m.Sugar.Info("Price cache initialized")
		}
	}
	m.initRobots(ctx)
	return nil
}

func (m *Monitor) initRobots(ctx context.Context) {
	for _, conf := range m.cfg.Robots {
		m.robots = append(m.robots, broadcast.New(conf))
	}
	if len(m.robots) > 0 {
		m.Sugar.Info("Broadcasters initialized")
	}
}

func (m *Monitor) Close(ctx context.Context) {
	if m.store != nil {
		m.store.Close()
	}
	if m.prices != nil {
		_ = m.prices.Close()
	}
	if m.db != nil {
		_ = m.db.Client().Disconnect(ctx)
	}
	if m.Sugar != nil {
		m.Sugar.Info("monitor closed")
		_ = m.Sugar.Sync()
	}
}

// Once runs one monitoring cycle: fetch, value, render, record, alert.
func (m *Monitor) Once(ctx context.Context) error {
	r, err := m.fetch(ctx)
	if err != nil {
		return err
	}
	r.Label = m.cfg.Exchange.Label
	Render(m.out, r)
	m.record(ctx, r)
	m.alert(r)
	return nil
}

// Watch repeats Once on the configured interval until the context ends.
// A failed cycle is logged, the loop keeps going.
func (m *Monitor) Watch(ctx context.Context) error {
	if m.cfg.Monitor.MetricsAddr != "" {
		srv := metrics.Serve(m.cfg.Monitor.MetricsAddr)
		defer func() {
			_ = srv.Close()
		}()
		m.Sugar.Infof("metrics on %s", m.cfg.Monitor.MetricsAddr)
	}
	if err := m.Once(ctx); err != nil {
		m.Sugar.Errorf("error when monitor: %s", err)
	}
	for {
		select {
		case <-ctx.Done():
			m.Sugar.Info(ctx.Err())
			return nil
		case <-time.After(m.interval):
			if err := m.Once(ctx); err != nil {
				m.Sugar.Errorf("error when monitor: %s", err)
			}
		}
	}
}

// fetch pulls balance, loan state and tickers in parallel. The loan is
// the one piece the monitor cannot do without; the others degrade.
func (m *Monitor) fetch(ctx context.Context) (*Report, error) {
	var (
		balance *okx.Balance
		loan    *okx.LoanInfo
		tickers []okx.Ticker

		balanceErr, loanErr, tickersErr error
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		balance, balanceErr = m.ex.AccountBalance(ctx)
	}()
	go func() {
		defer wg.Done()
		loan, loanErr = m.ex.LoanInfo(ctx)
	}()
	go func() {
		defer wg.Done()
		tickers, tickersErr = m.ex.Tickers(ctx, "SPOT")
	}()
	wg.Wait()

	if loanErr != nil {
		metrics.FetchErrors.WithLabelValues("loan-info").Inc()
		return nil, loanErr
	}
	if balanceErr != nil {
		metrics.FetchErrors.WithLabelValues("balance").Inc()
		m.Sugar.Errorf("balance error: %s", balanceErr)
	}
	prices, stale := m.priceMap(ctx, tickers, tickersErr, loan)
	r := BuildReport(balance, loan, prices)
	r.PricesStale = stale
	return r, nil
}

// priceMap prefers fresh tickers and refreshes the cache from them; on
// a tickers failure it falls back to cached prices for the loan
// currencies.
func (m *Monitor) priceMap(ctx context.Context, tickers []okx.Ticker, tickersErr error, loan *okx.LoanInfo) (map[string]decimal.Decimal, bool) {
	if tickersErr == nil {
		prices := PriceMap(tickers)
		if m.prices != nil {
			if err := m.prices.SetAll(ctx, prices); err != nil {
				m.Sugar.Errorf("price cache refresh error: %s", err)
			}
		}
		return prices, false
	}
	metrics.FetchErrors.WithLabelValues("tickers").Inc()
	m.Sugar.Errorf("tickers error: %s", tickersErr)
	if m.prices == nil {
		return PriceMap(nil), false
	}
	cached, err := m.prices.All(ctx, loanCurrencies(loan))
	if err != nil {
		m.Sugar.Errorf("price cache read error: %s", err)
		return PriceMap(nil), false
	}
	if len(cached) == 0 {
		return PriceMap(nil), false
	}
	for coin, price := range PriceMap(nil) {
		cached[coin] = price
	}
	return cached, true
}

func loanCurrencies(loan *okx.LoanInfo) []string {
	if loan == nil {
		return nil
	}
	seen := make(map[string]bool)
	var currencies []string
	for _, a := range loan.CollateralData {
		if !seen[a.Ccy] {
			seen[a.Ccy] = true
			currencies = append(currencies, a.Ccy)
		}
	}
	for _, a := range loan.LoanData {
		if !seen[a.Ccy] {
			seen[a.Ccy] = true
			currencies = append(currencies, a.Ccy)
		}
	}
	return currencies
}

func (m *Monitor) record(ctx context.Context, r *Report) {
	equity, _ := r.TotalEquity.Float64()
	metrics.EquityUsd.Set(equity)
	if !r.HasLoan {
		return
	}
	ltv, _ := r.CurLTV.Float64()
	collateral, _ := r.CollateralUsd.Float64()
	loan, _ := r.LoanUsd.Float64()
	metrics.CurrentLTV.Set(ltv)
	metrics.CollateralUsd.Set(collateral)
	metrics.LoanUsd.Set(loan)
	metrics.RiskLevel.Set(float64(r.Risk))
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, r.Snapshot()); err != nil {
		m.Sugar.Errorf("save snapshot error: %s", err)
	}
}

// alert broadcasts once per transition to a level at or above the
// configured one, and once on recovery below it.
func (m *Monitor) alert(r *Report) {
	if !r.HasLoan {
		m.alerted = false
		return
	}
	if r.Risk >= m.alertLevel {
		if !m.alerted || r.Risk != m.lastRisk {
			m.Broadcast("loan risk %s: LTV %s%%, margin call at %s%%, %s%% in use",
				r.Risk, pct(r.CurLTV), pct(r.MarginCallLTV), pct(r.Usage))
			m.alerted = true
		}
	} else if m.alerted {
		m.Broadcast("loan risk back to %s: LTV %s%%", r.Risk, pct(r.CurLTV))
		m.alerted = false
	}
	m.lastRisk = r.Risk
}

func (m *Monitor) Broadcast(format string, a ...interface{}) {
	message := fmt.Sprintf(format, a...)
	labels := []string{m.cfg.Exchange.Name, m.cfg.Exchange.Label}
	secondsEastOfUTC := int((8 * time.Hour).Seconds())
	beijing := time.FixedZone("Beijing Time", secondsEastOfUTC)
	layout := "2006-01-02 15:04:05"
	timeStr := time.Now().In(beijing).Format(layout)

	msg := fmt.Sprintf("%s [%s] %s", timeStr, strings.Join(labels, "] ["), message)
	for _, robot := range m.robots {
		if err := robot.SendText(msg); err != nil {
			m.Sugar.Infof("broadcast error: %s", err)
		}
	}
}
