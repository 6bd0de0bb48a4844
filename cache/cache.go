package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const priceTTL = 5 * time.Minute

// Prices is a short-lived USD price cache on Redis. It bridges a failed
// tickers fetch; entries expire after priceTTL so a stale price never
// lives long.
type Prices struct {
	rdb *redis.Client
}

func New(ctx context.Context, addr string, db int) (*Prices, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Prices{rdb: client}, nil
}

func key(currency string) string {
	return fmt.Sprintf("prices:okx:%s", currency)
}

// SetAll refreshes the cached price of every currency in one pipeline.
func (p *Prices) SetAll(ctx context.Context, prices map[string]decimal.Decimal) error {
	pipe := p.rdb.Pipeline()
	for ccy, price := range prices {
		pipe.Set(ctx, key(ccy), price.String(), priceTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// All returns the cached prices of the given currencies. Missing or
// unparsable entries are skipped, not errors.
func (p *Prices) All(ctx context.Context, currencies []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	for _, ccy := range currencies {
		v, err := p.rdb.Get(ctx, key(ccy)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			continue
		}
		prices[ccy] = d
	}
	return prices, nil
}

func (p *Prices) Close() error {
	return p.rdb.Close()
}
