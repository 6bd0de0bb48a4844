package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/xyths/qlm/exchange"
)

const DefaultHost = "https://www.okx.com"

type Client struct {
	Host string

	Key        string
	Secret     string
	PassPhrase string

	// Debug logs request diagnostics, never the secret itself.
	Debug bool

	client *http.Client
}

// New validates the key pair before anything touches the network, so a
// missing credential fails fast with the variables to export.
func New(pair exchange.APIKeyPair) (*Client, error) {
	pair = pair.Trim()
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	host := pair.Domain
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		Host:       host,
		Key:        pair.ApiKey,
		Secret:     pair.SecretKey,
		PassPhrase: pair.PassPhrase,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// AccountBalance returns the trading account balance in USD terms.
func (c *Client) AccountBalance(ctx context.Context) (*Balance, error) {
	var data []Balance
	if err := c.get(ctx, "/api/v5/account/balance", &data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("okx: empty balance response")
	}
	return &data[0], nil
}

// AccountConfig returns the account mode settings. Flexible loan needs
// acctLv 2 or above.
func (c *Client) AccountConfig(ctx context.Context) (*AccountConfig, error) {
	var data []AccountConfig
	if err := c.get(ctx, "/api/v5/account/config", &data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("okx: empty account config response")
	}
	return &data[0], nil
}

// LoanInfo returns the flexible loan position, or nil when no loan is
// active.
func (c *Client) LoanInfo(ctx context.Context) (*LoanInfo, error) {
	var data []LoanInfo
	if err := c.get(ctx, "/api/v5/finance/flexible-loan/loan-info", &data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &data[0], nil
}

// CollateralAssets lists the currencies accepted as flexible loan
// collateral.
func (c *Client) CollateralAssets(ctx context.Context) ([]CollateralAssets, error) {
	var data []CollateralAssets
	if err := c.get(ctx, "/api/v5/finance/flexible-loan/collateral-assets", &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Tickers returns the last prices of every instrument of instType.
func (c *Client) Tickers(ctx context.Context, instType string) ([]Ticker, error) {
	path := fmt.Sprintf("/api/v5/market/tickers?instType=%s", instType)
	var data []Ticker
	if err := c.get(ctx, path, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// MaxLoan returns the borrowable amount for an instrument.
func (c *Client) MaxLoan(ctx context.Context, instId, mgnMode string) ([]MaxLoan, error) {
	path := fmt.Sprintf("/api/v5/account/max-loan?instId=%s&mgnMode=%s", instId, mgnMode)
	var data []MaxLoan
	if err := c.get(ctx, path, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Probe sends one signed GET and hands back the raw reply, for
// credential diagnostics.
func (c *Client) Probe(ctx context.Context, path string) (int, []byte, error) {
	req, err := c.newRequest(ctx, exchange.GET, path)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "okx: request %s", path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "okx: read response")
	}
	return resp.StatusCode, data, nil
}

// newRequest signs the path with a fresh timestamp. Signatures are
// never reused between requests.
func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	timestamp := Timestamp()
	sign, err := Sign(c.Secret, timestamp, method, path, "")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Host+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("OK-ACCESS-KEY", c.Key)
	req.Header.Set("OK-ACCESS-SIGN", sign)
	req.Header.Set("OK-ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("OK-ACCESS-PASSPHRASE", c.PassPhrase)
	req.Header.Set("Content-Type", "application/json")
	if c.Debug {
		log.Printf("%s %s, timestamp %s, sign %s...", method, path, timestamp, sign[:8])
	}
	return req, nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := c.newRequest(ctx, exchange.GET, path)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "okx: request %s", path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "okx: read response")
	}
	var r response
	if err = json.Unmarshal(data, &r); err != nil {
		log.Printf("raw response: %s", string(data))
		return errors.Wrapf(err, "okx: decode response of %s", path)
	}
	if r.Code != "0" {
		return &APIError{Status: resp.StatusCode, Code: r.Code, Msg: r.Msg}
	}
	if result != nil {
		if err = json.Unmarshal(r.Data, result); err != nil {
			log.Printf("raw data: %s", string(r.Data))
			return errors.Wrapf(err, "okx: decode data of %s", path)
		}
	}
	return nil
}
