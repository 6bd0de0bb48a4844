package okx

import (
	"os"
	"testing"
	"time"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/builder"
	"github.com/stretchr/testify/require"
	"github.com/xyths/qlm/exchange"
)

// Cross-check the credentials against goex's OKEx client. The two
// clients sign independently, so a pass here plus a failure in ours
// points at the request, not the key.
//
// OKX_API_KEY=xxx OKX_SECRET_KEY=yyy OKX_PASSPHRASE=zzz go test -v -run TestGoexCrossCheck ./exchange/okx
func TestGoexCrossCheck(t *testing.T) {
	pair := exchange.FromEnv()
	if pair.ApiKey == "" || pair.SecretKey == "" || pair.PassPhrase == "" {
		t.Skip("no credentials in environment")
	}
	apiBuilder := builder.NewAPIBuilder().HttpTimeout(5 * time.Second)
	if proxy := os.Getenv("http_proxy"); proxy != "" {
		apiBuilder = apiBuilder.HttpProxy(proxy)
	}

	api := apiBuilder.ApiPassphrase(pair.PassPhrase).APIKey(pair.ApiKey).APISecretkey(pair.SecretKey).Build(goex.OKEX)
	t.Logf("GetExchangeName: %s", api.GetExchangeName())
	ticker, err := api.GetTicker(goex.BTC_USDT)
	require.NoError(t, err)
	t.Logf("GetTicker(goex.BTC_USDT): %#v", ticker)
	account, err := api.GetAccount()
	require.NoError(t, err)
	t.Logf("GetAccount(): %#v", account)
}
