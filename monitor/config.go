package monitor

import (
	"os"

	"github.com/xyths/hs"
	"github.com/xyths/qlm/exchange"
)

type Config struct {
	Exchange ExchangeConf
	Mongo    hs.MongoConf
	MySQL    MySQLConf
	Redis    RedisConf
	Monitor  MonitorConf
	Log      hs.LogConf
	Robots   []hs.BroadcastConf
}

type ExchangeConf struct {
	Name      string              `json:"name"`
	Label     string              `json:"label"`
	KeyPair   exchange.APIKeyPair `json:"keyPair"`
	AwsSecret string              `json:"awsSecret"`
	AwsRegion string              `json:"awsRegion"`
}

type MySQLConf struct {
	URI string `json:"uri"`
}

type RedisConf struct {
	Addr string `json:"addr"`
	DB   int    `json:"db"`
}

type MonitorConf struct {
	Interval    string `json:"interval"`
	MetricsAddr string `json:"metrics"`
	Output      string `json:"output"`
	AlertLevel  string `json:"alertLevel"`
	Debug       bool   `json:"debug"`
}

// Load reads the JSON config file. A missing file is not an error, the
// credentials can come entirely from the environment.
func Load(filename string) (Config, error) {
	cfg := Config{}
	if filename == "" {
		return cfg, nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}
	err := hs.ParseJsonConfig(filename, &cfg)
	return cfg, err
}

// KeyPair resolves the credentials: config file first, then AWS Secrets
// Manager when a secret id is configured, the environment fills the rest.
func (c Config) KeyPair() (exchange.APIKeyPair, error) {
	pair := c.Exchange.KeyPair.Trim()
	if c.Exchange.AwsSecret != "" {
		loaded, err := exchange.LoadKeyPair(c.Exchange.AwsSecret, c.Exchange.AwsRegion)
		if err != nil {
			return pair, err
		}
		pair = pair.Merge(loaded)
	}
	return pair.Merge(exchange.FromEnv()), nil
}
