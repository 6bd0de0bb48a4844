package okx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
)

var ErrEmptySecret = errors.New("okx: empty secret key")

// TimestampLayout is the ISO-8601 form OKX expects, UTC with exactly
// three fractional digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp returns the current time in the wire format. The same string
// must go into the signature and the OK-ACCESS-TIMESTAMP header.
func Timestamp() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// Sign computes the OKX v5 request signature: the base64 of an
// HMAC-SHA256 over timestamp+method+path+body, keyed by the secret.
// No separators between the segments; path carries the query string;
// body is empty for GET requests.
func Sign(secret, timestamp, method, path, body string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + method + path + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
