package exchange

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/pkg/errors"
)

const DefaultSecretRegion = "ap-northeast-1"

// LoadKeyPair fetches an APIKeyPair stored as JSON in AWS Secrets Manager.
// The secret value uses the same field names as the config file
// (apiKey, secretKey, passphrase, domain).
func LoadKeyPair(secretId, region string) (APIKeyPair, error) {
	var pair APIKeyPair
	if region == "" {
		region = DefaultSecretRegion
	}
	svc := secretsmanager.New(session.New(), aws.NewConfig().WithRegion(region))
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretId),
		VersionStage: aws.String("AWSCURRENT"),
	}
	result, err := svc.GetSecretValue(input)
	if err != nil {
		return pair, errors.Wrapf(err, "get secret %s", secretId)
	}
	var raw []byte
	if result.SecretString != nil {
		raw = []byte(*result.SecretString)
	} else {
		raw = make([]byte, base64.StdEncoding.DecodedLen(len(result.SecretBinary)))
		n, err := base64.StdEncoding.Decode(raw, result.SecretBinary)
		if err != nil {
			return pair, errors.Wrapf(err, "decode secret %s", secretId)
		}
		raw = raw[:n]
	}
	if err := json.Unmarshal(raw, &pair); err != nil {
		return pair, errors.Wrapf(err, "parse secret %s", secretId)
	}
	return pair.Trim(), nil
}
