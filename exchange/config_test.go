package exchange

import (
	"strings"
	"testing"
)

func TestAPIKeyPairValidate(t *testing.T) {
	tests := []struct {
		name    string
		pair    APIKeyPair
		missing []string
	}{
		{"complete", APIKeyPair{ApiKey: "k", SecretKey: "s", PassPhrase: "p"}, nil},
		{"empty", APIKeyPair{}, []string{EnvApiKey, EnvSecretKey, EnvPassPhrase}},
		{"no secret", APIKeyPair{ApiKey: "k", PassPhrase: "p"}, []string{EnvSecretKey}},
		{"no passphrase", APIKeyPair{ApiKey: "k", SecretKey: "s"}, []string{EnvPassPhrase}},
	}
	for _, tt := range tests {
		err := tt.pair.Validate()
		if len(tt.missing) == 0 {
			if err != nil {
				t.Errorf("%s: unexpected error: %s", tt.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		for _, name := range tt.missing {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("%s: error %q does not name %s", tt.name, err, name)
			}
		}
	}
}

func TestAPIKeyPairMerge(t *testing.T) {
	file := APIKeyPair{ApiKey: "file-key"}
	env := APIKeyPair{ApiKey: "env-key", SecretKey: "env-secret", PassPhrase: "env-pass"}
	merged := file.Merge(env)
	if merged.ApiKey != "file-key" {
		t.Errorf("explicit value overwritten: %s", merged.ApiKey)
	}
	if merged.SecretKey != "env-secret" || merged.PassPhrase != "env-pass" {
		t.Errorf("blank fields not filled: %#v", merged)
	}
}

func TestAPIKeyPairTrim(t *testing.T) {
	pair := APIKeyPair{ApiKey: " key ", SecretKey: "secret\n", PassPhrase: "\tpass"}
	trimmed := pair.Trim()
	if trimmed.ApiKey != "key" || trimmed.SecretKey != "secret" || trimmed.PassPhrase != "pass" {
		t.Errorf("trim failed: %#v", trimmed)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvApiKey, " env-key ")
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvPassPhrase, "env-pass")
	t.Setenv(EnvHost, "")
	pair := FromEnv()
	if pair.ApiKey != "env-key" {
		t.Errorf("ApiKey = %q, want env-key", pair.ApiKey)
	}
	if err := pair.Validate(); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
