package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"skillscan/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

// newFakeVault serves KVv2 secrets from memory. Unknown paths return 404.
func newFakeVault(t *testing.T, token string, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized": true,
				"sealed":      false,
				"version":     "1.15.0",
			})
			return
		}

		if r.Header.Get("X-Vault-Token") != token {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}

		secret, ok := secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": secret})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "json number", input: json.Number("7"), expected: 7},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid json number", input: json.Number("1.5"), expectError: true},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	config := &Config{}
	applyGeminiKeyToConfig(config, "gemini-key")

	assert.Equal(t, "gemini-key", config.AI.APIKey)
	assert.Equal(t, "gemini-key", config.AI.Questions.APIKey)

	config = &Config{AI: AIConfig{Questions: OperationAIConfig{APIKey: "dedicated"}}}
	applyGeminiKeyToConfig(config, "gemini-key")

	assert.Equal(t, "gemini-key", config.AI.APIKey)
	assert.Equal(t, "dedicated", config.AI.Questions.APIKey)
}

func TestResolveVaultToken(t *testing.T) {
	logger := newTestLogger()

	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token"}, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestExtractSecretDataAndVersion(t *testing.T) {
	secret := &api.Secret{Data: map[string]any{
		"data":     map[string]any{"api_key": "value"},
		"metadata": map[string]any{"version": json.Number("4")},
	}}

	data, err := extractSecretData(secret, "p")
	require.NoError(t, err)
	assert.Equal(t, "value", data["api_key"])

	version, err := extractSecretVersion(secret, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)

	kv1 := &api.Secret{Data: map[string]any{"api_key": "value"}}
	_, err = extractSecretData(kv1, "p")
	assert.ErrorContains(t, err, "missing 'data' field")
	_, err = extractSecretVersion(kv1, "p")
	assert.ErrorContains(t, err, "missing 'metadata' field")

	noVersion := &api.Secret{Data: map[string]any{"metadata": map[string]any{}}}
	_, err = extractSecretVersion(noVersion, "p")
	assert.ErrorContains(t, err, "missing 'version' field")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "AIza****7890", maskSecret("AIzaSyExample7890"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{AI: AIConfig{APIKey: "from-env"}}

	err := ApplyVaultSecrets(config, newTestLogger())
	assert.NoError(t, err)
	assert.Equal(t, "from-env", config.AI.APIKey)
}

func TestApplyVaultSecrets(t *testing.T) {
	server := newFakeVault(t, "root-token", map[string]map[string]any{
		"/v1/secret/data/skillscan/gemini": {
			"data":     map[string]any{"api_key": "AIzaSyVaultKey1234"},
			"metadata": map[string]any{"version": 3},
		},
		"/v1/secret/data/skillscan/apikeys": {
			"data":     map[string]any{"keys": "k1, k2 ,k3"},
			"metadata": map[string]any{"version": "1"},
		},
	})

	config := &Config{
		AI: AIConfig{APIKey: "from-env"},
		Vault: VaultConfig{
			Enabled: true,
			Address: server.URL,
			Token:   "root-token",
			Secrets: VaultSecrets{
				APIKeys:   "secret/data/skillscan/apikeys",
				GeminiKey: "secret/data/skillscan/gemini",
			},
		},
	}

	require.NoError(t, ApplyVaultSecrets(config, newTestLogger()))
	assert.Equal(t, "AIzaSyVaultKey1234", config.AI.APIKey)
	assert.Equal(t, []string{"k1", "k2", "k3"}, config.Server.APIKeys)
}

func TestApplyVaultSecretsMissingSecret(t *testing.T) {
	server := newFakeVault(t, "root-token", nil)

	config := &Config{
		Vault: VaultConfig{
			Enabled: true,
			Address: server.URL,
			Token:   "root-token",
			Secrets: VaultSecrets{GeminiKey: "secret/data/skillscan/gemini"},
		},
	}

	err := ApplyVaultSecrets(config, newTestLogger())
	assert.ErrorContains(t, err, "secret not found")
	assert.Empty(t, config.AI.APIKey)
}

func TestGetStringSecretWrongKey(t *testing.T) {
	server := newFakeVault(t, "root-token", map[string]map[string]any{
		"/v1/secret/data/app": {
			"data":     map[string]any{"count": 5},
			"metadata": map[string]any{"version": 1},
		},
	})

	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: server.URL, Token: "root-token"}, newTestLogger())
	require.NoError(t, err)

	_, err = client.GetStringSecret("secret/data/app", "api_key")
	assert.ErrorContains(t, err, "not found in secret")

	_, err = client.GetStringSecret("secret/data/app", "count")
	assert.ErrorContains(t, err, "is not a string")
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)

	var nilClient *VaultClient
	_, err = nilClient.GetSecretV2("secret/data/x")
	assert.ErrorContains(t, err, "not initialized")
}
