package config

import (
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Auth:   Auth{Secret: "secret"},
		Crypto: Crypto{TokenEncryptionKey: "0123456789abcdef"},
		Meta: Meta{
			BaseURL:        "https://graph.facebook.com",
			Version:        "v19.0",
			RequestTimeout: 30 * time.Second,
			MaxRetries:     3,
			PageLimit:      250,
			MaxPages:       20,
		},
		Sync: Sync{
			MaxConcurrentAccounts: 3,
			AccountTimeout:        time.Minute,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("configuração válida", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("acumula todos os erros", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.Secret = ""
		cfg.Crypto.TokenEncryptionKey = "short"
		cfg.Sync.MaxConcurrentAccounts = 0

		err := cfg.Validate()
		require.Error(t, err)

		merr, ok := err.(*multierror.Error)
		require.True(t, ok)
		assert.Len(t, merr.Errors, 3)
	})

	t.Run("rabbitmq habilitado sem url", func(t *testing.T) {
		cfg := validConfig()
		cfg.RabbitMQ = RabbitMQ{Enabled: true}

		assert.Error(t, cfg.Validate())
	})
}
