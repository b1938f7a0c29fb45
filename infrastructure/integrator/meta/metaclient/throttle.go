package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

// Throttle guarda, por chave, até quando as chamadas à Meta devem ser suspensas
type Throttle interface {
	BlockedFor(ctx context.Context, key string) (time.Duration, error)
	Block(ctx context.Context, key string, d time.Duration) error
}

type MemoryThrottle struct {
	mu      sync.Mutex
	until   map[string]time.Time
	nowFunc func() time.Time
}

func NewMemoryThrottle() *MemoryThrottle {
	return &MemoryThrottle{
		until:   make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

func (t *MemoryThrottle) BlockedFor(_ context.Context, key string) (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.until[key]
	if !ok {
		return 0, nil
	}

	remaining := until.Sub(t.nowFunc())
	if remaining <= 0 {
		delete(t.until, key)
		return 0, nil
	}

	return remaining, nil
}

func (t *MemoryThrottle) Block(_ context.Context, key string, d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	until := t.nowFunc().Add(d)
	if current, ok := t.until[key]; ok && current.After(until) {
		return nil
	}

	t.until[key] = until
	return nil
}

// RedisThrottle compartilha o bloqueio entre réplicas usando chaves com TTL
type RedisThrottle struct {
	client *redis.Client
	prefix string
}

func NewRedisThrottle(client *redis.Client) *RedisThrottle {
	return &RedisThrottle{client: client, prefix: "meta:throttle:"}
}

func (t *RedisThrottle) BlockedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := t.client.PTTL(ctx, t.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("erro ao consultar throttle no redis: %w", err)
	}

	// -2 chave inexistente, -1 sem expiração
	if ttl < 0 {
		return 0, nil
	}

	return ttl, nil
}

func (t *RedisThrottle) Block(ctx context.Context, key string, d time.Duration) error {
	current, err := t.BlockedFor(ctx, key)
	if err != nil {
		return err
	}
	if current >= d {
		return nil
	}

	if err := t.client.Set(ctx, t.prefix+key, "1", d).Err(); err != nil {
		return fmt.Errorf("erro ao gravar throttle no redis: %w", err)
	}

	return nil
}

func (c *MetaClient) checkThrottle(ctx context.Context, endpoint, key string) error {
	remaining, err := c.throttle.BlockedFor(ctx, key)
	if err != nil {
		// Falha no armazenamento do throttle não deve impedir a chamada
		logrus.WithError(err).Warn("Não foi possível consultar o throttle")
		return nil
	}

	if remaining <= 0 {
		return nil
	}

	c.metrics.ThrottledCalls.WithLabelValues(endpoint).Inc()
	logrus.WithFields(logrus.Fields{
		"endpoint":  endpoint,
		"key":       key,
		"remaining": remaining.String(),
	}).Warn("Chamada à Meta suspensa por rate limit")

	return &domain.RemoteAPIError{
		StatusCode:  http.StatusTooManyRequests,
		Message:     fmt.Sprintf("rate limit ativo, tente novamente em %s", remaining.Round(time.Second)),
		RateLimited: true,
	}
}

func (c *MetaClient) block(ctx context.Context, key string, d time.Duration) {
	if d <= 0 {
		return
	}

	if err := c.throttle.Block(ctx, key, d); err != nil {
		logrus.WithError(err).Warn("Não foi possível registrar o throttle")
	}
}

// observeThrottleHeader bloqueia a chave quando a Meta informa tempo de espera no header de throttle
func (c *MetaClient) observeThrottleHeader(ctx context.Context, key, header string) {
	if header == "" {
		return
	}

	var info metadomain.ThrottleInfo
	if err := json.Unmarshal([]byte(header), &info); err != nil {
		logrus.WithField("header", header).Debug("Header de throttle inválido")
		return
	}

	if info.EstimatedTimeToRegainAccess > 0 {
		wait := time.Duration(info.EstimatedTimeToRegainAccess) * time.Second
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"acc_util_pct": info.AccIDUtilPct,
			"app_util_pct": info.AppIDUtilPct,
			"wait":         wait.String(),
		}).Warn("Meta sinalizou throttle de insights")
		c.block(ctx, key, wait)
	}
}
