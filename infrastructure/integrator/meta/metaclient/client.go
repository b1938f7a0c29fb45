package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const throttleHeader = "x-fb-ads-insights-throttle"

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

type Client interface {
	GetCampaignsByAccountID(ctx context.Context, accountID, token string) ([]metadomain.Campaign, error)
	GetInsights(ctx context.Context, entityID string, query domain.InsightQuery, token string) ([]metadomain.Insight, error)
	GetAdAccounts(ctx context.Context, token string) ([]metadomain.AdAccount, error)
}

type MetaClient struct {
	cfg        config.Meta
	httpClient *http.Client
	throttle   Throttle
	metrics    *metrics.Metrics
}

func NewClient(cfg config.Meta, throttle Throttle, m *metrics.Metrics) *MetaClient {
	if throttle == nil {
		throttle = NewMemoryThrottle()
	}

	return &MetaClient{
		cfg:        cfg,
		httpClient: &http.Client{},
		throttle:   throttle,
		metrics:    m,
	}
}

// endpointURL monta a URL de um recurso da Graph API com os parâmetros informados
func (c *MetaClient) endpointURL(path string, params url.Values) string {
	return fmt.Sprintf("%s/%s?%s", c.cfg.URL, path, params.Encode())
}

// get executa um GET com bloqueio por rate limit, timeout por chamada e retentativa
// com backoff exponencial apenas para erros de rede e timeout
func (c *MetaClient) get(ctx context.Context, endpoint, throttleKey, requestURL string) ([]byte, error) {
	if err := c.checkThrottle(ctx, endpoint, throttleKey); err != nil {
		return nil, err
	}

	var body []byte
	attempt := 0

	operation := func() error {
		attempt++

		b, err := c.doRequest(ctx, endpoint, throttleKey, requestURL)
		if err == nil {
			body = b
			return nil
		}

		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}

		logrus.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"attempt":  attempt,
			"error":    err.Error(),
		}).Warn("Falha de rede na Graph API, tentando novamente")
		c.metrics.RemoteRetries.WithLabelValues(endpoint).Inc()

		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.cfg.RetryInitial
	eb.MaxElapsedTime = 0

	bkoff := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.cfg.MaxRetries)), ctx)

	if err := backoff.Retry(operation, bkoff); err != nil {
		return nil, asTransportError(endpoint, err)
	}

	return body, nil
}

func (c *MetaClient) doRequest(ctx context.Context, endpoint, throttleKey, requestURL string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RemoteLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.RemoteRequests.WithLabelValues(endpoint, "network_error").Inc()
		return nil, asTransportError(endpoint, err)
	}
	defer resp.Body.Close()

	c.observeThrottleHeader(ctx, throttleKey, resp.Header.Get(throttleHeader))

	body, err := c.HandleResponse(resp)
	if err != nil {
		kind := domain.KindOf(err)
		c.metrics.RemoteRequests.WithLabelValues(endpoint, string(kind)).Inc()

		var remoteErr *domain.RemoteAPIError
		if errors.As(err, &remoteErr) && remoteErr.RateLimited {
			c.block(ctx, throttleKey, c.cfg.ThrottleBlock)
		}

		return nil, err
	}

	c.metrics.RemoteRequests.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

// HandleResponse lê o corpo e traduz respostas não 2xx para a taxonomia de erros
func (c *MetaClient) HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Op: "read response", Err: err}
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return body, nil
	}

	return nil, handleErrorResponse(resp.StatusCode, body)
}

func handleErrorResponse(statusCode int, body []byte) error {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error.Code == 0 && errorResp.Error.Message == "" {
		return &domain.RemoteAPIError{
			StatusCode: statusCode,
			Message:    fmt.Sprintf("resposta inesperada da API. Status: %d", statusCode),
		}
	}

	if errorResp.IsTokenExpired() {
		logrus.WithFields(logrus.Fields{
			"code":    errorResp.Error.Code,
			"subcode": errorResp.Error.ErrorSubcode,
		}).Warn("Token expirado detectado pela API Meta")
	}

	return errorResp.ToDomainError(statusCode)
}

// asTransportError converte falhas de transporte e cancelamento em NetworkError
func asTransportError(op string, err error) error {
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}

	timeout := errors.Is(err, context.DeadlineExceeded)

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}

	return &domain.NetworkError{Op: op, Timeout: timeout, Err: err}
}

// getAllPages segue paging.next até esgotar os resultados. Passar de MaxPages é erro.
func getAllPages[T any](ctx context.Context, c *MetaClient, endpoint, throttleKey, firstURL string) ([]T, error) {
	items := make([]T, 0)
	next := firstURL

	for page := 0; next != "" && page < c.cfg.MaxPages; page++ {
		body, err := c.get(ctx, endpoint, throttleKey, next)
		if err != nil {
			return nil, err
		}

		var response metadomain.Page[T]
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, &domain.RemoteAPIError{
				StatusCode: http.StatusOK,
				Message:    fmt.Sprintf("erro ao decodificar JSON: %v", err),
			}
		}

		items = append(items, response.Data...)
		next = response.Paging.Next
	}

	// uma listagem parcial nunca é devolvida
	if next != "" {
		logrus.WithFields(logrus.Fields{
			"endpoint":  endpoint,
			"max_pages": c.cfg.MaxPages,
			"received":  len(items),
		}).Warn("Limite de páginas atingido, listagem descartada")

		return nil, &domain.RemoteAPIError{
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("%s: listagem excede o limite de %d páginas", endpoint, c.cfg.MaxPages),
			Truncated:  true,
		}
	}

	return items, nil
}
