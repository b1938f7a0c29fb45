package metadomain

import (
	"net/http"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

// CodeInvalidToken é o código canônico da Meta para token inválido ou expirado
const CodeInvalidToken = 190

// Códigos de rate limit documentados pela Meta
var rateLimitCodes = map[int]struct{}{
	4:     {},
	17:    {},
	32:    {},
	613:   {},
	80000: {},
	80004: {},
}

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id"`
}

// IsTokenExpired verifica se o erro é de token expirado
func (e *ErrorResponse) IsTokenExpired() bool {
	// Subcódigos 460, 463 e 467 também indicam sessão invalidada
	return e.Error.Code == CodeInvalidToken ||
		(e.Error.Type == "OAuthException" && (e.Error.ErrorSubcode == 460 || e.Error.ErrorSubcode == 463 || e.Error.ErrorSubcode == 467))
}

func (e *ErrorResponse) IsRateLimited() bool {
	_, ok := rateLimitCodes[e.Error.Code]
	return ok
}

// ToDomainError traduz o envelope de erro da Meta para a taxonomia do domínio
func (e *ErrorResponse) ToDomainError(statusCode int) error {
	if e.IsTokenExpired() {
		return &domain.AuthError{
			Code:    e.Error.Code,
			Subcode: e.Error.ErrorSubcode,
			Message: e.Error.Message,
		}
	}

	message := e.Error.Message
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &domain.RemoteAPIError{
		StatusCode:  statusCode,
		Code:        e.Error.Code,
		Subcode:     e.Error.ErrorSubcode,
		Type:        e.Error.Type,
		Message:     message,
		FBTraceID:   e.Error.FBTraceID,
		RateLimited: e.IsRateLimited(),
	}
}

// ThrottleInfo é o conteúdo do header x-fb-ads-insights-throttle
type ThrottleInfo struct {
	AppIDUtilPct                float64 `json:"app_id_util_pct"`
	AccIDUtilPct                float64 `json:"acc_id_util_pct"`
	EstimatedTimeToRegainAccess int     `json:"estimated_time_to_regain_access"`
}
