package handler

import (
	"net/http"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/insighting"
	"github.com/vfg2006/meta-ads-sync-api/pkg/apiErrors"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

// GetStoredInsights devolve a série diária gravada para a conta, com métricas derivadas recalculadas
func GetStoredInsights(service insighting.Aggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		dateRange, err := domain.ParseDateRange(r.URL.Query().Get("since"), r.URL.Query().Get("until"))
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		points, err := service.StoredSeries(r.Context(), userID, accountParam(r), dateRange.Since, dateRange.Until)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("insights: erro ao ler série armazenada")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"series": points,
		})
	})
}

// AggregateInsights soma os insights de várias contas por data
func AggregateInsights(service insighting.Aggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req domain.AggregateRequest
		if !decodeBody(w, r, &req) {
			return
		}

		query, err := req.ToQuery()
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		result, err := service.Aggregate(r.Context(), userID, req.AccountIDs, query)
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

// TopCampaigns ranqueia as campanhas das contas pedidas
func TopCampaigns(service insighting.Aggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req domain.TopCampaignsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		query, err := req.InsightQueryRequest.WithDefaultPreset(domain.PresetLast30d).ToQuery()
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		result, err := service.TopCampaigns(r.Context(), userID, req.AccountIDs, domain.CampaignSortKey(req.SortBy), req.Limit, query)
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

// MetricBreakdowns distribui uma métrica por idade, gênero, dispositivo e posicionamento
func MetricBreakdowns(service insighting.Aggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req domain.BreakdownsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		query, err := req.InsightQueryRequest.WithDefaultPreset(domain.PresetLast30d).ToQuery()
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		result, err := service.Breakdowns(r.Context(), userID, req.AccountIDs, domain.BreakdownMetric(req.Metric), query)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("insights: erro ao calcular breakdowns")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}
