package handler

import (
	"net/http"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/meta-ads-sync-api/pkg/apiErrors"
)

// maxSyncManyAccounts limita quantas contas uma única requisição pode sincronizar
const maxSyncManyAccounts = 50

type syncResponse struct {
	Campaigns   []*domain.Campaign `json:"campaigns"`
	SyncedCount int                `json:"synced_count"`
	Errors      []string           `json:"errors,omitempty"`
}

// SyncAccount substitui as campanhas armazenadas da conta pelas campanhas atuais da Meta
func SyncAccount(service syncing.SyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		outcome := service.Sync(r.Context(), userID, accountParam(r))
		if !outcome.Succeeded() {
			apiErrors.WriteDomainError(w, outcome.Err)
			return
		}

		writeJSON(w, http.StatusOK, syncResponse{
			Campaigns:   outcome.Campaigns,
			SyncedCount: outcome.SyncedCount,
			Errors:      outcome.Errors,
		})
	})
}

// SyncAccounts sincroniza várias contas. Falhas individuais vão no resultado de cada conta.
func SyncAccounts(service syncing.SyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req domain.SyncManyRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if len(req.AccountIDs) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "account_ids é obrigatório", nil)
			return
		}
		if len(req.AccountIDs) > maxSyncManyAccounts {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Muitas contas em uma única requisição", map[string]int{"max": maxSyncManyAccounts})
			return
		}

		outcomes := service.SyncMany(r.Context(), userID, req.AccountIDs)

		writeJSON(w, http.StatusOK, map[string]any{
			"results": outcomes,
		})
	})
}

// SyncAccountInsights grava os insights diários por campanha da conta
func SyncAccountInsights(service syncing.SyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req domain.InsightQueryRequest
		if !decodeBody(w, r, &req) {
			return
		}

		query, err := req.ToQuery()
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		outcome, err := service.SyncInsights(r.Context(), userID, accountParam(r), query)
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, outcome)
	})
}
