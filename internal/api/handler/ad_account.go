package handler

import (
	"net/http"

	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/account"
	"github.com/vfg2006/meta-ads-sync-api/pkg/apiErrors"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

func AdAccountList(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		accounts, err := service.ListForUser(r.Context(), userID)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("accounts: erro ao listar contas")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, accounts)
	})
}

// DiscoverAccounts importa as contas de anúncio visíveis pelo token do chamador
func DiscoverAccounts(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		resp, err := service.Discover(r.Context(), userID)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("accounts: erro ao descobrir contas na Meta")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	})
}
