package handler

import (
	"net/http"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/pkg/apiErrors"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

// SetMetaToken grava o token da Meta do chamador. Não existe rota para removê-lo.
func SetMetaToken(store credential.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req domain.SetMetaTokenRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := store.Set(r.Context(), userID, req.AccessToken); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("token: falha ao gravar token da Meta")
			apiErrors.WriteDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
