package metaclient

import (
	"context"
	"net/url"
	"strconv"

	metadomain "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/domain"
)

const endpointAdAccounts = "adaccounts"

// GetAdAccounts lista as contas de anúncio acessíveis pelo token do usuário
func (c *MetaClient) GetAdAccounts(ctx context.Context, token string) ([]metadomain.AdAccount, error) {
	params := url.Values{}
	params.Set("fields", metadomain.AdAccountFields)
	params.Set("limit", strconv.Itoa(c.cfg.PageLimit))
	params.Set("access_token", token)

	return getAllPages[metadomain.AdAccount](ctx, c, endpointAdAccounts, "me", c.endpointURL("me/adaccounts", params))
}
