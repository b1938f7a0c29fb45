package metaclient

import (
	"context"
	"net/url"
	"strconv"

	metadomain "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

const endpointCampaigns = "campaigns"

// GetCampaignsByAccountID lista todas as campanhas da conta, seguindo a paginação
func (c *MetaClient) GetCampaignsByAccountID(ctx context.Context, accountID, token string) ([]metadomain.Campaign, error) {
	externalID := domain.ToExternalAccountID(accountID)

	params := url.Values{}
	params.Set("fields", metadomain.CampaignFields)
	params.Set("limit", strconv.Itoa(c.cfg.PageLimit))
	params.Set("access_token", token)

	return getAllPages[metadomain.Campaign](ctx, c, endpointCampaigns, externalID, c.endpointURL(externalID+"/campaigns", params))
}
