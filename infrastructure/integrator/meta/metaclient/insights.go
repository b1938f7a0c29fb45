package metaclient

import (
	"context"
	"net/url"
	"strconv"
	"time"

	metadomain "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

const endpointInsights = "insights"

type timeRange struct {
	Since string `json:"since"`
	Until string `json:"until"`
}

// GetInsights busca insights de uma conta (act_<id>) ou campanha. A query deve estar validada.
func (c *MetaClient) GetInsights(ctx context.Context, entityID string, query domain.InsightQuery, token string) ([]metadomain.Insight, error) {
	params, err := insightParams(query)
	if err != nil {
		return nil, err
	}
	params.Set("limit", strconv.Itoa(c.cfg.PageLimit))
	params.Set("access_token", token)

	return getAllPages[metadomain.Insight](ctx, c, endpointInsights, entityID, c.endpointURL(entityID+"/insights", params))
}

func insightParams(query domain.InsightQuery) (url.Values, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("fields", metadomain.InsightFields)
	level := query.Level
	if level == "" {
		level = domain.InsightLevelAccount
	}
	params.Set("level", string(level))
	params.Set("time_increment", strconv.Itoa(query.Breakdown.TimeIncrement()))

	if query.Segment != "" {
		params.Set("breakdowns", query.Segment.MetaBreakdowns())
	}

	if query.Range != nil {
		tr, err := json.Marshal(timeRange{
			Since: query.Range.Since.Format(time.DateOnly),
			Until: query.Range.Until.Format(time.DateOnly),
		})
		if err != nil {
			return nil, err
		}
		params.Set("time_range", string(tr))
	} else {
		params.Set("date_preset", string(query.Preset))
	}

	return params, nil
}
