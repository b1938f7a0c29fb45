package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShares(t *testing.T) {
	t.Run("percentual com uma casa", func(t *testing.T) {
		totals := map[string]RawCounters{
			"mobile":  {Spend: decimal.NewFromInt(2)},
			"desktop": {Spend: decimal.NewFromInt(1)},
		}

		assert.Equal(t, []BreakdownShare{
			{Key: "mobile", Value: 2, Percentage: 66.7},
			{Key: "desktop", Value: 1, Percentage: 33.3},
		}, Shares(totals, MetricSpend))
	})

	t.Run("no máximo dez fatias sobre o total geral", func(t *testing.T) {
		totals := make(map[string]RawCounters)
		for i := 1; i <= 20; i++ {
			totals[fmt.Sprintf("k%02d", i)] = RawCounters{Impressions: 10}
		}

		shares := Shares(totals, MetricImpressions)
		require.Len(t, shares, 10)
		assert.Equal(t, "k01", shares[0].Key)
		assert.Equal(t, 5.0, shares[0].Percentage)
	})

	t.Run("total zero", func(t *testing.T) {
		shares := Shares(map[string]RawCounters{"male": {}}, MetricConversions)
		assert.Equal(t, []BreakdownShare{{Key: "male"}}, shares)
	})

	t.Run("sem dados", func(t *testing.T) {
		assert.Empty(t, Shares(nil, MetricClicks))
	})
}

func TestPlacementName(t *testing.T) {
	tests := []struct {
		platform string
		position string
		want     string
	}{
		{platform: "instagram", position: "stories", want: "Instagram Stories"},
		{platform: "facebook", position: "video_feeds", want: "Facebook Video Feed"},
		{platform: "audience_network", want: "Audience Network"},
		{platform: "threads", position: "feed", want: "threads Feed"},
		{platform: "messenger", position: "inbox", want: "Messenger inbox"},
		{want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PlacementName(tt.platform, tt.position))
	}
}
