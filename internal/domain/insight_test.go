package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRawCounters_Derive(t *testing.T) {
	tests := []struct {
		name     string
		counters RawCounters
		want     DerivedMetrics
	}{
		{
			name: "todos os denominadores positivos",
			counters: RawCounters{
				Impressions: 1000,
				Clicks:      20,
				Spend:       decimal.NewFromInt(10),
				Revenue:     decimal.NewFromInt(25),
			},
			want: DerivedMetrics{CTR: 2, CPC: 0.5, CPM: 10, ROAS: 2.5},
		},
		{
			name:     "tudo zero",
			counters: RawCounters{Spend: decimal.Zero, Revenue: decimal.Zero},
			want:     DerivedMetrics{},
		},
		{
			name: "sem cliques nem gasto",
			counters: RawCounters{
				Impressions: 500,
				Spend:       decimal.Zero,
				Revenue:     decimal.NewFromInt(40),
			},
			want: DerivedMetrics{CTR: 0, CPC: 0, CPM: 0, ROAS: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counters.Derive())
		})
	}
}

func TestRawCounters_Add(t *testing.T) {
	a := RawCounters{Impressions: 100, Clicks: 1, Reach: 80, Spend: decimal.NewFromInt(2), Conversions: 1, Revenue: decimal.NewFromInt(5)}
	b := RawCounters{Impressions: 300, Clicks: 3, Reach: 20, Spend: decimal.NewFromInt(6), Revenue: decimal.Zero}

	sum := a.Add(b)

	assert.Equal(t, int64(400), sum.Impressions)
	assert.Equal(t, int64(4), sum.Clicks)
	assert.Equal(t, int64(100), sum.Reach)
	assert.Equal(t, int64(1), sum.Conversions)
	assert.True(t, decimal.NewFromInt(8).Equal(sum.Spend))
	assert.True(t, decimal.NewFromInt(5).Equal(sum.Revenue))
}

func TestNewSeriesPoint(t *testing.T) {
	point := NewSeriesPoint("2024-03-01", RawCounters{
		Impressions: 3000,
		Clicks:      3,
		Spend:       decimal.NewFromInt(1),
		Revenue:     decimal.RequireFromString("2.006"),
	})

	assert.Equal(t, "2024-03-01", point.Date)
	assert.Equal(t, 0.1, point.CTR)
	assert.Equal(t, 0.33, point.CPC)
	assert.Equal(t, 0.33, point.CPM)
	assert.Equal(t, 2.01, point.Revenue)
}
