package queue

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

func TestBuildPublishing(t *testing.T) {
	syncedAt := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)

	msg, err := buildPublishing(domain.CampaignsSyncedEvent{
		UserID:      "user-1",
		AccountID:   "acc-1",
		ExternalID:  "act_123",
		SyncedCount: 4,
		SyncedAt:    syncedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, RoutingKeyCampaignsSynced, msg.Type)
	assert.JSONEq(t, `{"user_id":"user-1","account_id":"acc-1","external_id":"act_123","synced_count":4,"synced_at":"2024-03-01T03:00:00Z"}`, string(msg.Body))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	assert.NoError(t, p.PublishCampaignsSynced(context.Background(), domain.CampaignsSyncedEvent{AccountID: "acc-1"}))
	assert.NoError(t, p.Close())
}
