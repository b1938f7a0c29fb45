package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RoutingKeyCampaignsSynced é a routing key do evento publicado após cada sincronização
const RoutingKeyCampaignsSynced = "campaigns.synced"

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

type Publisher interface {
	PublishCampaignsSynced(ctx context.Context, event domain.CampaignsSyncedEvent) error
	Close() error
}

// RabbitPublisher publica eventos em um exchange topic durável
type RabbitPublisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel
}

func NewRabbitPublisher(cfg config.RabbitMQ) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		url:      cfg.URL,
		exchange: cfg.Exchange,
	}

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *RabbitPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: exchange declare failed: %w", err)
	}

	p.conn = conn
	p.channel = ch
	return nil
}

func (p *RabbitPublisher) PublishCampaignsSynced(ctx context.Context, event domain.CampaignsSyncedEvent) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	if err := p.channel.PublishWithContext(ctx,
		p.exchange,                // exchange
		RoutingKeyCampaignsSynced, // routing key
		false,                     // mandatory
		false,                     // immediate
		msg,
	); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func buildPublishing(event domain.CampaignsSyncedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         RoutingKeyCampaignsSynced,
		Body:         body,
	}, nil
}

// NopPublisher é usado quando o RabbitMQ está desabilitado
type NopPublisher struct{}

func (NopPublisher) PublishCampaignsSynced(_ context.Context, event domain.CampaignsSyncedEvent) error {
	logrus.WithFields(logrus.Fields{
		"account_id":   event.AccountID,
		"synced_count": event.SyncedCount,
	}).Debug("rabbitmq desabilitado, evento não publicado")
	return nil
}

func (NopPublisher) Close() error { return nil }
