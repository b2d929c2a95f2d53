package service

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
)

const (
	TopicUsers      = "user_events"
	TopicCategories = "category_events"
	TopicProducts   = "product_events"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ProductIndexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, q string, from, size int) (int64, []models.Product, error)
}

type Event struct {
	Type string    `json:"type"`
	ID   uint      `json:"id"`
	Name string    `json:"name,omitempty"`
	At   time.Time `json:"at"`
}

// publish never fails the caller; the write already happened.
func publish(ctx context.Context, p EventPublisher, topic, typ string, id uint, name string) {
	if p == nil {
		return
	}
	ev := Event{Type: typ, ID: id, Name: name, At: time.Now().UTC()}
	if err := p.PublishEvent(ctx, topic, strconv.FormatUint(uint64(id), 10), ev); err != nil {
		logging.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"topic": topic,
			"type":  typ,
		}).Warn("publish_event_failed")
	}
}
