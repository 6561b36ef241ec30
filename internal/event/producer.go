// Package event publishes storefront domain events to Kafka. Publishing is
// best effort: checkout and moderation outcomes are committed to the store
// before any event leaves the process, and a broker failure never fails the
// originating request.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	pkgkafka "github.com/mayankwalia/MyBasketBackend/pkg/kafka"
)

// Kafka topics for storefront events.
const (
	TopicOrderPlaced        = "mybasket.order.placed"
	TopicOrderStatusChanged = "mybasket.order.status_changed"
	TopicProductDeleted     = "mybasket.product.deleted"
	TopicUserReminder       = "mybasket.user.reminder"
)

// Entity type constants used in the event envelope.
const (
	EntityTypeOrder   = "order"
	EntityTypeProduct = "product"
	EntityTypeUser    = "user"
)

// Source identifies this service as the event origin.
const Source = "mybasket-backend"

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID     string  `json:"order_id"`
	CustomerID  string  `json:"customer_id"`
	TotalAmount float64 `json:"total_amount"`
	LineCount   int     `json:"line_count"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ProductID  string `json:"product_id"`
	CategoryID string `json:"category_id"`
}

// UserReminderData is the payload for a user.reminder event.
type UserReminderData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// Producer publishes storefront domain events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// OrderPlaced publishes an order.placed event.
func (p *Producer) OrderPlaced(ctx context.Context, order *domain.Order) error {
	data := OrderPlacedData{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		LineCount:   len(order.Lines),
	}

	ev, err := pkgkafka.NewEvent(TopicOrderPlaced, order.ID, EntityTypeOrder, Source, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicOrderPlaced, ev); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", order.ID),
	)
	return nil
}

// OrderStatusChanged publishes an order.status_changed event.
func (p *Producer) OrderStatusChanged(ctx context.Context, order *domain.Order) error {
	data := OrderStatusChangedData{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
	}

	ev, err := pkgkafka.NewEvent(TopicOrderStatusChanged, order.ID, EntityTypeOrder, Source, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, ev); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}
	return nil
}

// ProductDeleted publishes a product.deleted event.
func (p *Producer) ProductDeleted(ctx context.Context, productID, categoryID string) error {
	data := ProductDeletedData{ProductID: productID, CategoryID: categoryID}

	ev, err := pkgkafka.NewEvent(TopicProductDeleted, productID, EntityTypeProduct, Source, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicProductDeleted, ev); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}
	return nil
}

// UserReminder publishes a user.reminder event for the notification system.
func (p *Producer) UserReminder(ctx context.Context, user *domain.User, reason string) error {
	data := UserReminderData{UserID: user.ID, Email: user.Email, Reason: reason}

	ev, err := pkgkafka.NewEvent(TopicUserReminder, user.ID, EntityTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.reminder event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicUserReminder, ev); err != nil {
		return fmt.Errorf("publish user.reminder event: %w", err)
	}
	return nil
}
