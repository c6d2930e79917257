package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/piyusu/E-commerse-inventry/internal/config"
)

const stockAlertQueue = "stock_alerts"

// Dial opens a RabbitMQ connection. The handle is owned by the caller.
func Dial(cfg *config.RabbitMQConfig) (*amqp.Connection, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	return conn, nil
}

// StockAlert is published when a product drops below the low-stock
// threshold after a stock adjustment.
type StockAlert struct {
	ProductID     int64  `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	StockQuantity int64  `json:"stock_quantity"`
	Threshold     int64  `json:"threshold"`
}

// StockAlertPublisher writes low-stock alerts onto a durable queue for
// whatever operator tooling wants to consume them.
type StockAlertPublisher struct {
	conn *amqp.Connection
}

func NewStockAlertPublisher(conn *amqp.Connection) *StockAlertPublisher {
	return &StockAlertPublisher{conn: conn}
}

func (p *StockAlertPublisher) Publish(ctx context.Context, alert StockAlert) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(stockAlertQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(&alert)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		stockAlertQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
