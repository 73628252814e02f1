package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	notifyQueue  string
	exportQueue  string
}

func NewClient(url, exchangeName, notifyQueue, exportQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		notifyQueue:  notifyQueue,
		exportQueue:  exportQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.notifyQueue, c.exportQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Routing key mirrors the queue name on a direct exchange.
		err = c.channel.QueueBind(queue, queue, c.exchangeName, false, nil)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// PublishNotification sends a short summary to the notification queue.
func (c *Client) PublishNotification(ctx context.Context, n Notification) error {
	body, err := n.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := c.publish(ctx, c.notifyQueue, body); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	slog.InfoContext(ctx, "Published notification",
		"event", n.Event,
		"site_id", n.SiteID,
		"exchange", c.exchangeName,
		"queue", c.notifyQueue)
	return nil
}

// PublishExportRequest enqueues a report export for the worker.
func (c *Client) PublishExportRequest(ctx context.Context, req ReportExportRequest) error {
	body, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal export request: %w", err)
	}
	if err := c.publish(ctx, c.exportQueue, body); err != nil {
		return fmt.Errorf("publish export request: %w", err)
	}

	slog.InfoContext(ctx, "Published report export request",
		"site_id", req.SiteID,
		"kind", req.Kind,
		"queue", c.exportQueue)
	return nil
}

// ConsumeExportRequests delivers export requests to handler with manual
// acks: a handler error nacks and requeues, a malformed body is dropped.
func (c *Client) ConsumeExportRequests(ctx context.Context, handler func(context.Context, ReportExportRequest) error) error {
	msgs, err := c.channel.Consume(
		c.exportQueue, // queue
		"",            // consumer
		false,         // auto-ack (we want manual ack)
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming export requests", "queue", c.exportQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			req, err := ReportExportRequestFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal export request", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(ctx, req); err != nil {
				slog.ErrorContext(ctx, "Failed to handle export request",
					"error", err,
					"site_id", req.SiteID,
					"kind", req.Kind)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
			slog.InfoContext(ctx, "Export request processed", "site_id", req.SiteID, "kind", req.Kind)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
