// Package redeems turns checkout redeem requests from RabbitMQ into ledger spends.
package redeems

//go:generate mockgen -source=redeems.go -destination=mock_redeems.go -package=redeems

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
)

const (
	queue    = "redeems"
	queueOut = "confirms"
)

const (
	StatusApplied  = "applied"
	StatusRejected = "rejected"
)

// SystemPrincipal is the caller identity used for redeems coming from checkout.
var SystemPrincipal = domain.Principal{ID: "checkout", Role: domain.RoleAdmin}

type Ledger interface {
	Submit(ctx context.Context, p domain.Principal, accountID uuid.UUID, req domain.TransactionRequest) (*domain.Transaction, error)
}

type Request struct {
	AccountID         string `json:"account_id"`
	Amount            int64  `json:"amount"`
	EvidenceReference string `json:"evidence_reference"`
	BusinessStatus    string `json:"business_status"`
}

type Confirm struct {
	EvidenceReference string `json:"evidence_reference"`
	Status            string `json:"status"`
	Kind              string `json:"kind,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	BalanceAfter      int64  `json:"balance_after"`
}

type Consumer struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	chOut      *amqp.Channel
	deliveries <-chan amqp.Delivery
	ledger     Ledger
}

func NewConsumer(url string, ledger Ledger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	chOut, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := chOut.QueueDeclare(queueOut, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	deliveries, err := ch.Consume(queue, "mileage", false, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Consumer{
		conn:       conn,
		ch:         ch,
		chOut:      chOut,
		deliveries: deliveries,
		ledger:     ledger,
	}, nil
}

// Start consumes redeem requests until ctx is done or the broker closes the channel.
func (c *Consumer) Start(ctx context.Context) {
	zap.L().Info("Redeem consumer started")
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping redeem consumer")
			return
		case d, ok := <-c.deliveries:
			if !ok {
				zap.L().Warn("Redeem deliveries channel closed")
				return
			}
			confirm := c.Handle(ctx, d.Body)
			if err := c.confirm(ctx, confirm); err != nil {
				zap.L().Error("failed to publish redeem confirm", zap.Error(err), zap.String("evidence", confirm.EvidenceReference))
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle applies one redeem request and describes the outcome. It never fails; rejections are reported in the confirm.
func (c *Consumer) Handle(ctx context.Context, body []byte) Confirm {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		zap.L().Warn("malformed redeem request", zap.Error(err))
		return Confirm{Status: StatusRejected, Kind: "Malformed"}
	}
	confirm := Confirm{EvidenceReference: req.EvidenceReference}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		confirm.Status = StatusRejected
		confirm.Kind = string(domain.KindNotFound)
		return confirm
	}

	tx, err := c.ledger.Submit(ctx, SystemPrincipal, accountID, domain.TransactionRequest{
		Type:              domain.TxSpend,
		Amount:            req.Amount,
		BusinessStatus:    req.BusinessStatus,
		EvidenceReference: req.EvidenceReference,
	})
	if err != nil {
		confirm.Status = StatusRejected
		confirm.Kind = string(domain.KindOf(err))
		if errors.Is(err, context.Canceled) {
			zap.L().Warn("redeem interrupted", zap.String("evidence", req.EvidenceReference))
		}
		return confirm
	}

	confirm.Status = StatusApplied
	confirm.TransactionID = tx.ID.String()
	confirm.BalanceAfter = tx.BalanceAfter
	return confirm
}

func (c *Consumer) confirm(ctx context.Context, confirm Confirm) error {
	body, err := json.Marshal(confirm)
	if err != nil {
		return err
	}
	return c.chOut.PublishWithContext(ctx, "", queueOut, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (c *Consumer) Close() {
	c.ch.Close()
	c.chOut.Close()
	c.conn.Close()
}
