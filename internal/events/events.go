// Package events publishes applied ledger entries to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
)

const (
	DefaultTopic       = "mileage.transactions"
	TransactionApplied = "transaction.applied"
)

type TransactionEvent struct {
	Event             string    `json:"event"`
	TransactionID     string    `json:"transaction_id"`
	AccountID         string    `json:"account_id"`
	Type              string    `json:"type"`
	Amount            int64     `json:"amount"`
	BalanceAfter      int64     `json:"balance_after"`
	AccountVersion    int64     `json:"account_version"`
	BusinessStatus    string    `json:"business_status"`
	Reason            string    `json:"reason,omitempty"`
	EvidenceReference string    `json:"evidence_reference,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewTransactionEvent(tx domain.Transaction) TransactionEvent {
	return TransactionEvent{
		Event:             TransactionApplied,
		TransactionID:     tx.ID.String(),
		AccountID:         tx.AccountID.String(),
		Type:              string(tx.Type),
		Amount:            tx.Amount,
		BalanceAfter:      tx.BalanceAfter,
		AccountVersion:    tx.AccountVersion,
		BusinessStatus:    tx.BusinessStatus,
		Reason:            tx.Reason,
		EvidenceReference: tx.EvidenceReference,
		CreatedAt:         tx.CreatedAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher writes asynchronously; delivery failures are only logged.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			Async:                  true,
			AllowAutoTopicCreation: true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					zap.L().Error("failed to deliver ledger events", zap.Error(err), zap.Int("count", len(messages)))
				}
			},
		},
	}
}

// PublishTransaction keys messages by account so entries of one account stay ordered within a partition.
func (p *KafkaPublisher) PublishTransaction(ctx context.Context, tx domain.Transaction) error {
	value, err := json.Marshal(NewTransactionEvent(tx))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(tx.AccountID.String()),
		Value: value,
		Time:  tx.CreatedAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type Noop struct{}

func (Noop) PublishTransaction(context.Context, domain.Transaction) error { return nil }
