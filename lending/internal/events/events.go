package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/circuit_breaker"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Type string

const (
	TypeIssued          Type = "ISSUED"
	TypeReturnInitiated Type = "RETURN_INITIATED"
	TypeSettled         Type = "SETTLED"
)

// Event describes a committed lifecycle transition. It feeds the stats/audit
// stream only; nothing downstream contacts members.
type Event struct {
	ID            string       `json:"id"`
	Type          Type         `json:"type"`
	TransactionID int64        `json:"transaction_id"`
	UserID        int64        `json:"user_id"`
	BookID        int64        `json:"book_id"`
	Status        model.Status `json:"status"`
	DueDate       model.Date   `json:"due_date"`
	ReturnDate    *model.Date  `json:"return_date,omitempty"`
	Fine          int          `json:"fine"`
	FinePaid      int          `json:"fine_paid"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

func New(typ Type, t model.Transaction, at time.Time) Event {
	ret := t.ReturnDate
	if ret == nil {
		ret = t.PendingReturnDate
	}
	return Event{
		ID:            uuid.NewString(),
		Type:          typ,
		TransactionID: t.ID,
		UserID:        t.UserID,
		BookID:        t.BookID,
		Status:        t.Status,
		DueDate:       t.DueDate,
		ReturnDate:    ret,
		Fine:          t.CalculatedFine,
		FinePaid:      t.FinePaid,
		OccurredAt:    at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

// NewKafkaPublisher sends events keyed by transaction id so that all events of
// one loan land on the same partition in order.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(20, 10*time.Second, 0.5, 3),
		log:      log.Named("events"),
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(e.TransactionID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return errors.Wrap(err, "SendMessage")
		}
		p.log.Debug("event published",
			zap.String("type", string(e.Type)),
			zap.Int64("transaction_id", e.TransactionID),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset))
		return nil
	})
}

type nopPublisher struct{}

func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
