package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/table-dropper/pkg/types"
)

// Record is one audit entry for a single drop attempt.
type Record struct {
	Namespace string    `json:"namespace"`
	Table     string    `json:"table"`
	Status    string    `json:"status"`
	Statement string    `json:"statement"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Records flattens a report into per-table audit entries, preserving batch
// order. Failed and skipped attempts are part of the trail.
func Records(report *types.DropReport, now time.Time) []Record {
	records := make([]Record, 0, len(report.Results))
	for _, res := range report.Results {
		records = append(records, Record{
			Namespace: report.Namespace,
			Table:     res.Table,
			Status:    string(res.Status),
			Statement: res.Statement,
			Detail:    res.Detail,
			Timestamp: now,
		})
	}
	return records
}

// KafkaPublisher writes drop audit records to a Kafka topic, one message
// per table, keyed by namespace so one namespace's history lands in one
// partition.
type KafkaPublisher struct {
	writer  *kafka.Writer
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		timeout: 5 * time.Second,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, report *types.DropReport) error {
	records := Records(report, time.Now().UTC())
	if len(records) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		value, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode audit record: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(rec.Namespace),
			Value: value,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write audit records: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
