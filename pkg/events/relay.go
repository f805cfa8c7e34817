package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"gorm.io/gorm"

	"github.com/certmint/certmint/pkg/model"
)

// Relay defaults.
const (
	DefaultBatchSize = 200
	DefaultInterval  = 2 * time.Second
)

// Producer abstracts the Kafka client used by the relay.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Envelope is the JSON document published to Kafka for each event.
type Envelope struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Seq       int64           `json:"seq"`
	EmittedAt time.Time       `json:"emitted_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Relay tails the events table and publishes new rows to Kafka in
// insertion order. The last published sequence is tracked per topic in
// the relay_offsets table, so a restarted relay resumes where it left
// off and never skips an event.
type Relay struct {
	db        *gorm.DB
	producer  Producer
	topic     string
	batchSize int
	interval  time.Duration
}

// RelayOption customizes a Relay.
type RelayOption func(*Relay)

// WithBatchSize caps how many events a single poll publishes.
func WithBatchSize(n int) RelayOption {
	return func(r *Relay) { r.batchSize = n }
}

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) { r.interval = d }
}

// NewRelay creates a relay publishing to the given topic.
func NewRelay(db *gorm.DB, producer Producer, topic string, opts ...RelayOption) *Relay {
	r := &Relay{
		db:        db,
		producer:  producer,
		topic:     topic,
		batchSize: DefaultBatchSize,
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewProducer creates a Kafka client for the given brokers.
func NewProducer(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return client, nil
}

// Run polls for new events until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RelayOnce(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes one batch of unpublished events and returns how
// many were sent. A batch is published before its offset is advanced;
// consumers may therefore see an event twice after a crash, but never
// miss one.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var lastSeq int64
	if err := r.db.WithContext(ctx).
		Raw(`SELECT last_seq FROM relay_offsets WHERE topic = ?`, r.topic).
		Scan(&lastSeq).Error; err != nil {
		return 0, fmt.Errorf("failed to read relay offset: %w", err)
	}

	var rows []model.Event
	if err := r.db.WithContext(ctx).
		Where("seq > ?", lastSeq).
		Order("seq").
		Limit(r.batchSize).
		Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch events: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	records := make([]*kgo.Record, 0, len(rows))
	for _, row := range rows {
		value, err := json.Marshal(Envelope{
			ID:        row.ID,
			Kind:      row.Kind,
			Seq:       row.Seq,
			EmittedAt: row.EmittedAt,
			Payload:   json.RawMessage(row.Payload),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to encode event %s: %w", row.ID, err)
		}
		records = append(records, &kgo.Record{
			Topic: r.topic,
			Key:   []byte(row.Kind),
			Value: value,
		})
	}

	if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return 0, fmt.Errorf("failed to publish events: %w", err)
	}

	newSeq := rows[len(rows)-1].Seq
	if err := r.db.WithContext(ctx).Exec(
		`INSERT INTO relay_offsets (topic, last_seq, updated_at) VALUES (?, ?, NOW())
		 ON CONFLICT (topic) DO UPDATE SET last_seq = EXCLUDED.last_seq, updated_at = NOW()`,
		r.topic, newSeq,
	).Error; err != nil {
		return 0, fmt.Errorf("failed to advance relay offset: %w", err)
	}

	return len(rows), nil
}
