package patchlog

import (
	"context"
	"strconv"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

type kafkaSink struct {
	w *kafka.Writer
}

// NewKafka mirrors commits to a Kafka topic keyed by seq.
func NewKafka(brokers []string, topic string) Sink {
	if topic == "" {
		topic = "lindo.patches"
	}
	// single partition keeps commits ordered for consumers
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &kafkaSink{w: w}
}

func (s *kafkaSink) Close() error { return s.w.Close() }

func (s *kafkaSink) Mirror(ctx context.Context, c patch.Commit) error {
	b, err := encode(c)
	if err != nil {
		return err
	}
	return s.w.WriteMessages(ctx, kafka.Message{Key: []byte(strconv.FormatUint(c.Seq, 10)), Value: b})
}
