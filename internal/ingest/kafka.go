package ingest

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the kafka event source.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// StartKafka consumes JSON-encoded events from the configured topic into
// the buffer until the context is cancelled. Undecodable messages are
// skipped.
func StartKafka(ctx context.Context, cfg KafkaConfig, buf *Buffer, logger zerolog.Logger) {
	if !cfg.Enabled {
		logger.Info().Msg("kafka ingest disabled")
		return
	}
	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Str("group_id", cfg.GroupID).
		Msg("kafka ingest enabled")

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	go func() {
		defer reader.Close()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn().Err(err).Msg("kafka read error")
				continue
			}
			ev, ok := ParseEvent(m.Value)
			if !ok {
				logger.Warn().Int64("offset", m.Offset).Msg("skipping undecodable kafka message")
				continue
			}
			buf.Append(ev)
		}
	}()
}
