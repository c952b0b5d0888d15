package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/pkg/messaging"
	"github.com/carelink/hospital-api/pkg/metrics"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 5 * time.Second
	eventChannel        = "hospital.events"
)

// OutboxProcessor drains pending outbox events and publishes them to the
// broker. Publishing is at-least-once: an event is marked processed only
// after a successful publish.
type OutboxProcessor struct {
	repo         repository.OutboxRepository
	broker       messaging.Broker
	metrics      *metrics.Metrics
	batchSize    int
	pollInterval time.Duration
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker, m *metrics.Metrics) *OutboxProcessor {
	return &OutboxProcessor{
		repo:         repo,
		broker:       broker,
		metrics:      m,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox processor stopping")
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) {
	events, err := p.repo.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch pending events")
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to publish event")
			if p.metrics != nil {
				p.metrics.OutboxEventsFailed.Inc()
			}
			if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error().Err(markErr).Str("event_id", event.ID.String()).Msg("failed to mark event failed")
			}
			continue
		}

		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to mark event processed")
			continue
		}
		if p.metrics != nil {
			p.metrics.OutboxEventsProcessed.Inc()
		}
	}
}

func (p *OutboxProcessor) publish(ctx context.Context, event *model.OutboxEvent) error {
	var payload json.RawMessage = event.Payload
	return p.broker.Publish(ctx, eventChannel, messaging.Message{
		Type:    event.EventType,
		Payload: payload,
	})
}
