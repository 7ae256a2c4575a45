package app

import (
	"context"
	"log/slog"

	"github.com/niksmo/furnistore/config"
	"github.com/niksmo/furnistore/internal/adapter/content"
	"github.com/niksmo/furnistore/internal/adapter/kafka"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/niksmo/furnistore/internal/core/service"
)

// Seeder writes documents to the content store and, when publishing,
// announces them to the content mirror.
type Seeder struct {
	seeder   port.DocumentsSeeder
	producer *kafka.DocumentsProducer
}

func NewSeeder(ctx context.Context, cfg config.Config, publish bool) *Seeder {
	const op = "NewSeeder"

	InitLogger(cfg.LogLevel)

	mutator, err := content.NewMutator(ContentConfig(cfg))
	if err != nil {
		fallDown(op, err)
	}

	var (
		sd       = &Seeder{}
		producer port.DocumentsProducer
	)
	if publish {
		p, err := kafka.NewDocumentsProducer(
			kafka.ProducerClientOpt(
				ctx, cfg.Broker.SeedBrokers, cfg.Broker.Topics.ContentDocuments,
				kafka.TLSOpts(brokerTLS(cfg))...,
			),
			kafka.ProducerEncoderOpt(documentSerde(ctx, cfg)),
		)
		if err != nil {
			fallDown(op, err)
		}
		sd.producer = &p
		producer = p
	}

	sd.seeder = service.New(nil, mutator, producer, nil)
	return sd
}

func (sd *Seeder) SeedDocuments(
	ctx context.Context, docs []domain.Document, patch bool,
) error {
	return sd.seeder.SeedDocuments(ctx, docs, patch)
}

func (sd *Seeder) Close() {
	if sd.producer != nil {
		sd.producer.Close()
	}
	slog.Debug("seeder is closed")
}
