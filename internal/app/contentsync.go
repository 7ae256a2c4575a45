package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/niksmo/furnistore/config"
	"github.com/niksmo/furnistore/internal/adapter/kafka"
	"github.com/niksmo/furnistore/internal/adapter/storage"
	"github.com/niksmo/furnistore/internal/core/service"
)

// ContentSync consumes content document events into the mirror.
type ContentSync struct {
	ctx      context.Context
	cfg      config.Config
	sqldb    storage.SQLDB
	consumer kafka.DocumentsConsumer
}

func NewContentSync(ctx context.Context, cfg config.Config) *ContentSync {
	const op = "NewContentSync"

	InitLogger(cfg.LogLevel)

	if cfg.SQLDB == "" {
		fallDown(op, errors.New("sql_db is required"))
	}

	db, err := storage.NewSQLDB(ctx, cfg.SQLDB)
	if err != nil {
		fallDown(op, err)
	}

	s := service.New(nil, nil, nil, storage.NewDocumentsRepository(db))

	consumer, err := kafka.NewDocumentsConsumer(
		kafka.ConsumerClientOpt(
			cfg.Broker.SeedBrokers,
			cfg.Broker.Topics.ContentDocuments,
			cfg.Broker.Consumers.ContentSyncGroup,
			kafka.TLSOpts(brokerTLS(cfg))...,
		),
		kafka.ConsumerDecoderOpt(documentSerde(ctx, cfg)),
		kafka.DocumentsConsumerSaverOpt(s),
	)
	if err != nil {
		db.Close()
		fallDown(op, err)
	}

	return &ContentSync{ctx: ctx, cfg: cfg, sqldb: db, consumer: consumer}
}

func (cs *ContentSync) Run(stopFn context.CancelFunc) {
	go func() {
		defer stopFn()
		cs.consumer.Run(cs.ctx)
	}()

	slog.Info("content sync is running",
		"topic", cs.cfg.Broker.Topics.ContentDocuments,
		"group", cs.cfg.Broker.Consumers.ContentSyncGroup,
	)
}

func (cs *ContentSync) Close() {
	slog.Info("content sync is closing...")

	cs.consumer.Close()
	cs.sqldb.Close()

	slog.Info("content sync is closed")
}
