package app

import (
	"context"
	"crypto/tls"

	"github.com/niksmo/furnistore/config"
	"github.com/niksmo/furnistore/internal/adapter/kafka"
	"github.com/niksmo/furnistore/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

func brokerTLS(cfg config.Config) *tls.Config {
	const op = "brokerTLS"

	t := cfg.Broker.TLS
	tlsCfg, err := kafka.TLSConfig(t.CAFile, t.CertFile, t.KeyFile)
	if err != nil {
		fallDown(op, err)
	}
	return tlsCfg
}

// documentSerde registers the content document schema under the
// "<topic>-value" subject and returns its serde.
func documentSerde(ctx context.Context, cfg config.Config) schema.Serde {
	const op = "documentSerde"

	srOpts := []sr.ClientOpt{sr.URLs(cfg.Broker.SchemaRegistryURLs...)}
	if tlsCfg := brokerTLS(cfg); tlsCfg != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(tlsCfg))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		fallDown(op, err)
	}

	s, err := schema.NewSerdeContentDocumentV1(
		ctx,
		schema.SubjectOpt(cfg.Broker.Topics.ContentDocuments+"-value"),
		schema.SchemaIdentifierOpt(schema.NewRegistryIdentifier(srClient)),
	)
	if err != nil {
		fallDown(op, err)
	}
	return s
}
