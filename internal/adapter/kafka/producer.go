package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.DocumentsProducer = (*DocumentsProducer)(nil)

// A DocumentsProducer publishes content documents keyed by document ID,
// so every version of a document lands in the same partition.
type DocumentsProducer struct {
	opPrefix string
	cl       ProducerClient
	encoder  Encoder
}

func NewDocumentsProducer(
	opts ...ProducerOpt,
) (DocumentsProducer, error) {
	const op = "NewDocumentsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return DocumentsProducer{}, opErr(err, op)
		}
	}

	return DocumentsProducer{
		opPrefix: "DocumentsProducer",
		cl:       options.cl,
		encoder:  options.encoder,
	}, nil
}

func (p DocumentsProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p DocumentsProducer) ProduceDocuments(
	ctx context.Context, vs []domain.Document,
) error {
	const op = "ProduceDocuments"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	if len(vs) == 0 {
		return nil
	}

	rs, err := p.createRecords(vs)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p DocumentsProducer) createRecords(
	vs []domain.Document,
) ([]*kgo.Record, error) {
	const op = "createRecords"

	rs := make([]*kgo.Record, 0, len(vs))
	for _, v := range vs {
		b, err := p.encoder.Encode(documentToSchemaV1(v))
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		rs = append(rs, &kgo.Record{Key: []byte(v.ID), Value: b})
	}
	return rs, nil
}
