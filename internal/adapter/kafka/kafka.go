// Package kafka publishes content documents to the broker and consumes
// them into the content mirror.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects a client producing to topic. Extra options,
// such as [TLSOpts], are applied last.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kgoOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}
		cl, err := kgo.NewClient(append(kgoOpts, extra...)...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerReadyClientOpt sets an already configured client.
func ProducerReadyClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	SetOffsets(map[string]map[int32]kgo.EpochOffset)
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func documentToSchemaV1(v domain.Document) schema.ContentDocumentV1 {
	return schema.ContentDocumentV1{
		ID:        v.ID,
		DocType:   v.Type,
		Slug:      v.Slug,
		Body:      v.Body,
		Partial:   v.Partial,
		Deleted:   v.Deleted,
		UpdatedAt: v.UpdatedAt,
	}
}

func schemaV1ToDocument(s schema.ContentDocumentV1) domain.Document {
	return domain.Document{
		ID:        s.ID,
		Type:      s.DocType,
		Slug:      s.Slug,
		Body:      s.Body,
		Partial:   s.Partial,
		Deleted:   s.Deleted,
		UpdatedAt: s.UpdatedAt,
	}
}
