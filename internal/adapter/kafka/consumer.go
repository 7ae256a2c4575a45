package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/niksmo/furnistore/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

const slowDownDelay = time.Second

type ConsumerOpt func(*consumerOpts) error

type consumerOpts struct {
	cl      ConsumerClient
	decoder Decoder
	saver   port.DocumentsSaver
}

// ConsumerClientOpt joins group consuming topic. Offsets are committed
// only after the documents are saved.
func ConsumerClientOpt(
	seedBrokers []string, topic, group string, extra ...kgo.Opt,
) ConsumerOpt {
	return func(co *consumerOpts) error {
		kgoOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.ConsumeTopics(topic),
			kgo.ConsumerGroup(group),
			kgo.DisableAutoCommit(),
		}
		cl, err := kgo.NewClient(append(kgoOpts, extra...)...)
		if err != nil {
			return err
		}
		co.cl = cl
		return nil
	}
}

// ConsumerReadyClientOpt sets an already configured client.
func ConsumerReadyClientOpt(cl ConsumerClient) ConsumerOpt {
	return func(co *consumerOpts) error {
		if cl == nil {
			return errors.New("consumer client is nil")
		}
		co.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(co *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		co.decoder = decoder
		return nil
	}
}

func DocumentsConsumerSaverOpt(s port.DocumentsSaver) ConsumerOpt {
	return func(co *consumerOpts) error {
		if s == nil {
			return errors.New("documents saver is nil")
		}
		co.saver = s
		return nil
	}
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	if co.cl == nil || co.decoder == nil || co.saver == nil {
		return ErrTooFewOpts
	}
	return nil
}

// A DocumentsConsumer consumes content documents and hands them to the
// core service for saving. Offsets are committed after a successful save.
// When saving fails the client is rewound to the first polled record of
// every partition, so the batch is polled again.
type DocumentsConsumer struct {
	opPrefix      string
	cl            ConsumerClient
	decoder       Decoder
	saver         port.DocumentsSaver
	slowDownTimer *time.Timer
}

func NewDocumentsConsumer(opts ...ConsumerOpt) (DocumentsConsumer, error) {
	const op = "NewDocumentsConsumer"

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return DocumentsConsumer{}, opErr(err, op)
	}

	return DocumentsConsumer{
		opPrefix:      "DocumentsConsumer",
		cl:            options.cl,
		decoder:       options.decoder,
		saver:         options.saver,
		slowDownTimer: time.NewTimer(0),
	}, nil
}

// Run consumes until ctx is done.
func (c DocumentsConsumer) Run(ctx context.Context) {
	const op = "Run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown(ctx)
			}
		}
	}
}

func (c DocumentsConsumer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	c.slowDownTimer.Stop()

	log.Info("closing consumer...")
	c.cl.Close()
	log.Info("consumer is closed")
}

func (c DocumentsConsumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	if err := c.processFetches(ctx, fetches); err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if err := c.commit(ctx); err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c DocumentsConsumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	if err := c.handleFetchesErrs(fetches); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	return fetches, nil
}

func (c DocumentsConsumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errMsg := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsMessages = append(errsMessages, errMsg)
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

func (c DocumentsConsumer) processFetches(
	ctx context.Context, fetches kgo.Fetches,
) error {
	const op = "processFetches"

	values := c.toDomain(fetches)
	if len(values) == 0 {
		return nil
	}

	if err := c.saver.SaveDocuments(ctx, values); err != nil {
		c.rewind(fetches)
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

// rewind sets the read position of every polled partition back to its
// first polled record.
func (c DocumentsConsumer) rewind(fetches kgo.Fetches) {
	const op = "rewind"
	log := slog.With("op", makeOp(c.opPrefix, op))

	offsets := make(map[string]map[int32]kgo.EpochOffset)
	fetches.EachPartition(func(p kgo.FetchTopicPartition) {
		if len(p.Records) == 0 {
			return
		}
		first := p.Records[0]
		if offsets[p.Topic] == nil {
			offsets[p.Topic] = make(map[int32]kgo.EpochOffset)
		}
		offsets[p.Topic][p.Partition] = kgo.EpochOffset{
			Epoch:  first.LeaderEpoch,
			Offset: first.Offset,
		}
		log.Debug("rewinding", "topic", p.Topic, "partition", p.Partition, "offset", first.Offset)
	})

	if len(offsets) != 0 {
		c.cl.SetOffsets(offsets)
	}
}

// toDomain decodes the fetched records. Undecodable records are logged
// and skipped.
func (c DocumentsConsumer) toDomain(fetches kgo.Fetches) []domain.Document {
	const op = "toDomain"
	log := slog.With("op", makeOp(c.opPrefix, op))

	var vs []domain.Document
	fetches.EachRecord(func(r *kgo.Record) {
		var s schema.ContentDocumentV1
		if err := c.decoder.Decode(r.Value, &s); err != nil {
			log.Error(
				"failed to decode value",
				"err", opErr(err, c.opPrefix, op),
				"partition", r.Partition,
				"offset", r.Offset,
			)
			return
		}
		vs = append(vs, schemaV1ToDocument(s))
	})
	return vs
}

func (c DocumentsConsumer) commit(ctx context.Context) error {
	const op = "commit"

	if err := ctx.Err(); err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if err := c.cl.CommitUncommittedOffsets(ctx); err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c DocumentsConsumer) slowDown(ctx context.Context) {
	c.slowDownTimer.Reset(slowDownDelay)
	select {
	case <-ctx.Done():
	case <-c.slowDownTimer.C:
	}
}
