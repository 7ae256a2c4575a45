package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var ErrTooFewOpts = errors.New("too few options")

// A Serde encodes records in the schema registry wire format: a magic
// byte and the schema ID followed by the Avro body.
type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

type registrySerde struct {
	subject string
	sr      *sr.Serde
}

func (s registrySerde) Encode(v any) ([]byte, error) {
	b, err := s.sr.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.subject, err)
	}
	return b, nil
}

func (s registrySerde) Decode(data []byte, v any) error {
	if err := s.sr.Decode(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", s.subject, err)
	}
	return nil
}

type Opt func(*serdeOpts) error

type serdeOpts struct {
	subject string
	si      SchemaIdentifier
}

// SubjectOpt names the registry subject, usually "<topic>-value".
func SubjectOpt(subject string) Opt {
	return func(so *serdeOpts) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		so.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(si SchemaIdentifier) Opt {
	return func(so *serdeOpts) error {
		if si == nil {
			return errors.New("schema identifier is nil")
		}
		so.si = si
		return nil
	}
}

func (so *serdeOpts) apply(opts []Opt) error {
	for _, o := range opts {
		if err := o(so); err != nil {
			return err
		}
	}
	if so.subject == "" || so.si == nil {
		return ErrTooFewOpts
	}
	return nil
}

// NewSerdeContentDocumentV1 returns the serde of [ContentDocumentV1].
// Both [SubjectOpt] and [SchemaIdentifierOpt] are required.
func NewSerdeContentDocumentV1(ctx context.Context, opts ...Opt) (Serde, error) {
	const op = "NewSerdeContentDocumentV1"

	s, err := newRegistrySerde(ctx, ContentDocumentSchemaTextV1, ContentDocumentV1{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// newRegistrySerde parses schemaText, resolves its registry ID and binds
// it to the Go type of record.
func newRegistrySerde(
	ctx context.Context, schemaText string, record any, opts []Opt,
) (registrySerde, error) {
	var so serdeOpts
	if err := so.apply(opts); err != nil {
		return registrySerde{}, err
	}

	avroSchema, err := avro.Parse(schemaText)
	if err != nil {
		return registrySerde{}, err
	}

	id, err := so.si.DetermineID(ctx, so.subject, schemaText)
	if err != nil {
		return registrySerde{}, err
	}

	var serde sr.Serde
	serde.Register(
		id,
		record,
		sr.EncodeFn(AvroEncodeFn(avroSchema)),
		sr.DecodeFn(AvroDecodeFn(avroSchema)),
	)
	return registrySerde{subject: so.subject, sr: &serde}, nil
}
