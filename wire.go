package wire

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/arloliu/wire/buffer"
	"github.com/arloliu/wire/endian"
	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/internal/options"
	"github.com/arloliu/wire/section"
)

// Wire binds a format codec to a byte buffer.
//
// A Wire exposes field-keyed writes and reads directly on the buffer
// (Write, Read) and framed documents (WriteDocument, ReadDocument). It is
// not safe for concurrent use: both cursors of the buffer are mutated by
// every call.
type Wire struct {
	wireType        format.WireType
	buf             *buffer.Buffer
	engine          endian.EndianEngine
	registry        *Registry
	logger          logrus.FieldLogger
	maxDocumentSize int
	codec           codec

	// unframed read state of the textual formats
	rawText *nodeIn
}

// Option configures a Wire.
type Option = options.Option[*Wire]

// WithLittleEndian sets the wire to little-endian byte order.
// It is the default option.
func WithLittleEndian() Option {
	return options.NoError(func(w *Wire) {
		w.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian sets the wire to big-endian byte order for document headers
// and fixed-width binary values.
func WithBigEndian() Option {
	return options.NoError(func(w *Wire) {
		w.engine = endian.GetBigEndianEngine()
	})
}

// WithRegistry sets the alias registry used to tag and reconstruct objects.
// Without it the wire uses DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return options.New(func(w *Wire) error {
		if r == nil {
			return errors.New("wire: nil registry")
		}
		w.registry = r

		return nil
	})
}

// WithLogger sets the logger used to trace document framing.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.New(func(w *Wire) error {
		if logger == nil {
			return errors.New("wire: nil logger")
		}
		w.logger = logger

		return nil
	})
}

// WithMaxDocumentSize limits the payload size of written and read documents.
func WithMaxDocumentSize(n int) Option {
	return options.New(func(w *Wire) error {
		if n <= 0 || n > section.MaxLength {
			return errors.Errorf("wire: max document size %d out of range (1..%d)", n, section.MaxLength)
		}
		w.maxDocumentSize = n

		return nil
	})
}

// New creates a wire of wireType over buf.
func New(wireType format.WireType, buf *buffer.Buffer, opts ...Option) (*Wire, error) {
	if buf == nil {
		return nil, errors.New("wire: nil buffer")
	}
	c, err := codecFor(wireType)
	if err != nil {
		return nil, err
	}

	w := &Wire{
		wireType:        wireType,
		buf:             buf,
		engine:          endian.GetLittleEndianEngine(),
		registry:        DefaultRegistry,
		logger:          logrus.StandardLogger(),
		maxDocumentSize: section.MaxLength,
		codec:           c,
	}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}
	w.logger = w.logger.WithFields(logrus.Fields{
		"wire":   wireType.String(),
		"endian": endian.Name(w.engine),
	})

	return w, nil
}

// MustNew is like New but panics on error. It is intended for tests and
// package-level initialization with constant arguments.
func MustNew(wireType format.WireType, buf *buffer.Buffer, opts ...Option) *Wire {
	w, err := New(wireType, buf, opts...)
	if err != nil {
		panic(err)
	}

	return w
}

// WireType returns the wire's format.
func (w *Wire) WireType() format.WireType {
	return w.wireType
}

// Buffer returns the underlying buffer.
func (w *Wire) Buffer() *buffer.Buffer {
	return w.buf
}

// Registry returns the alias registry.
func (w *Wire) Registry() *Registry {
	return w.registry
}

// Engine returns the byte order of headers and binary values.
func (w *Wire) Engine() endian.EndianEngine {
	return w.engine
}

// Write appends an unframed field to the buffer.
func (w *Wire) Write(key FieldKey) ValueOut {
	return w.codec.rawOut(w).Write(key)
}

// Read reads an unframed field from the buffer's read position.
//
// Unframed binary fields are located by scanning forward from the read
// position. The textual formats take every unread byte into the reader on
// each call and serve keys from it in any order.
func (w *Wire) Read(key FieldKey) ValueIn {
	return w.codec.rawIn(w).Read(key)
}

// HasMore reports whether unframed data remains to be read.
func (w *Wire) HasMore() bool {
	return w.codec.rawIn(w).HasMore()
}

// codec is one of the format implementations.
type codec interface {
	documentOut(w *Wire) documentOut
	documentIn(w *Wire, payload []byte) (WireIn, error)
	rawOut(w *Wire) WireOut
	rawIn(w *Wire) WireIn
}

// documentOut is the writer handed to a document callback.
type documentOut interface {
	WireOut
	// finish flushes anything the codec buffered for the document.
	finish() error
}

func codecFor(wireType format.WireType) (codec, error) {
	switch wireType {
	case format.Binary:
		return binaryCodec{fields: namedFields}, nil
	case format.NumericBinary:
		return binaryCodec{fields: numberedFields}, nil
	case format.FieldlessBinary:
		return binaryCodec{fields: noFields}, nil
	case format.Text:
		return nodeCodec{json: false}, nil
	case format.JSON:
		return nodeCodec{json: true}, nil
	default:
		return nil, errors.Wrapf(errs.ErrUnsupportedWireType, "wire type %d", uint8(wireType))
	}
}
