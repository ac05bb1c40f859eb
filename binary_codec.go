package wire

import (
	"math"

	"github.com/pkg/errors"

	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/section"
)

// fieldMode selects how the binary formats key their fields.
type fieldMode uint8

const (
	namedFields    fieldMode = iota // field name bytes (Binary)
	numberedFields                  // 8-byte code of the field name (NumericBinary)
	noFields                        // position only (FieldlessBinary)
)

func (m fieldMode) keyed() bool {
	return m != noFields
}

// binaryCodec implements Binary, NumericBinary and FieldlessBinary. They
// share every value encoding and differ only in how fields are keyed.
type binaryCodec struct {
	fields fieldMode
}

func (c binaryCodec) documentOut(w *Wire) documentOut {
	return &binaryOut{w: w, fields: c.fields}
}

func (c binaryCodec) documentIn(w *Wire, payload []byte) (WireIn, error) {
	return newBinaryIn(w, c.fields, payload), nil
}

func (c binaryCodec) rawOut(w *Wire) WireOut {
	return &binaryOut{w: w, fields: c.fields}
}

func (c binaryCodec) rawIn(w *Wire) WireIn {
	return &rawBinaryIn{w: w, fields: c.fields}
}

// binaryOut appends fields straight to the wire's buffer.
type binaryOut struct {
	w      *Wire
	fields fieldMode
}

var _ documentOut = (*binaryOut)(nil)

func (o *binaryOut) Write(key FieldKey) ValueOut {
	switch o.fields {
	case namedFields:
		name := key.Name()
		_ = o.w.buf.WriteByte(byte(format.TagFieldName))
		o.w.buf.AppendUvarint(uint64(len(name)))
		_, _ = o.w.buf.WriteString(name)
	case numberedFields:
		_ = o.w.buf.WriteByte(byte(format.TagFieldNumber))
		o.w.buf.AppendUint64(o.w.engine, key.Hash())
	}

	return binaryValueOut{w: o.w, fields: o.fields}
}

func (o *binaryOut) WireType() format.WireType {
	return o.w.wireType
}

func (o *binaryOut) finish() error {
	return nil
}

type binaryValueOut struct {
	w      *Wire
	fields fieldMode
}

var _ ValueOut = binaryValueOut{}

func (v binaryValueOut) tag(t format.Tag) {
	_ = v.w.buf.WriteByte(byte(t))
}

func (v binaryValueOut) Int32(n int32) error {
	v.tag(format.TagInt32)
	v.w.buf.AppendUint32(v.w.engine, uint32(n))

	return nil
}

func (v binaryValueOut) Int64(n int64) error {
	v.tag(format.TagInt64)
	v.w.buf.AppendUint64(v.w.engine, uint64(n))

	return nil
}

func (v binaryValueOut) Float64(f float64) error {
	v.tag(format.TagFloat64)
	v.w.buf.AppendUint64(v.w.engine, math.Float64bits(f))

	return nil
}

func (v binaryValueOut) Bool(b bool) error {
	if b {
		v.tag(format.TagTrue)
	} else {
		v.tag(format.TagFalse)
	}

	return nil
}

func (v binaryValueOut) Text(s string) error {
	if err := validText(s); err != nil {
		return err
	}
	v.tag(format.TagText)
	v.w.buf.AppendUvarint(uint64(len(s)))
	_, _ = v.w.buf.WriteString(s)

	return nil
}

func (v binaryValueOut) Bytes(b []byte) error {
	v.tag(format.TagBytes)
	v.w.buf.AppendUvarint(uint64(len(b)))
	v.w.buf.MustWrite(b)

	return nil
}

func (v binaryValueOut) Null() error {
	v.tag(format.TagNull)
	return nil
}

func (v binaryValueOut) Marshallable(m WriteMarshallable) error {
	if isNilMarshallable(m) {
		return v.Null()
	}

	return v.nested(format.TagMarshallable, func() error {
		return m.WriteMarshallable(&binaryOut{w: v.w, fields: v.fields})
	})
}

func (v binaryValueOut) Object(m WriteMarshallable) error {
	if isNilMarshallable(m) {
		return v.Null()
	}
	alias, err := v.w.registry.AliasOf(m)
	if err != nil {
		return err
	}

	v.tag(format.TagTypePrefix)
	v.w.buf.AppendUvarint(uint64(len(alias)))
	_, _ = v.w.buf.WriteString(alias)

	return v.Marshallable(m)
}

func (v binaryValueOut) Sequence(fn func(seq SequenceOut) error) error {
	return v.nested(format.TagSequence, func() error {
		return fn(binarySeqOut(v))
	})
}

// nested writes tag and a reserved length word, runs fn, then patches the
// word with the number of bytes fn appended.
func (v binaryValueOut) nested(t format.Tag, fn func() error) error {
	v.tag(t)
	lenPos := v.w.buf.ExtendOrGrow(section.ObjectLenSize)
	start := v.w.buf.WritePosition()

	if err := fn(); err != nil {
		return err
	}

	length := v.w.buf.WritePosition() - start
	if uint64(length) > math.MaxUint32 {
		return errors.Wrapf(errs.ErrDocumentTooLarge, "nested %s of %d bytes", t, length)
	}

	return v.w.buf.PutUint32At(v.w.engine, lenPos, uint32(length))
}

type binarySeqOut binaryValueOut

func (s binarySeqOut) Add() ValueOut {
	return binaryValueOut(s)
}
