package wire

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/arloliu/wire/endian"
	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/section"
)

// decoder walks tagged binary values inside a bounded slice.
type decoder struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

func (d *decoder) more() bool {
	return d.pos < len(d.data)
}

func (d *decoder) malformed(msg string, args ...any) error {
	return errors.Wrapf(errs.ErrMalformedPayload, msg+" at offset %d", append(args, d.pos)...)
}

func (d *decoder) tag() (format.Tag, error) {
	if d.pos >= len(d.data) {
		return 0, d.malformed("missing tag")
	}
	t := format.Tag(d.data[d.pos])
	d.pos++

	return t, nil
}

func (d *decoder) uvarint() (int, error) {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 || v > uint64(len(d.data)) {
		return 0, d.malformed("bad length prefix")
	}
	d.pos += n

	return int(v), nil
}

func (d *decoder) uint32() (int, error) {
	if d.pos+section.ObjectLenSize > len(d.data) {
		return 0, d.malformed("truncated length word")
	}
	v := d.engine.Uint32(d.data[d.pos:])
	d.pos += section.ObjectLenSize

	return int(v), nil
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, d.malformed("value of %d bytes overruns payload", n)
	}
	p := d.data[d.pos : d.pos+n]
	d.pos += n

	return p, nil
}

// lengthPrefixed reads a uvarint length followed by that many bytes.
func (d *decoder) lengthPrefixed() ([]byte, error) {
	n, err := d.uvarint()
	if err != nil {
		return nil, err
	}

	return d.take(n)
}

// body reads a uint32 length word followed by that many bytes.
func (d *decoder) body() ([]byte, error) {
	n, err := d.uint32()
	if err != nil {
		return nil, err
	}

	return d.take(n)
}

// wireField is the key of one binary field: its name, or the code of its
// name in NumericBinary.
type wireField struct {
	name     []byte
	number   uint64
	numbered bool
}

func (f wireField) matches(key FieldKey) bool {
	if f.numbered {
		return f.number == key.Hash()
	}

	return string(f.name) == key.Name()
}

// field reads the key that precedes every value of the keyed formats.
func (d *decoder) field() (wireField, error) {
	t, err := d.tag()
	if err != nil {
		return wireField{}, err
	}

	switch t {
	case format.TagFieldName:
		name, err := d.lengthPrefixed()
		return wireField{name: name}, err
	case format.TagFieldNumber:
		p, err := d.take(8)
		if err != nil {
			return wireField{}, err
		}

		return wireField{number: d.engine.Uint64(p), numbered: true}, nil
	default:
		return wireField{}, d.malformed("expected field key, got %s", t)
	}
}

// valueSpan consumes one complete value and returns its bytes, tag included.
func (d *decoder) valueSpan() ([]byte, error) {
	start := d.pos
	if err := d.skipValue(); err != nil {
		d.pos = start
		return nil, err
	}

	return d.data[start:d.pos], nil
}

func (d *decoder) skipValue() error {
	t, err := d.tag()
	if err != nil {
		return err
	}
	if size := t.FixedSize(); size >= 0 {
		_, err = d.take(size)
		return err
	}

	switch t {
	case format.TagText, format.TagBytes:
		_, err = d.lengthPrefixed()
	case format.TagTypePrefix:
		if _, err = d.lengthPrefixed(); err == nil {
			err = d.skipValue()
		}
	case format.TagMarshallable, format.TagSequence:
		_, err = d.body()
	default:
		err = d.malformed("unknown tag %s", t)
	}

	return err
}

// binaryIn reads the fields of one object: a document payload or a nested
// object body.
type binaryIn struct {
	w      *Wire
	fields fieldMode
	d      decoder
	// forwardOnly disables wrapping to the start of the object when a key
	// is not found ahead of the cursor.
	forwardOnly bool
}

var _ WireIn = (*binaryIn)(nil)

func newBinaryIn(w *Wire, fields fieldMode, data []byte) *binaryIn {
	return &binaryIn{w: w, fields: fields, d: decoder{data: data, engine: w.engine}}
}

func (in *binaryIn) Read(key FieldKey) ValueIn {
	if !in.fields.keyed() {
		return in.next(key.Name())
	}

	start := in.d.pos
	if v, found := in.scan(key, len(in.d.data)); found {
		return v
	}
	if !in.forwardOnly && start > 0 {
		in.d.pos = 0
		if v, found := in.scan(key, start); found {
			return v
		}
	}
	in.d.pos = start

	return missingValue(key.Name())
}

// scan looks for key between the cursor and limit. On a match the cursor
// is left just past the matched value.
func (in *binaryIn) scan(key FieldKey, limit int) (ValueIn, bool) {
	for in.d.pos < limit {
		field, err := in.d.field()
		if err != nil {
			return newErrValueIn(err, false), true
		}
		span, err := in.d.valueSpan()
		if err != nil {
			return newErrValueIn(err, false), true
		}
		if field.matches(key) {
			return newBinaryValueIn(in.w, in.fields, key.Name(), span), true
		}
	}

	return nil, false
}

// next returns the value at the cursor, as FieldlessBinary has no names to
// match against.
func (in *binaryIn) next(name string) ValueIn {
	if !in.d.more() {
		return missingValue(name)
	}
	span, err := in.d.valueSpan()
	if err != nil {
		return newErrValueIn(err, false)
	}

	return newBinaryValueIn(in.w, in.fields, name, span)
}

func (in *binaryIn) HasMore() bool {
	return in.d.more()
}

func (in *binaryIn) WireType() format.WireType {
	return in.w.wireType
}

func (in *binaryIn) Registry() *Registry {
	return in.w.registry
}

// rawBinaryIn reads unframed fields from the wire's buffer, consuming them.
type rawBinaryIn struct {
	w      *Wire
	fields fieldMode
}

func (r *rawBinaryIn) Read(key FieldKey) ValueIn {
	buf := r.w.buf
	start := buf.ReadPosition()
	data, err := buf.Slice(start, buf.WritePosition())
	if err != nil {
		return newErrValueIn(err, false)
	}

	in := newBinaryIn(r.w, r.fields, data)
	in.forwardOnly = true
	v := in.Read(key)
	_ = buf.SetReadPosition(start + in.d.pos)

	return v
}

func (r *rawBinaryIn) HasMore() bool {
	return r.w.buf.ReadRemaining() > 0
}

func (r *rawBinaryIn) WireType() format.WireType {
	return r.w.wireType
}

func (r *rawBinaryIn) Registry() *Registry {
	return r.w.registry
}

// binaryValueIn decodes one value span. It never touches the reader that
// located it, so it stays valid after further reads.
type binaryValueIn struct {
	orDefaults
	w      *Wire
	fields fieldMode
	field  string
	span   []byte
}

func newBinaryValueIn(w *Wire, fields fieldMode, field string, span []byte) *binaryValueIn {
	v := &binaryValueIn{w: w, fields: fields, field: field, span: span}
	v.in = v

	return v
}

func (v *binaryValueIn) kind() format.Tag {
	return format.Tag(v.span[0])
}

// payload returns a decoder positioned after the tag.
func (v *binaryValueIn) payload() *decoder {
	return &decoder{data: v.span, pos: 1, engine: v.w.engine}
}

func (v *binaryValueIn) mismatch(expected string) error {
	return &errs.TypeMismatchError{Field: v.field, Expected: expected, Actual: v.kind().String()}
}

func (v *binaryValueIn) Present() bool {
	return true
}

func (v *binaryValueIn) IsNull() bool {
	return v.kind() == format.TagNull
}

func (v *binaryValueIn) Int64() (int64, error) {
	switch v.kind() {
	case format.TagInt32:
		return int64(int32(v.w.engine.Uint32(v.span[1:]))), nil
	case format.TagInt64:
		return int64(v.w.engine.Uint64(v.span[1:])), nil
	default:
		return 0, v.mismatch("int64")
	}
}

func (v *binaryValueIn) Int32() (int32, error) {
	if k := v.kind(); k != format.TagInt32 && k != format.TagInt64 {
		return 0, v.mismatch("int32")
	}
	n, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, &errs.TypeMismatchError{Field: v.field, Expected: "int32", Actual: "int64 out of range"}
	}

	return int32(n), nil
}

func (v *binaryValueIn) Float64() (float64, error) {
	switch v.kind() {
	case format.TagFloat64:
		return math.Float64frombits(v.w.engine.Uint64(v.span[1:])), nil
	case format.TagInt32, format.TagInt64:
		n, err := v.Int64()
		return float64(n), err
	default:
		return 0, v.mismatch("float64")
	}
}

func (v *binaryValueIn) Bool() (bool, error) {
	switch v.kind() {
	case format.TagTrue:
		return true, nil
	case format.TagFalse:
		return false, nil
	default:
		return false, v.mismatch("bool")
	}
}

func (v *binaryValueIn) Text() (string, error) {
	switch v.kind() {
	case format.TagText:
		p, err := v.payload().lengthPrefixed()
		return string(p), err
	case format.TagNull:
		return "", nil
	default:
		return "", v.mismatch("text")
	}
}

func (v *binaryValueIn) Bytes() ([]byte, error) {
	switch v.kind() {
	case format.TagBytes:
		p, err := v.payload().lengthPrefixed()
		if err != nil {
			return nil, err
		}

		return append([]byte{}, p...), nil
	case format.TagNull:
		return nil, nil
	default:
		return nil, v.mismatch("bytes")
	}
}

// object returns the alias, if any, and the body of a nested object.
func (v *binaryValueIn) object() (string, []byte, error) {
	d := v.payload()
	t := v.kind()

	var alias string
	if t == format.TagTypePrefix {
		p, err := d.lengthPrefixed()
		if err != nil {
			return "", nil, err
		}
		alias = string(p)
		if t, err = d.tag(); err != nil {
			return "", nil, err
		}
	}
	if t != format.TagMarshallable {
		return "", nil, v.mismatch("object")
	}
	body, err := d.body()

	return alias, body, err
}

func (v *binaryValueIn) Marshallable(m ReadMarshallable) error {
	if v.IsNull() {
		return nil
	}
	_, body, err := v.object()
	if err != nil {
		return err
	}

	return m.ReadMarshallable(newBinaryIn(v.w, v.fields, body))
}

func (v *binaryValueIn) Object() (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.kind() != format.TagTypePrefix {
		return nil, v.mismatch("typed-object")
	}
	alias, body, err := v.object()
	if err != nil {
		return nil, err
	}
	entry, err := v.w.registry.Resolve(alias)
	if err != nil {
		return nil, err
	}

	return entry.Reconstruct(newBinaryIn(v.w, v.fields, body))
}

func (v *binaryValueIn) Sequence(fn func(seq SequenceIn) error) error {
	switch v.kind() {
	case format.TagNull:
		return fn(&binarySeqIn{w: v.w, fields: v.fields, field: v.field, d: decoder{engine: v.w.engine}})
	case format.TagSequence:
		body, err := v.payload().body()
		if err != nil {
			return err
		}

		return fn(&binarySeqIn{w: v.w, fields: v.fields, field: v.field, d: decoder{data: body, engine: v.w.engine}})
	default:
		return v.mismatch("sequence")
	}
}

type binarySeqIn struct {
	w      *Wire
	fields fieldMode
	field  string
	d      decoder
}

func (s *binarySeqIn) HasNext() bool {
	return s.d.more()
}

func (s *binarySeqIn) Next() ValueIn {
	if !s.d.more() {
		return missingValue(s.field)
	}
	span, err := s.d.valueSpan()
	if err != nil {
		return newErrValueIn(err, false)
	}

	return newBinaryValueIn(s.w, s.fields, s.field, span)
}
