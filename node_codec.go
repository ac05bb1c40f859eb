package wire

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/wire/buffer"
	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/internal/pool"
)

// YAML tags used for the values of the textual formats.
const (
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagBool   = "!!bool"
	tagStr    = "!!str"
	tagNull   = "!!null"
	tagBinary = "!!binary"
)

// nodeCodec implements Text and JSON. Values are collected into a YAML node
// tree per document and rendered when the document is finished; Text renders
// the tree as YAML and JSON renders it as a single JSON object. Both are read
// back with the YAML parser, which accepts JSON.
type nodeCodec struct {
	json bool
}

func (c nodeCodec) documentOut(w *Wire) documentOut {
	return &nodeOut{w: w, json: c.json, mapping: newMapping()}
}

func (c nodeCodec) documentIn(w *Wire, payload []byte) (WireIn, error) {
	mapping, err := parseMapping(payload)
	if err != nil {
		return nil, err
	}

	return newNodeIn(w, c.json, mapping), nil
}

func (c nodeCodec) rawOut(w *Wire) WireOut {
	return &nodeOut{w: w, json: c.json, raw: true}
}

func (c nodeCodec) rawIn(w *Wire) WireIn {
	return rawNodeIn{w: w, json: c.json}
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// objectAlias returns the alias carried by a mapping's local tag.
func objectAlias(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.MappingNode || !strings.HasPrefix(n.Tag, "!") || strings.HasPrefix(n.Tag, "!!") {
		return "", false
	}

	return n.Tag[1:], true
}

// nodeOut collects the fields of one object. In raw mode every field is
// rendered to the buffer as soon as its value is written.
type nodeOut struct {
	w       *Wire
	json    bool
	raw     bool
	mapping *yaml.Node
}

var _ documentOut = (*nodeOut)(nil)

func (o *nodeOut) Write(key FieldKey) ValueOut {
	name := key.Name()

	return nodeValueOut{w: o.w, emit: func(n *yaml.Node) error {
		if o.raw {
			return o.writeFragment(name, n)
		}
		o.mapping.Content = append(o.mapping.Content, scalar(tagStr, name), n)

		return nil
	}}
}

func (o *nodeOut) WireType() format.WireType {
	return o.w.wireType
}

// finish renders the collected document. An empty document has an empty payload.
func (o *nodeOut) finish() error {
	if o.raw || len(o.mapping.Content) == 0 {
		return nil
	}
	if o.json {
		return writeJSON(o.w.buf, o.mapping)
	}

	return renderText(o.w.buf, o.mapping)
}

func (o *nodeOut) writeFragment(name string, n *yaml.Node) error {
	if o.json {
		writeJSONString(o.w.buf, jsonFieldName(name))
		_, _ = o.w.buf.WriteString(": ")
		if err := writeJSON(o.w.buf, n); err != nil {
			return err
		}
		_, _ = o.w.buf.WriteString(",\n")

		return nil
	}

	pair := newMapping()
	pair.Content = append(pair.Content, scalar(tagStr, name), n)

	return renderText(o.w.buf, pair)
}

// nodeValueOut builds the node of one value and hands it to emit.
type nodeValueOut struct {
	w    *Wire
	emit func(n *yaml.Node) error
}

var _ ValueOut = nodeValueOut{}

func (v nodeValueOut) Int32(n int32) error {
	return v.emit(scalar(tagInt, strconv.FormatInt(int64(n), 10)))
}

func (v nodeValueOut) Int64(n int64) error {
	return v.emit(scalar(tagInt, strconv.FormatInt(n, 10)))
}

func (v nodeValueOut) Float64(f float64) error {
	return v.emit(scalar(tagFloat, formatFloat(f)))
}

func (v nodeValueOut) Bool(b bool) error {
	return v.emit(scalar(tagBool, strconv.FormatBool(b)))
}

func (v nodeValueOut) Text(s string) error {
	if err := validText(s); err != nil {
		return err
	}

	return v.emit(scalar(tagStr, s))
}

func (v nodeValueOut) Bytes(b []byte) error {
	return v.emit(scalar(tagBinary, base64.StdEncoding.EncodeToString(b)))
}

func (v nodeValueOut) Null() error {
	return v.emit(scalar(tagNull, "null"))
}

func (v nodeValueOut) Marshallable(m WriteMarshallable) error {
	if isNilMarshallable(m) {
		return v.Null()
	}
	child := &nodeOut{w: v.w, mapping: newMapping()}
	if err := m.WriteMarshallable(child); err != nil {
		return err
	}

	return v.emit(child.mapping)
}

func (v nodeValueOut) Object(m WriteMarshallable) error {
	if isNilMarshallable(m) {
		return v.Null()
	}
	alias, err := v.w.registry.AliasOf(m)
	if err != nil {
		return err
	}
	child := &nodeOut{w: v.w, mapping: newMapping()}
	child.mapping.Tag = "!" + alias
	if err := m.WriteMarshallable(child); err != nil {
		return err
	}

	return v.emit(child.mapping)
}

func (v nodeValueOut) Sequence(fn func(seq SequenceOut) error) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if err := fn(nodeSeqOut{w: v.w, seq: seq}); err != nil {
		return err
	}

	return v.emit(seq)
}

type nodeSeqOut struct {
	w   *Wire
	seq *yaml.Node
}

func (s nodeSeqOut) Add() ValueOut {
	return nodeValueOut{w: s.w, emit: func(n *yaml.Node) error {
		s.seq.Content = append(s.seq.Content, n)
		return nil
	}}
}

// formatFloat renders f so that it always reads back as a float: integral
// values keep a ".0" suffix and non-finite values use the YAML spellings.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}

	fmtByte := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		fmtByte = 'e'
	}
	s := strconv.FormatFloat(f, fmtByte, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// renderText encodes n as block YAML and appends it to dst.
func renderText(dst *buffer.Buffer, n *yaml.Node) error {
	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)

	enc := yaml.NewEncoder(scratch)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return errors.Wrap(err, "render text")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "render text")
	}
	dst.MustWrite(scratch.Bytes())

	return nil
}

// writeJSON appends n to dst as JSON. Objects with an alias are wrapped as
// {"@Alias": {...}}; non-finite floats are written as the strings "NaN",
// "Infinity" and "-Infinity".
func writeJSON(dst *buffer.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.AliasNode:
		return writeJSON(dst, n.Alias)
	case yaml.MappingNode:
		if alias, ok := objectAlias(n); ok {
			_ = dst.WriteByte('{')
			writeJSONString(dst, "@"+alias)
			_, _ = dst.WriteString(": ")
			if err := writeJSONMapping(dst, n); err != nil {
				return err
			}

			return dst.WriteByte('}')
		}

		return writeJSONMapping(dst, n)
	case yaml.SequenceNode:
		_ = dst.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				_, _ = dst.WriteString(", ")
			}
			if err := writeJSON(dst, item); err != nil {
				return err
			}
		}

		return dst.WriteByte(']')
	case yaml.ScalarNode:
		writeJSONScalar(dst, n)
		return nil
	default:
		return errors.Wrapf(errs.ErrMalformedPayload, "cannot render yaml node kind %d as json", n.Kind)
	}
}

func writeJSONMapping(dst *buffer.Buffer, n *yaml.Node) error {
	_ = dst.WriteByte('{')
	for i := 0; i+1 < len(n.Content); i += 2 {
		if i > 0 {
			_, _ = dst.WriteString(", ")
		}
		writeJSONString(dst, jsonFieldName(n.Content[i].Value))
		_, _ = dst.WriteString(": ")
		if err := writeJSON(dst, n.Content[i+1]); err != nil {
			return err
		}
	}

	return dst.WriteByte('}')
}

// jsonFieldName keeps field names apart from {"@Alias": ...} wrappers by
// doubling a leading '@'.
func jsonFieldName(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@" + name
	}

	return name
}

// jsonAlias returns the alias named by a wrapper key.
func jsonAlias(key string) (string, bool) {
	if !strings.HasPrefix(key, "@") || strings.HasPrefix(key, "@@") {
		return "", false
	}

	return key[1:], true
}

func writeJSONScalar(dst *buffer.Buffer, n *yaml.Node) {
	switch n.ShortTag() {
	case tagInt, tagBool:
		_, _ = dst.WriteString(n.Value)
	case tagNull:
		_, _ = dst.WriteString("null")
	case tagFloat:
		switch n.Value {
		case ".nan", ".NaN", ".NAN":
			writeJSONString(dst, "NaN")
		case ".inf", ".Inf", ".INF", "+.inf":
			writeJSONString(dst, "Infinity")
		case "-.inf", "-.Inf", "-.INF":
			writeJSONString(dst, "-Infinity")
		default:
			_, _ = dst.WriteString(n.Value)
		}
	default:
		writeJSONString(dst, n.Value)
	}
}

func writeJSONString(dst *buffer.Buffer, s string) {
	// Marshalling a string cannot fail.
	b, _ := json.Marshal(s)
	dst.MustWrite(b)
}
