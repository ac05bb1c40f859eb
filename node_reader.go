package wire

import (
	"bytes"
	"encoding/base64"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/format"
)

// parseMapping parses a textual payload whose top level must be a mapping.
// A blank payload is an empty mapping.
func parseMapping(payload []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return newMapping(), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return nil, errors.Wrapf(errs.ErrMalformedPayload, "parse: %v", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(errs.ErrMalformedPayload, "top level is %s, not a mapping", describeNode(root))
	}

	return root, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	return n
}

func describeNode(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		if _, ok := objectAlias(n); ok {
			return "typed-object"
		}

		return "object"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return strings.TrimPrefix(n.ShortTag(), "!!")
	default:
		return "unknown"
	}
}

// nodeIn reads the fields of one parsed mapping. Fields are matched by name
// starting after the last field read and wrapping around, so any read order
// works and in-order reads cost one comparison each.
type nodeIn struct {
	w       *Wire
	json    bool
	mapping *yaml.Node
	cursor  int
	// consume removes pairs once read; used for unframed reads where the
	// mapping keeps growing as more fields are written.
	consume bool
}

var _ WireIn = (*nodeIn)(nil)

func newNodeIn(w *Wire, json bool, mapping *yaml.Node) *nodeIn {
	return &nodeIn{w: w, json: json, mapping: mapping}
}

func (in *nodeIn) pairs() int {
	return len(in.mapping.Content) / 2
}

func (in *nodeIn) Read(key FieldKey) ValueIn {
	name := key.Name()
	stored := name
	if in.json {
		stored = jsonFieldName(name)
	}
	pairs := in.pairs()
	for i := 0; i < pairs; i++ {
		idx := (in.cursor + i) % pairs
		if in.mapping.Content[2*idx].Value != stored {
			continue
		}

		value := in.mapping.Content[2*idx+1]
		if in.consume {
			in.mapping.Content = append(in.mapping.Content[:2*idx], in.mapping.Content[2*idx+2:]...)
			in.cursor = idx
		} else {
			in.cursor = idx + 1
		}

		return newNodeValueIn(in.w, in.json, name, value)
	}

	return missingValue(name)
}

func (in *nodeIn) HasMore() bool {
	if in.consume {
		return in.pairs() > 0
	}

	return in.cursor < in.pairs()
}

func (in *nodeIn) WireType() format.WireType {
	return in.w.wireType
}

func (in *nodeIn) Registry() *Registry {
	return in.w.registry
}

// rawNodeIn serves unframed textual reads. Each call first parses whatever
// was written since the previous call into the wire's pending mapping.
type rawNodeIn struct {
	w    *Wire
	json bool
}

func (r rawNodeIn) pending() (*nodeIn, error) {
	w := r.w
	if w.rawText == nil {
		w.rawText = &nodeIn{w: w, json: r.json, mapping: newMapping(), consume: true}
	}

	start, end := w.buf.ReadPosition(), w.buf.WritePosition()
	if start >= end {
		return w.rawText, nil
	}
	data, err := w.buf.Slice(start, end)
	if err != nil {
		return nil, err
	}
	if r.json {
		data = wrapJSONFragments(data)
	}
	mapping, err := parseMapping(data)
	if err != nil {
		return nil, err
	}
	w.rawText.mapping.Content = append(w.rawText.mapping.Content, mapping.Content...)
	_ = w.buf.SetReadPosition(end)

	return w.rawText, nil
}

// wrapJSONFragments turns a run of `"key": value,` fragments into one object.
func wrapJSONFragments(data []byte) []byte {
	trimmed := bytes.TrimSuffix(bytes.TrimRight(data, " \t\r\n"), []byte(","))
	out := make([]byte, 0, len(trimmed)+2)
	out = append(out, '{')
	out = append(out, trimmed...)

	return append(out, '}')
}

func (r rawNodeIn) Read(key FieldKey) ValueIn {
	in, err := r.pending()
	if err != nil {
		return newErrValueIn(err, false)
	}

	return in.Read(key)
}

func (r rawNodeIn) HasMore() bool {
	in, err := r.pending()
	return err == nil && in.HasMore()
}

func (r rawNodeIn) WireType() format.WireType {
	return r.w.wireType
}

func (r rawNodeIn) Registry() *Registry {
	return r.w.registry
}

// nodeValueIn reads one parsed value.
type nodeValueIn struct {
	orDefaults
	w     *Wire
	json  bool
	field string
	node  *yaml.Node
}

func newNodeValueIn(w *Wire, json bool, field string, n *yaml.Node) *nodeValueIn {
	v := &nodeValueIn{w: w, json: json, field: field, node: deref(n)}
	v.in = v

	return v
}

func (v *nodeValueIn) mismatch(expected string) error {
	return &errs.TypeMismatchError{Field: v.field, Expected: expected, Actual: describeNode(v.node)}
}

func (v *nodeValueIn) scalarTag() string {
	if v.node.Kind != yaml.ScalarNode {
		return ""
	}

	return v.node.ShortTag()
}

func (v *nodeValueIn) Present() bool {
	return true
}

func (v *nodeValueIn) IsNull() bool {
	return v.scalarTag() == tagNull
}

func (v *nodeValueIn) Int64() (int64, error) {
	if v.scalarTag() != tagInt {
		return 0, v.mismatch("int64")
	}
	var n int64
	if err := v.node.Decode(&n); err != nil {
		return 0, v.mismatch("int64")
	}

	return n, nil
}

func (v *nodeValueIn) Int32() (int32, error) {
	if v.scalarTag() != tagInt {
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

func (v *nodeValueIn) Float64() (float64, error) {
	switch v.scalarTag() {
	case tagFloat, tagInt:
		var f float64
		if err := v.node.Decode(&f); err != nil {
			return 0, v.mismatch("float64")
		}

		return f, nil
	case tagStr:
		if v.json {
			switch v.node.Value {
			case "NaN":
				return math.NaN(), nil
			case "Infinity":
				return math.Inf(1), nil
			case "-Infinity":
				return math.Inf(-1), nil
			}
		}
	}

	return 0, v.mismatch("float64")
}

func (v *nodeValueIn) Bool() (bool, error) {
	if v.scalarTag() != tagBool {
		return false, v.mismatch("bool")
	}
	var b bool
	if err := v.node.Decode(&b); err != nil {
		return false, v.mismatch("bool")
	}

	return b, nil
}

// Text returns string scalars as is. Numbers and booleans yield their literal text.
func (v *nodeValueIn) Text() (string, error) {
	switch v.scalarTag() {
	case "", tagBinary:
		return "", v.mismatch("text")
	case tagNull:
		return "", nil
	default:
		return v.node.Value, nil
	}
}

func (v *nodeValueIn) Bytes() ([]byte, error) {
	switch v.scalarTag() {
	case tagNull:
		return nil, nil
	case tagBinary, tagStr:
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}

			return r
		}, v.node.Value)
		b, err := base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return nil, v.mismatch("bytes")
		}

		return b, nil
	default:
		return nil, v.mismatch("bytes")
	}
}

// object returns the alias, if any, and the field mapping of a nested object.
// Text carries the alias as a local tag; JSON wraps the fields as
// {"@Alias": {...}}, with field names that start with '@' escaped as "@@".
func (v *nodeValueIn) object() (string, *yaml.Node, error) {
	n := v.node
	if n.Kind != yaml.MappingNode {
		return "", nil, v.mismatch("object")
	}
	if alias, ok := objectAlias(n); ok {
		return alias, n, nil
	}
	if v.json && len(n.Content) == 2 {
		if alias, ok := jsonAlias(n.Content[0].Value); ok {
			if body := deref(n.Content[1]); body.Kind == yaml.MappingNode {
				return alias, body, nil
			}
		}
	}

	return "", n, nil
}

func (v *nodeValueIn) Marshallable(m ReadMarshallable) error {
	if v.IsNull() {
		return nil
	}
	_, body, err := v.object()
	if err != nil {
		return err
	}

	return m.ReadMarshallable(newNodeIn(v.w, v.json, body))
}

func (v *nodeValueIn) Object() (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	alias, body, err := v.object()
	if err != nil {
		return nil, err
	}
	if alias == "" {
		return nil, v.mismatch("typed-object")
	}
	entry, err := v.w.registry.Resolve(alias)
	if err != nil {
		return nil, err
	}

	return entry.Reconstruct(newNodeIn(v.w, v.json, body))
}

func (v *nodeValueIn) Sequence(fn func(seq SequenceIn) error) error {
	switch {
	case v.IsNull():
		return fn(&nodeSeqIn{w: v.w, json: v.json, field: v.field})
	case v.node.Kind == yaml.SequenceNode:
		return fn(&nodeSeqIn{w: v.w, json: v.json, field: v.field, items: v.node.Content})
	default:
		return v.mismatch("sequence")
	}
}

type nodeSeqIn struct {
	w     *Wire
	json  bool
	field string
	items []*yaml.Node
	pos   int
}

func (s *nodeSeqIn) HasNext() bool {
	return s.pos < len(s.items)
}

func (s *nodeSeqIn) Next() ValueIn {
	if s.pos >= len(s.items) {
		return missingValue(s.field)
	}
	n := s.items[s.pos]
	s.pos++

	return newNodeValueIn(s.w, s.json, s.field, n)
}
