package wire

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/wire/buffer"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/section"
)

// FromSizePrefixedBlobs renders every document in data as human-readable
// text, for debugging.
//
// Each document starts with a "--- !!data" or "--- !!meta-data" line. Binary
// payloads are rendered as YAML from their type tags alone, so aliases show
// up as local tags and no registry is needed. NumericBinary fields are keyed
// by their decimal code, and fieldless payloads, which carry no keys, are
// rendered as sequences. A trailing document that is not
// complete is reported as "--- !!not-ready-data". A framing error stops the
// dump and is returned along with the text rendered so far.
func FromSizePrefixedBlobs(data []byte, wireType format.WireType, opts ...Option) (string, error) {
	w, err := New(wireType, buffer.Wrap(data), opts...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	suffix := ""
	if !wireType.IsTextual() {
		suffix = " #binary"
	}

	end := 0
	err = w.ScanDocuments(func(doc DocumentInfo) error {
		sb.WriteString("--- !!" + doc.Header.Kind() + suffix + "\n")
		text, err := w.renderPayload(doc.Payload)
		if err != nil {
			return err
		}
		sb.WriteString(text)
		end = doc.Offset + section.HeaderSize + len(doc.Payload)

		return nil
	})
	if err != nil {
		return sb.String(), err
	}
	if end < len(data) {
		sb.WriteString("--- !!not-ready-data" + suffix + "\n...\n")
	}

	return sb.String(), nil
}

func (w *Wire) renderPayload(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}
	if w.wireType.IsTextual() {
		text := string(payload)
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}

		return text, nil
	}

	d := &decoder{data: payload, engine: w.engine}
	node, err := objectNode(d, w.wireType.IsKeyed())
	if err != nil {
		return "", err
	}

	out := buffer.New(len(payload) * 2)
	if err := renderText(out, node); err != nil {
		return "", err
	}

	return string(out.Bytes()), nil
}

// objectNode converts the fields of a binary object body into a mapping, or
// into a sequence when the body has no field names.
func objectNode(d *decoder, keyed bool) (*yaml.Node, error) {
	var node *yaml.Node
	if keyed {
		node = newMapping()
	} else {
		node = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	}

	for d.more() {
		if keyed {
			field, err := d.field()
			if err != nil {
				return nil, err
			}
			if field.numbered {
				node.Content = append(node.Content, scalar(tagInt, strconv.FormatUint(field.number, 10)))
			} else {
				node.Content = append(node.Content, scalar(tagStr, string(field.name)))
			}
		}
		value, err := valueNode(d, keyed)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, value)
	}

	return node, nil
}

func valueNode(d *decoder, keyed bool) (*yaml.Node, error) {
	t, err := d.tag()
	if err != nil {
		return nil, err
	}

	switch t {
	case format.TagInt32:
		p, err := d.take(4)
		if err != nil {
			return nil, err
		}

		return scalar(tagInt, strconv.FormatInt(int64(int32(d.engine.Uint32(p))), 10)), nil
	case format.TagInt64:
		p, err := d.take(8)
		if err != nil {
			return nil, err
		}

		return scalar(tagInt, strconv.FormatInt(int64(d.engine.Uint64(p)), 10)), nil
	case format.TagFloat64:
		p, err := d.take(8)
		if err != nil {
			return nil, err
		}

		return scalar(tagFloat, formatFloat(math.Float64frombits(d.engine.Uint64(p)))), nil
	case format.TagTrue:
		return scalar(tagBool, "true"), nil
	case format.TagFalse:
		return scalar(tagBool, "false"), nil
	case format.TagNull:
		return scalar(tagNull, "null"), nil
	case format.TagText:
		p, err := d.lengthPrefixed()
		if err != nil {
			return nil, err
		}

		return scalar(tagStr, string(p)), nil
	case format.TagBytes:
		p, err := d.lengthPrefixed()
		if err != nil {
			return nil, err
		}

		return scalar(tagBinary, base64.StdEncoding.EncodeToString(p)), nil
	case format.TagTypePrefix:
		alias, err := d.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		node, err := valueNode(d, keyed)
		if err != nil {
			return nil, err
		}
		node.Tag = "!" + string(alias)

		return node, nil
	case format.TagMarshallable:
		body, err := d.body()
		if err != nil {
			return nil, err
		}

		return objectNode(&decoder{data: body, engine: d.engine}, keyed)
	case format.TagSequence:
		body, err := d.body()
		if err != nil {
			return nil, err
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		inner := &decoder{data: body, engine: d.engine}
		for inner.more() {
			item, err := valueNode(inner, keyed)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, item)
		}

		return seq, nil
	default:
		return nil, d.malformed("unknown tag %s", t)
	}
}
