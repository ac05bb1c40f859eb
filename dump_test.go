package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/section"
)

func TestFromSizePrefixedBlobs(t *testing.T) {
	t.Run("Binary", func(t *testing.T) {
		w := newTestWire(t, wireCase{wireType: format.Binary})
		require.NoError(t, w.WriteDocument(true, &testOrder{Name: "meta", Value: 1}))
		require.NoError(t, w.WriteDocumentFunc(false, func(out WireOut) error {
			if err := out.Write(orderKey).Object(&testOrder{Name: "foo", Value: 42}); err != nil {
				return err
			}

			return WriteTexts(out.Write(tagsKey), []string{"x", "y"})
		}))

		text, err := FromSizePrefixedBlobs(w.Buffer().Bytes(), format.Binary)
		require.NoError(t, err)
		require.Contains(t, text, "--- !!meta-data #binary\nname: meta\nvalue: 1\n")
		require.Contains(t, text, "--- !!data #binary\n")
		require.Contains(t, text, "order: !Order")
		require.Contains(t, text, "name: foo")
		require.Contains(t, text, "- x\n")
		require.NotContains(t, text, "not-ready")
	})

	t.Run("FieldlessBinary", func(t *testing.T) {
		w := newTestWire(t, wireCase{wireType: format.FieldlessBinary})
		require.NoError(t, w.WriteDocument(false, &testOrder{Name: "foo", Value: 42}))

		text, err := FromSizePrefixedBlobs(w.Buffer().Bytes(), format.FieldlessBinary)
		require.NoError(t, err)
		require.Equal(t, "--- !!data #binary\n- foo\n- 42\n", text)
	})

	t.Run("JSON", func(t *testing.T) {
		w := newTestWire(t, wireCase{wireType: format.JSON})
		require.NoError(t, w.WriteDocument(false, &testOrder{Name: "foo", Value: 42}))

		text, err := FromSizePrefixedBlobs(w.Buffer().Bytes(), format.JSON)
		require.NoError(t, err)
		require.Equal(t, "--- !!data\n{\"name\": \"foo\", \"value\": 42}\n", text)
	})

	t.Run("NotReady", func(t *testing.T) {
		w := newTestWire(t, wireCase{wireType: format.Text})
		require.NoError(t, w.WriteDocument(false, &testOrder{Name: "foo", Value: 42}))
		w.Buffer().AppendUint32(w.Engine(), section.Placeholder(false).Word())

		text, err := FromSizePrefixedBlobs(w.Buffer().Bytes(), format.Text)
		require.NoError(t, err)
		require.Equal(t, "--- !!data\nname: foo\nvalue: 42\n--- !!not-ready-data\n...\n", text)
	})

	t.Run("Empty", func(t *testing.T) {
		text, err := FromSizePrefixedBlobs(nil, format.Binary)
		require.NoError(t, err)
		require.Empty(t, text)
	})

	t.Run("FramingError", func(t *testing.T) {
		w := newTestWire(t, wireCase{wireType: format.Binary})
		require.NoError(t, w.WriteDocument(false, &testOrder{Name: "ok", Value: 1}))
		w.Buffer().AppendUint32(w.Engine(), section.NewDocumentHeader(500, false).Word())

		text, err := FromSizePrefixedBlobs(w.Buffer().Bytes(), format.Binary)
		require.ErrorIs(t, err, errs.ErrFraming)
		require.Contains(t, text, "name: ok")
	})

	t.Run("UnknownTag", func(t *testing.T) {
		w := newTestWire(t, wireCase{wireType: format.Binary})
		w.Buffer().AppendUint32(w.Engine(), section.NewDocumentHeader(1, false).Word())
		require.NoError(t, w.Buffer().WriteByte(0x01))

		_, err := FromSizePrefixedBlobs(w.Buffer().Bytes(), format.FieldlessBinary)
		require.ErrorIs(t, err, errs.ErrMalformedPayload)
	})
}
