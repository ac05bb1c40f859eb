package wire

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/section"
)

// WriteDocument writes m as one size-prefixed document.
//
// A nil m writes an empty document, which is valid and reads back with no
// fields present.
func (w *Wire) WriteDocument(metaData bool, m WriteMarshallable) error {
	if m == nil {
		return w.WriteDocumentFunc(metaData, nil)
	}

	return w.WriteDocumentFunc(metaData, m.WriteMarshallable)
}

// WriteDocumentFunc writes the fields produced by fn as one size-prefixed document.
//
// The header is reserved with the not-complete bit set, fn streams the
// payload, and the header is then patched with the payload length. If fn
// fails or the payload exceeds the maximum document size, the buffer is
// rolled back to where the document started.
func (w *Wire) WriteDocumentFunc(metaData bool, fn func(out WireOut) error) error {
	headerPos := w.buf.WritePosition()
	w.buf.MustWrite(section.Placeholder(metaData).Bytes(w.engine))

	out := w.codec.documentOut(w)
	if fn != nil {
		if err := fn(out); err != nil {
			w.rollback(headerPos)
			return err
		}
	}
	if err := out.finish(); err != nil {
		w.rollback(headerPos)
		return err
	}

	length := w.buf.WritePosition() - headerPos - section.HeaderSize
	if length > w.maxDocumentSize {
		w.rollback(headerPos)
		return errors.Wrapf(errs.ErrDocumentTooLarge, "payload of %d bytes exceeds limit of %d", length, w.maxDocumentSize)
	}

	header := section.NewDocumentHeader(length, metaData)
	if err := w.buf.PutUint32At(w.engine, headerPos, header.Word()); err != nil {
		return err
	}
	w.logger.WithFields(logrus.Fields{
		"offset": headerPos,
		"length": length,
		"kind":   header.Kind(),
	}).Debug("wrote document")

	return nil
}

func (w *Wire) rollback(headerPos int) {
	_ = w.buf.SetWritePosition(headerPos)
}

// ReadDocument reads the next document into data or meta depending on its
// meta-data flag. A nil target skips documents of that kind.
//
// It returns false, with no error, when no complete document is available.
func (w *Wire) ReadDocument(data, meta ReadMarshallable) (bool, error) {
	return w.ReadDocumentFunc(func(in WireIn, metaData bool) error {
		target := data
		if metaData {
			target = meta
		}
		if target == nil {
			return nil
		}

		return target.ReadMarshallable(in)
	})
}

// ReadDocumentFunc hands the next document to fn.
//
// The reader given to fn is bounded to the document's payload. After fn
// returns, the read position is moved to the end of the document whether or
// not fn consumed every field. A header whose length cannot be trusted fails
// with FramingError and leaves the read position at the header.
func (w *Wire) ReadDocumentFunc(fn func(in WireIn, metaData bool) error) (bool, error) {
	header, payload, ok, err := w.peekDocument(w.buf.ReadPosition())
	if err != nil || !ok {
		return false, err
	}
	end := w.buf.ReadPosition() + section.HeaderSize + int(header.Length)

	in, err := w.codec.documentIn(w, payload)
	if err != nil {
		_ = w.buf.SetReadPosition(end)
		return true, err
	}
	err = fn(in, header.MetaData)
	_ = w.buf.SetReadPosition(end)

	return true, err
}

// peekDocument decodes the document starting at offset. ok is false when
// no complete document is available there.
func (w *Wire) peekDocument(offset int) (header section.DocumentHeader, payload []byte, ok bool, err error) {
	available := w.buf.WritePosition() - offset
	if available < section.HeaderSize {
		return header, nil, false, nil
	}

	raw, err := w.buf.Slice(offset, offset+section.HeaderSize)
	if err != nil {
		return header, nil, false, err
	}
	if err := header.Parse(raw, w.engine); err != nil {
		return header, nil, false, err
	}
	if header.NotComplete {
		return header, nil, false, nil
	}

	length := int(header.Length)
	available -= section.HeaderSize
	if length > w.maxDocumentSize {
		return header, nil, false, w.framingError(offset, length, available, "length exceeds maximum document size")
	}
	if length > available {
		return header, nil, false, w.framingError(offset, length, available, "length exceeds written data")
	}

	payload, err = w.buf.Slice(offset+section.HeaderSize, offset+section.HeaderSize+length)
	if err != nil {
		return header, nil, false, err
	}

	return header, payload, true, nil
}

func (w *Wire) framingError(offset, length, available int, reason string) error {
	w.logger.WithFields(logrus.Fields{
		"offset":    offset,
		"length":    length,
		"available": available,
	}).Warn(reason)

	return &errs.FramingError{Offset: offset, Length: length, Available: available, Reason: reason}
}

// DocumentInfo describes one document found by ScanDocuments.
type DocumentInfo struct {
	Offset  int
	Header  section.DocumentHeader
	Payload []byte
}

// ScanDocuments calls fn for every complete document from the start of the
// buffer, without moving the read position. Scanning stops at the first
// incomplete document, at a framing error, or when fn returns an error.
func (w *Wire) ScanDocuments(fn func(doc DocumentInfo) error) error {
	for offset := 0; offset < w.buf.WritePosition(); {
		header, payload, ok, err := w.peekDocument(offset)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(DocumentInfo{Offset: offset, Header: header, Payload: payload}); err != nil {
			return err
		}
		offset += section.HeaderSize + int(header.Length)
	}

	return nil
}

// DocumentIn returns a reader over a document payload obtained from ScanDocuments.
func (w *Wire) DocumentIn(payload []byte) (WireIn, error) {
	return w.codec.documentIn(w, payload)
}
