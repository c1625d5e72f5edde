// Package tokenstream reads and writes streams of normalized tokens.
//
// A stream is a sequence of records. Each record is a uvarint byte length
// followed by a protobuf-encoded message:
//
//	1 lemma      bytes
//	2 char_start varint
//	3 char_end   varint
//	4 byte_start varint
//	5 byte_end   varint
//	6 script     varint
//	7 language   string (BCP 47)
//	8 kind       varint
//
// Unknown fields are skipped on read.
package tokenstream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"golang.org/x/text/language"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jamesainslie/go-lemma/token"
)

// ErrCorrupt indicates a stream that cannot be decoded.
var ErrCorrupt = errors.New("tokenstream: corrupt stream")

// maxRecordSize bounds a single record so a corrupt length prefix cannot
// trigger a huge allocation.
const maxRecordSize = 1 << 24

const (
	fieldLemma     protowire.Number = 1
	fieldCharStart protowire.Number = 2
	fieldCharEnd   protowire.Number = 3
	fieldByteStart protowire.Number = 4
	fieldByteEnd   protowire.Number = 5
	fieldScript    protowire.Number = 6
	fieldLanguage  protowire.Number = 7
	fieldKind      protowire.Number = 8
)

// Writer encodes tokens to an io.Writer.
type Writer struct {
	w   io.Writer
	buf []byte
	rec []byte
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes one token as a record.
func (w *Writer) Write(tok token.Token) error {
	w.rec = Marshal(w.rec[:0], tok)
	w.buf = protowire.AppendVarint(w.buf[:0], uint64(len(w.rec)))
	w.buf = append(w.buf, w.rec...)
	if _, err := w.w.Write(w.buf); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

// WriteAll encodes every token of seq.
func (w *Writer) WriteAll(seq iter.Seq[token.Token]) error {
	for tok := range seq {
		if err := w.Write(tok); err != nil {
			return err
		}
	}
	return nil
}

// Marshal appends the message encoding of tok to b. Zero-valued fields are
// omitted.
func Marshal(b []byte, tok token.Token) []byte {
	if tok.Lemma != "" {
		b = protowire.AppendTag(b, fieldLemma, protowire.BytesType)
		b = protowire.AppendString(b, tok.Lemma)
	}
	b = appendVarintField(b, fieldCharStart, tok.CharStart)
	b = appendVarintField(b, fieldCharEnd, tok.CharEnd)
	b = appendVarintField(b, fieldByteStart, tok.ByteStart)
	b = appendVarintField(b, fieldByteEnd, tok.ByteEnd)
	b = appendVarintField(b, fieldScript, int(tok.Script))
	if tok.Language != language.Und {
		b = protowire.AppendTag(b, fieldLanguage, protowire.BytesType)
		b = protowire.AppendString(b, tok.Language.String())
	}
	b = appendVarintField(b, fieldKind, int(tok.Kind))
	return b
}

func appendVarintField(b []byte, num protowire.Number, v int) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// Unmarshal decodes a single message.
func Unmarshal(b []byte) (token.Token, error) {
	var tok token.Token
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return token.Token{}, fmt.Errorf("%w: %w", ErrCorrupt, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldLemma && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return token.Token{}, fmt.Errorf("%w: lemma: %w", ErrCorrupt, protowire.ParseError(n))
			}
			tok.Lemma = v
			b = b[n:]

		case num == fieldLanguage && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return token.Token{}, fmt.Errorf("%w: language: %w", ErrCorrupt, protowire.ParseError(n))
			}
			tag, err := language.Parse(v)
			if err != nil {
				return token.Token{}, fmt.Errorf("%w: language %q: %w", ErrCorrupt, v, err)
			}
			tok.Language = tag
			b = b[n:]

		case num >= fieldCharStart && num <= fieldKind && num != fieldLanguage && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return token.Token{}, fmt.Errorf("%w: field %d: %w", ErrCorrupt, num, protowire.ParseError(n))
			}
			setVarint(&tok, num, int(v))
			b = b[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return token.Token{}, fmt.Errorf("%w: field %d: %w", ErrCorrupt, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return tok, nil
}

func setVarint(tok *token.Token, num protowire.Number, v int) {
	switch num {
	case fieldCharStart:
		tok.CharStart = v
	case fieldCharEnd:
		tok.CharEnd = v
	case fieldByteStart:
		tok.ByteStart = v
	case fieldByteEnd:
		tok.ByteEnd = v
	case fieldScript:
		tok.Script = token.Script(v)
	case fieldKind:
		tok.Kind = token.Kind(v)
	}
}

// Reader decodes tokens from an io.Reader.
type Reader struct {
	r   *bufio.Reader
	buf []byte
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read decodes the next token. It returns io.EOF when the stream ends on a
// record boundary and an error wrapping ErrCorrupt otherwise.
func (r *Reader) Read() (token.Token, error) {
	size, err := binary.ReadUvarint(r.r)
	if err != nil {
		if err == io.EOF {
			return token.Token{}, io.EOF
		}
		return token.Token{}, fmt.Errorf("%w: record length: %w", ErrCorrupt, err)
	}
	if size > maxRecordSize {
		return token.Token{}, fmt.Errorf("%w: record of %d bytes", ErrCorrupt, size)
	}

	if cap(r.buf) < int(size) {
		r.buf = make([]byte, size)
	}
	r.buf = r.buf[:size]
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		return token.Token{}, fmt.Errorf("%w: truncated record: %w", ErrCorrupt, err)
	}

	tok, err := Unmarshal(r.buf)
	if err != nil {
		return token.Token{}, err
	}
	if err := tok.Validate(); err != nil {
		return token.Token{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return tok, nil
}

// All yields every remaining token. Iteration stops after the first error,
// which is yielded with a zero token. A clean end of stream yields no error.
func (r *Reader) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := r.Read()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}
