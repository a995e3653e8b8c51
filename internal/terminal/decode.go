package terminal

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingAuto picks the output encoding from the first chunk containing
// non-ASCII bytes: UTF-8 when it is valid, otherwise chardet's best guess,
// falling back to windows-1252.
const EncodingAuto = "auto"

const legacyFallback = "windows-1252"

// maxCarry caps the bytes held back waiting for the rest of a multi-byte
// sequence. Anything longer cannot be a valid prefix and is flushed.
const maxCarry = 8

// Decoder converts chunks of shell output to text. Malformed input is replaced
// with U+FFFD; a trailing incomplete sequence is held until the next chunk.
type Decoder struct {
	t     transform.Transformer
	name  string
	auto  bool
	carry []byte
	buf   []byte
}

// NewDecoder returns a decoder for the named encoding (WHATWG labels such as
// "utf-8" or "windows-1252", or EncodingAuto). An empty name selects UTF-8.
func NewDecoder(name string) (*Decoder, error) {
	if name == "" {
		name = "utf-8"
	}
	if strings.EqualFold(name, EncodingAuto) {
		return &Decoder{t: unicode.UTF8.NewDecoder(), name: EncodingAuto, auto: true}, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	canonical, _ := htmlindex.Name(enc)
	return &Decoder{t: enc.NewDecoder(), name: canonical}, nil
}

// Encoding returns the canonical name of the encoding in use, or
// EncodingAuto while detection is still pending.
func (d *Decoder) Encoding() string {
	return d.name
}

// detect settles an auto decoder once src holds non-ASCII bytes.
func (d *Decoder) detect(src []byte) {
	if isASCII(src) {
		return
	}
	d.auto = false
	d.name = "utf-8"
	d.t = unicode.UTF8.NewDecoder()

	if validUTF8Prefix(src) {
		return
	}
	label := legacyFallback
	if res, err := chardet.NewTextDetector().DetectBest(src); err == nil && res != nil {
		label = strings.ToLower(res.Charset)
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		enc, _ = htmlindex.Get(legacyFallback)
	}
	d.t = enc.NewDecoder()
	d.name, _ = htmlindex.Name(enc)
}

func isASCII(p []byte) bool {
	for _, b := range p {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// validUTF8Prefix reports whether p is valid UTF-8, ignoring one trailing
// incomplete sequence.
func validUTF8Prefix(p []byte) bool {
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if !utf8.FullRune(p[i:]) {
				p = p[:i]
			}
			break
		}
	}
	return utf8.Valid(p)
}

// Decode converts p, prefixed by any bytes held back from the previous call.
func (d *Decoder) Decode(p []byte) string {
	return d.decode(p, false)
}

// Flush decodes whatever is held back, replacing incomplete sequences.
func (d *Decoder) Flush() string {
	return d.decode(nil, true)
}

func (d *Decoder) decode(p []byte, atEOF bool) string {
	src := append(d.carry, p...)
	d.carry = nil
	if len(src) == 0 {
		return ""
	}
	if d.auto {
		d.detect(src)
	}
	if cap(d.buf) < 4*len(src)+utf8.UTFMax {
		d.buf = make([]byte, 4*len(src)+utf8.UTFMax)
	}
	dst := d.buf[:cap(d.buf)]

	var out strings.Builder
	for len(src) > 0 {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out.Write(dst[:nDst])
		src = src[nSrc:]

		switch {
		case err == nil:
			return out.String()
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		case errors.Is(err, transform.ErrShortSrc) && len(src) < maxCarry:
			d.carry = append([]byte(nil), src...)
			return out.String()
		default:
			// Unrecoverable input; replace one byte and keep going.
			out.WriteRune(utf8.RuneError)
			src = src[1:]
		}
	}
	return out.String()
}
