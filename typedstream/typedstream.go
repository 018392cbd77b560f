// Package typedstream recovers plain text from Apple typedstream archives,
// the serialization format behind the chat database's rich-text message
// bodies.
//
// This is not a general deserializer. The archive is a header followed by
// type-tagged frames (inline integers, length-prefixed strings, class
// descriptors, back-references), and the only thing the pipeline needs out of
// it is the first user-visible string payload. Decode therefore walks the
// frame stream in order and returns the first recoverable string, treating
// any structural anomaly as "no string found" rather than guessing.
package typedstream

import (
	"bytes"
	"unicode/utf8"
)

// Frame tags. 0x84 opens a new typed value; the bytes after it are either
// further 0x84 nesting, a class-descriptor string, or an inline type string
// such as "+" (length-prefixed raw data, which is how string payloads are
// written).
const (
	tagInt16 = 0x81
	tagInt32 = 0x82
	tagFloat = 0x83
	tagNew   = 0x84
	tagNil   = 0x85
	tagEnd   = 0x86
)

var header = []byte("\x04\x0bstreamtyped")

// maxPayload bounds a single string payload. Real message bodies are far
// smaller; anything bigger is a mis-parse.
const maxPayload = 1 << 24

// Decode extracts the first recoverable string value from a typedstream
// archive. It reports false when blob is not a typedstream archive or when
// the frame walk hits a structural anomaly before finding a string.
//
// Decode is a pure function of blob: it never mutates or retains the input,
// and it never panics. Failure is an expected, frequent outcome; many
// records carry their text in the plain-text column instead.
func Decode(blob []byte) (string, bool) {
	if !bytes.HasPrefix(blob, header) {
		return "", false
	}

	r := reader{buf: blob, off: len(header)}

	// Archiver version (e.g. 1000) follows the signature.
	if _, ok := r.readInt(); !ok {
		return "", false
	}

	for !r.done() {
		b, ok := r.readByte()
		if !ok {
			return "", false
		}
		if b != tagNew {
			// Skip inline integer frames so their bytes can't be
			// mistaken for tags; anything else is positional noise
			// (object markers, back-references) we step over.
			switch b {
			case tagInt16:
				r.skip(2)
			case tagInt32:
				r.skip(4)
			case tagFloat:
				r.skip(4)
			}
			continue
		}

		s, found, ok := r.readTypedValue()
		if !ok {
			return "", false
		}
		if found {
			return s, true
		}
	}
	return "", false
}

// reader is a bounds-checked cursor over the archive bytes.
type reader struct {
	buf []byte
	off int
}

func (r *reader) done() bool { return r.off >= len(r.buf) }

func (r *reader) readByte() (byte, bool) {
	if r.off >= len(r.buf) {
		return 0, false
	}
	b := r.buf[r.off]
	r.off++
	return b, true
}

func (r *reader) peek() (byte, bool) {
	if r.off >= len(r.buf) {
		return 0, false
	}
	return r.buf[r.off], true
}

func (r *reader) skip(n int) {
	if r.off+n > len(r.buf) {
		r.off = len(r.buf)
		return
	}
	r.off += n
}

// readInt decodes the archive's variable-width integer: a literal byte below
// 0x80, or a width marker followed by little-endian payload bytes.
func (r *reader) readInt() (int, bool) {
	b, ok := r.readByte()
	if !ok {
		return 0, false
	}
	switch {
	case b < 0x80:
		return int(b), true
	case b == tagInt16:
		lo, ok1 := r.readByte()
		hi, ok2 := r.readByte()
		if !ok1 || !ok2 {
			return 0, false
		}
		return int(lo) | int(hi)<<8, true
	case b == tagInt32:
		var v int
		for i := 0; i < 4; i++ {
			p, ok := r.readByte()
			if !ok {
				return 0, false
			}
			v |= int(p) << (8 * i)
		}
		return v, true
	default:
		return 0, false
	}
}

// readTypedValue consumes the frame opened by a tagNew byte. It reports
// (payload, true, true) when the frame is a raw-data ("+") frame holding
// valid UTF-8, (_, false, true) for frames that are something else (class
// descriptors, nested objects), and ok=false on structural damage.
func (r *reader) readTypedValue() (string, bool, bool) {
	// Collapse nesting: a new object often opens as 0x84 0x84 0x84 before
	// the class-descriptor string appears.
	for {
		b, ok := r.peek()
		if !ok {
			return "", false, false
		}
		if b != tagNew {
			break
		}
		r.off++
	}

	b, ok := r.peek()
	if !ok {
		return "", false, false
	}
	switch b {
	case tagNil, tagEnd:
		r.off++
		return "", false, true
	}

	// A length-prefixed string follows: either an inline type string like
	// "+" or a class name like "NSString".
	n, ok := r.readInt()
	if !ok || n < 0 || n > maxPayload || r.off+n > len(r.buf) {
		return "", false, false
	}
	typ := r.buf[r.off : r.off+n]
	r.off += n

	if len(typ) == 1 && typ[0] == '+' {
		// Raw data frame: the string payload itself.
		pn, ok := r.readInt()
		if !ok || pn < 0 || pn > maxPayload || r.off+pn > len(r.buf) {
			return "", false, false
		}
		payload := r.buf[r.off : r.off+pn]
		r.off += pn
		if !utf8.Valid(payload) {
			return "", false, true
		}
		return string(payload), true, true
	}

	// Class descriptor or other typed frame: nothing to extract here, keep
	// walking the stream.
	return "", false, true
}
