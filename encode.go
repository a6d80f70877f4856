package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"
)

// Format renders obj using its canonical byte-exact encoding and returns
// the result as a string. A nil Object formats as the PDF null value.
func Format(obj Object) string {
	buf := &bytes.Buffer{}
	if err := WriteObject(buf, obj); err != nil {
		// WriteObject to a bytes.Buffer cannot fail.
		panic(err)
	}
	return buf.String()
}

// WriteObject writes obj's canonical encoding to w. A nil Object writes
// the PDF null value.
func WriteObject(w io.Writer, obj Object) error {
	if obj == nil {
		_, err := io.WriteString(w, "null")
		return err
	}
	return obj.PDF(w)
}

// formatReal prints the shortest decimal representation that round-trips
// through strconv.ParseFloat, always including a decimal point.
func formatReal(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !bytes.ContainsRune([]byte(s), '.') {
		s += ".0"
	}
	return s
}

// nameByteNeedsEscape reports whether b must be written as #XX in a name.
// The bytes allowed unescaped are the PDF 1.7 set: 0x21..0x7E minus the
// eleven characters that are themselves syntactically significant
// (# % / ( ) < > [ ] { }). This is the stricter of the two
// candidate sets discussed for PDF 1.4 vs 1.7 names (see DESIGN.md); we
// use it uniformly regardless of the document's declared version.
func nameByteNeedsEscape(b byte) bool {
	if b < 0x21 || b > 0x7E {
		return true
	}
	switch b {
	case '#', '%', '/', '(', ')', '<', '>', '[', ']', '{', '}':
		return true
	}
	return false
}

func formatName(n Name) string {
	var buf bytes.Buffer
	buf.WriteByte('/')
	for i := 0; i < len(n); i++ {
		b := n[i]
		if nameByteNeedsEscape(b) {
			fmt.Fprintf(&buf, "#%02X", b)
		} else {
			buf.WriteByte(b)
		}
	}
	return buf.String()
}

// isVerbatimLiteral reports whether s can be written between "(" ")"
// without switching to the UTF-16BE fallback encoding: every byte must be
// printable ASCII (no control bytes, no bytes >= 0x80). Parens and
// backslashes still get escaped within this branch.
func isVerbatimLiteral(s []byte) bool {
	for _, b := range s {
		if b < 0x20 || b >= 0x80 {
			return false
		}
	}
	return true
}

func formatLiteralString(s []byte) []byte {
	var buf bytes.Buffer
	if isVerbatimLiteral(s) {
		buf.WriteByte('(')
		for _, b := range s {
			switch b {
			case '(', ')', '\\':
				buf.WriteByte('\\')
				buf.WriteByte(b)
			default:
				buf.WriteByte(b)
			}
		}
		buf.WriteByte(')')
		return buf.Bytes()
	}

	// Non-ASCII or control bytes: treat the payload as UTF-8 text and
	// write it as UTF-16BE with a leading byte-order mark.
	buf.WriteByte('(')
	buf.Write([]byte{0xFE, 0xFF})
	for _, r := range string(s) {
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			writeUTF16Unit(&buf, uint16(r1))
			writeUTF16Unit(&buf, uint16(r2))
		} else {
			writeUTF16Unit(&buf, uint16(r))
		}
	}
	buf.WriteByte(')')
	return buf.Bytes()
}

func writeUTF16Unit(buf *bytes.Buffer, u uint16) {
	hi, lo := byte(u>>8), byte(u)
	for _, b := range [2]byte{hi, lo} {
		if b == '(' || b == ')' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
}

func formatHexString(s []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('<')
	const digits = "0123456789ABCDEF"
	for _, b := range s {
		buf.WriteByte(digits[b>>4])
		buf.WriteByte(digits[b&0xF])
	}
	buf.WriteByte('>')
	return buf.Bytes()
}

func formatArray(w io.Writer, a Array) error {
	// Decide between single-line and one-element-per-line form by
	// rendering the single-line form first and checking its length.
	inline, err := formatArrayInline(a)
	if err != nil {
		return err
	}
	if len(inline) <= 255 && !bytes.ContainsRune(inline, '\n') {
		_, err = w.Write(inline)
		return err
	}

	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for _, elem := range a {
		if _, err := io.WriteString(w, "  "); err != nil {
			return err
		}
		if err := WriteObject(w, elem); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "]")
	return err
}

func formatArrayInline(a Array) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range a {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if err := WriteObject(&buf, elem); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func formatDict(w io.Writer, d Dict, indent int) error {
	pad := bytes.Repeat([]byte("  "), indent)
	if _, err := w.Write(pad); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<<\n"); err != nil {
		return err
	}
	for _, key := range sortedDictKeys(d) {
		if _, err := w.Write(bytes.Repeat([]byte("  "), indent+1)); err != nil {
			return err
		}
		if err := (Name(key)).PDF(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		val := d[key]
		if nested, ok := val.(Dict); ok {
			inline, err := formatDictInlineIfShort(nested, indent+1)
			if err != nil {
				return err
			}
			if inline != nil {
				if _, err := w.Write(inline); err != nil {
					return err
				}
			} else {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
				if err := formatDict(w, nested, indent+1); err != nil {
					return err
				}
			}
		} else {
			if err := WriteObject(w, val); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	if _, err := w.Write(pad); err != nil {
		return err
	}
	_, err := io.WriteString(w, ">>")
	return err
}

// formatDictInlineIfShort renders a nested dictionary on one line when it
// is small enough to read comfortably; otherwise it returns nil so the
// caller falls back to the indented multi-line form.
func formatDictInlineIfShort(d Dict, indent int) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<< ")
	for i, key := range sortedDictKeys(d) {
		if i > 0 {
			buf.WriteString(" ")
		}
		if err := (Name(key)).PDF(&buf); err != nil {
			return nil, err
		}
		buf.WriteString(" ")
		if _, isDict := d[key].(Dict); isDict {
			return nil, nil
		}
		if err := WriteObject(&buf, d[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteString(" >>")
	if buf.Len() > 255 {
		return nil, nil
	}
	return buf.Bytes(), nil
}

func sortedDictKeys(d Dict) []Name {
	keys := make([]Name, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	// simple insertion sort; dictionaries are small
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func formatStream(w io.Writer, s *Stream) error {
	dict := make(Dict, len(s.Dict)+1)
	for k, v := range s.Dict {
		dict[k] = v
	}
	dict["Length"] = Integer(len(s.Data))

	if err := formatDict(w, dict, 0); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nstream\n"); err != nil {
		return err
	}
	if _, err := w.Write(s.Data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendstream")
	return err
}
