package pdf

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Filter is the interface implemented by every supported stream encoding.
// Name returns the PDF /Filter name this implementation corresponds to.
type Filter interface {
	Name() Name
	Encode(w io.Writer) (io.WriteCloser, error)
	Decode(r io.Reader) (io.Reader, error)
}

// FilterASCII85 implements the ASCII85Decode filter (Adobe's variant,
// with a 'z' short form for an all-zero group and a "~>" end marker).
type FilterASCII85 struct{}

func (FilterASCII85) Name() Name { return "ASCII85Decode" }

func (FilterASCII85) Encode(w io.Writer) (io.WriteCloser, error) {
	return &ascii85Writer{w: w}, nil
}

func (FilterASCII85) Decode(r io.Reader) (io.Reader, error) {
	return &ascii85Reader{r: r}, nil
}

// FilterFlate implements the FlateDecode filter using zlib framing
// (RFC 1950), as required by the PDF spec. No PNG/TIFF predictor support
// is implemented; pdfalcon never emits image samples through this path
// (raster payloads are wrapped opaquely per spec.md's image non-goal), so
// Predictor is always 1.
type FilterFlate struct{}

func (FilterFlate) Name() Name { return "FlateDecode" }

func (FilterFlate) Encode(w io.Writer) (io.WriteCloser, error) {
	return zlib.NewWriter(w), nil
}

func (FilterFlate) Decode(r io.Reader) (io.Reader, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zr, nil
}

// FilterASCIIHex implements the ASCIIHexDecode filter: pairs of hex
// digits terminated by ">".
type FilterASCIIHex struct{}

func (FilterASCIIHex) Name() Name { return "ASCIIHexDecode" }

func (FilterASCIIHex) Encode(w io.Writer) (io.WriteCloser, error) {
	return &asciiHexWriter{w: w}, nil
}

func (FilterASCIIHex) Decode(r io.Reader) (io.Reader, error) {
	return &asciiHexReader{r: r}, nil
}

// FilterDCT represents the DCTDecode (JPEG) filter. At this layer it is a
// pass-through: the image XObject that declares this filter already
// received pre-encoded JPEG bytes from the external image decoder named
// in spec.md's scope notes, so there is nothing further to transform.
type FilterDCT struct{}

func (FilterDCT) Name() Name { return "DCTDecode" }

func (FilterDCT) Encode(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (FilterDCT) Decode(r io.Reader) (io.Reader, error) {
	return r, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// makeFilter looks up the Filter implementation for a /Filter name. An
// unrecognised name is a ParseError, per spec.md's error-handling design
// ("Unknown stream filter on read: ParseError").
func makeFilter(name Name) (Filter, error) {
	switch name {
	case "ASCII85Decode":
		return FilterASCII85{}, nil
	case "FlateDecode":
		return FilterFlate{}, nil
	case "ASCIIHexDecode":
		return FilterASCIIHex{}, nil
	case "DCTDecode":
		return FilterDCT{}, nil
	default:
		return nil, &ParseError{Err: fmt.Errorf("unsupported filter %q", name), Pos: -1}
	}
}

// GetFilters extracts the Filter chain from a stream dictionary's /Filter
// entry (a Name or an Array of Name), in the order the reader must apply
// them.
func GetFilters(dict Dict) ([]Filter, error) {
	switch f := dict["Filter"].(type) {
	case nil:
		return nil, nil
	case Name:
		filt, err := makeFilter(f)
		if err != nil {
			return nil, err
		}
		return []Filter{filt}, nil
	case Array:
		res := make([]Filter, 0, len(f))
		for _, elem := range f {
			name, ok := elem.(Name)
			if !ok {
				return nil, &ParseError{Err: errors.New("invalid /Filter array element"), Pos: -1}
			}
			filt, err := makeFilter(name)
			if err != nil {
				return nil, err
			}
			res = append(res, filt)
		}
		return res, nil
	default:
		return nil, &ParseError{Err: errors.New("invalid /Filter field"), Pos: -1}
	}
}

// EncodeStreamData runs payload through filters in reverse order (inner
// filter first) and returns the fully encoded bytes together with the
// /Filter array (in the order the reader must apply them) that describes
// the pipeline.
func EncodeStreamData(payload []byte, filters ...Filter) ([]byte, Array, error) {
	data := payload
	for i := len(filters) - 1; i >= 0; i-- {
		var buf bytes.Buffer
		wc, err := filters[i].Encode(&buf)
		if err != nil {
			return nil, nil, err
		}
		if _, err := wc.Write(data); err != nil {
			return nil, nil, err
		}
		if err := wc.Close(); err != nil {
			return nil, nil, err
		}
		data = buf.Bytes()
	}

	names := make(Array, len(filters))
	for i, f := range filters {
		names[i] = f.Name()
	}
	return data, names, nil
}

// DecodeStreamData reverses EncodeStreamData's pipeline, reading the
// stream's /Filter entry to recover the list of filters. If numFilters is
// non-zero, only the first numFilters filters (outer-to-inner, i.e. the
// order listed in /Filter) are undone.
func DecodeStreamData(s *Stream, numFilters int) ([]byte, error) {
	filters, err := GetFilters(s.Dict)
	if err != nil {
		return nil, err
	}

	var r io.Reader = bytes.NewReader(s.Data)
	for i, f := range filters {
		if numFilters > 0 && i >= numFilters {
			break
		}
		r, err = f.Decode(r)
		if err != nil {
			return nil, err
		}
	}
	return io.ReadAll(r)
}

// ---- ASCII85 -------------------------------------------------------

type ascii85Reader struct {
	r              io.Reader
	immediateError error
	delayedError   error
	buf            [512]byte
	outbuf         [4]byte
	leftover       []byte
	pos, nbuf      int
	v              uint32
	k              int
	isEnd          bool
}

func (r *ascii85Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.immediateError != nil {
		return 0, r.immediateError
	}

	if len(r.leftover) > 0 {
		n = copy(p, r.leftover)
		r.leftover = r.leftover[n:]
	}

	for n < len(p) {
		for r.pos == r.nbuf && r.delayedError == nil {
			r.nbuf, r.delayedError = r.r.Read(r.buf[:])
			r.pos = 0
			if r.delayedError == io.EOF {
				r.delayedError = io.ErrUnexpectedEOF
			}
		}
		if r.pos == r.nbuf {
			r.immediateError = r.delayedError
			return n, r.immediateError
		}

		for r.pos < r.nbuf {
			c := r.buf[r.pos]
			r.pos++

			if r.isEnd {
				if c == '>' {
					r.immediateError = io.EOF
				} else {
					r.immediateError = errors.New("invalid end marker in ASCII85 stream")
				}
				return n, r.immediateError
			}

			switch {
			case c >= '!' && c < '!'+85:
				r.v = r.v*85 + uint32(c-'!')
				r.k++
			case r.k == 0 && c == 'z':
				r.v = 0
				r.k = 5
			case isASCII85Space(c):
				continue
			case c == '~':
				switch r.k {
				case 0:
				case 1:
					r.immediateError = errors.New("unexpected end marker in ASCII85 stream")
					return n, r.immediateError
				default:
					for i := r.k; i < 5; i++ {
						r.v = r.v*85 + 84
					}
					r.outbuf[0] = byte(r.v >> 24)
					r.outbuf[1] = byte(r.v >> 16)
					r.outbuf[2] = byte(r.v >> 8)
					r.outbuf[3] = byte(r.v)
					l := copy(p[n:], r.outbuf[:r.k-1])
					n += l
					if l < r.k-1 {
						r.leftover = r.outbuf[l : r.k-1]
					}
					r.k = 0
				}
				r.isEnd = true
				continue
			default:
				r.immediateError = errors.New("invalid character in ASCII85 stream")
				return n, r.immediateError
			}

			if r.k == 5 {
				r.outbuf[0] = byte(r.v >> 24)
				r.outbuf[1] = byte(r.v >> 16)
				r.outbuf[2] = byte(r.v >> 8)
				r.outbuf[3] = byte(r.v)
				r.k, r.v = 0, 0

				l := copy(p[n:], r.outbuf[:])
				n += l
				if l < 4 {
					r.leftover = r.outbuf[l:]
				}
				break
			}
		}
	}
	return n, r.immediateError
}

func isASCII85Space(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	default:
		return false
	}
}

type ascii85Writer struct {
	w   io.Writer
	buf []byte
	v   uint32
	k   int
}

func (w *ascii85Writer) Write(p []byte) (n int, err error) {
	for _, b := range p {
		w.v = w.v<<8 | uint32(b)
		w.k++
		if w.k == 4 {
			v := w.v
			if v == 0 {
				w.buf = append(w.buf, 'z')
			} else {
				var c [5]byte
				for i := 4; i >= 0; i-- {
					c[i] = byte(v%85) + '!'
					v /= 85
				}
				w.buf = append(w.buf, c[:]...)
			}
			w.v, w.k = 0, 0
		}
		n++
	}
	return n, nil
}

func (w *ascii85Writer) Close() error {
	if w.k != 0 {
		v := w.v << ((4 - w.k) * 8)
		var c [5]byte
		for i := 4; i >= 0; i-- {
			c[i] = byte(v%85) + '!'
			v /= 85
		}
		w.buf = append(w.buf, c[:w.k+1]...)
		w.v, w.k = 0, 0
	}
	w.buf = append(w.buf, '~', '>')
	_, err := w.w.Write(w.buf)
	return err
}

// ---- ASCIIHex -------------------------------------------------------

type asciiHexWriter struct {
	w io.Writer
}

func (w *asciiHexWriter) Write(p []byte) (int, error) {
	enc := make([]byte, hex.EncodedLen(len(p)))
	hex.Encode(enc, p)
	if _, err := w.w.Write(enc); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *asciiHexWriter) Close() error {
	_, err := io.WriteString(w.w, ">")
	return err
}

type asciiHexReader struct {
	r   io.Reader
	buf bytes.Buffer
	end bool
}

func (r *asciiHexReader) Read(p []byte) (int, error) {
	if r.end && r.buf.Len() == 0 {
		return 0, io.EOF
	}
	var one [4096]byte
	for r.buf.Len() < len(p) && !r.end {
		n, err := r.r.Read(one[:])
		for i := 0; i < n; i++ {
			c := one[i]
			if c == '>' {
				r.end = true
				break
			}
			if isASCII85Space(c) {
				continue
			}
			r.buf.WriteByte(c)
		}
		if err != nil {
			if err == io.EOF {
				r.end = true
			} else {
				return 0, err
			}
		}
	}
	raw := r.buf.Bytes()
	if len(raw)%2 == 1 {
		raw = append(raw, '0')
	}
	decoded := make([]byte, hex.DecodedLen(len(raw)))
	n, err := hex.Decode(decoded, raw)
	if err != nil {
		return 0, err
	}
	r.buf.Reset()
	return copy(p, decoded[:n]), nil
}
