package content

import (
	"bufio"
	"io"
	"math"
	"strconv"

	pdf "github.com/patrick-ryan/pdfalcon"
)

// scanner breaks a content stream into tokens: PDF values (numbers,
// strings, names, dicts, arrays) and bare operator keywords. Lookahead is
// delegated entirely to bufio.Reader (Peek for look-ahead-without-consume,
// ReadByte to advance), rather than a hand-rolled ring buffer, since a
// content stream's tokens never need more than a few bytes of lookahead
// (the widest case is the two-byte "<<"/">>" check in next()).
type scanner struct {
	r *bufio.Reader
}

func newScanner(r io.Reader) *scanner {
	return &scanner{r: bufio.NewReaderSize(r, 512)}
}

// next returns the next raw value from the stream: a resolved pdf.Object,
// a bare token (an operator or a structural marker), or nil for the PDF
// null literal.
func (s *scanner) next() (interface{}, error) {
	if err := s.skipWhiteSpace(); err != nil {
		return nil, err
	}
	b, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch b {
	case '(':
		return s.readString()
	case '<':
		if string(s.peekN(2)) == "<<" {
			s.nextByte()
			s.nextByte()
			return tokDictOpen, nil
		}
		return s.readHexString()
	case '>':
		if string(s.peekN(2)) == ">>" {
			s.nextByte()
			s.nextByte()
			return tokDictClose, nil
		}
		return nil, newScannerError("unexpected '>'")
	case '[':
		s.nextByte()
		return tokArrOpen, nil
	case ']':
		s.nextByte()
		return tokArrClose, nil
	case '/':
		s.nextByte()
		return s.readName()
	default:
		s.nextByte()
		word := []byte{b}
		for {
			nb, err := s.peek()
			if err == io.EOF {
				break
			} else if err != nil {
				return nil, err
			}
			if class[nb] != regular {
				break
			}
			s.nextByte()
			word = append(word, nb)
		}

		if x, err := parseNumber(word); err == nil {
			return x, nil
		}
		switch string(word) {
		case "true":
			return pdf.Boolean(true), nil
		case "false":
			return pdf.Boolean(false), nil
		case "null":
			return nil, nil
		}
		return token(word), nil
	}
}

// groupFrame tracks one level of "<< ... >>" or "[ ... ]" nesting while
// the scanner assembles a dictionary or array from its raw elements.
type groupFrame struct {
	isDict bool
	data   []pdf.Object
}

// Next assembles the next fully-resolved value by grouping "<< ... >>"
// and "[ ... ]" spans into pdf.Dict/pdf.Array, and returns everything
// else (numbers, strings, names, operator tokens) unchanged.
func (s *scanner) Next() (interface{}, error) {
	var stack []*groupFrame
	for {
		raw, err := s.next()
		if err != nil {
			return nil, err
		}

	retry:
		switch v := raw.(type) {
		case token:
			switch v {
			case tokDictOpen:
				stack = append(stack, &groupFrame{isDict: true})
				continue
			case tokDictClose:
				if len(stack) == 0 || !stack[len(stack)-1].isDict {
					return nil, newScannerError("unexpected '>>'")
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if len(top.data)%2 != 0 {
					return nil, newScannerError("dictionary has an odd number of entries")
				}
				dict := pdf.Dict{}
				for i := 0; i < len(top.data); i += 2 {
					key, ok := top.data[i].(pdf.Name)
					if !ok {
						return nil, newScannerError("expected a name as dictionary key")
					}
					if top.data[i+1] != nil {
						dict[key] = top.data[i+1]
					}
				}
				raw = dict
				goto retry
			case tokArrOpen:
				stack = append(stack, &groupFrame{})
				continue
			case tokArrClose:
				if len(stack) == 0 || stack[len(stack)-1].isDict {
					return nil, newScannerError("unexpected ']'")
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				raw = pdf.Array(top.data)
				goto retry
			default:
				if len(stack) == 0 {
					return v, nil
				}
				return nil, newScannerError("unexpected operator %q inside %s", string(v), groupKind(stack))
			}
		default:
			var obj pdf.Object
			if raw != nil {
				obj, _ = raw.(pdf.Object)
			}
			if len(stack) == 0 {
				if obj == nil && raw != nil {
					return nil, newScannerError("value %v does not implement pdf.Object", raw)
				}
				return obj, nil
			}
			stack[len(stack)-1].data = append(stack[len(stack)-1].data, obj)
		}
	}
}

func groupKind(stack []*groupFrame) string {
	if len(stack) == 0 {
		return "stream"
	}
	if stack[len(stack)-1].isDict {
		return "dictionary"
	}
	return "array"
}

func (s *scanner) readString() (pdf.String, error) {
	if err := s.skipRequiredByte('('); err != nil {
		return nil, err
	}
	var res []byte
	depth := 1
	ignoreLF := false
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, err
		}
		if ignoreLF && b == '\n' {
			ignoreLF = false
			continue
		}
		ignoreLF = false
		switch b {
		case '(':
			depth++
			res = append(res, b)
		case ')':
			depth--
			if depth == 0 {
				return pdf.String(res), nil
			}
			res = append(res, b)
		case '\\':
			nb, err := s.nextByte()
			if err != nil {
				return nil, err
			}
			switch nb {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case '(', ')', '\\':
				res = append(res, nb)
			case '\n':
			case '\r':
				ignoreLF = true
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := nb - '0'
				for i := 0; i < 2; i++ {
					p, err := s.peek()
					if err != nil || p < '0' || p > '7' {
						break
					}
					s.nextByte()
					oct = oct*8 + (p - '0')
				}
				res = append(res, oct)
			default:
				res = append(res, nb)
			}
		default:
			res = append(res, b)
		}
	}
}

func (s *scanner) readHexString() (pdf.String, error) {
	if err := s.skipRequiredByte('<'); err != nil {
		return nil, err
	}
	var res []byte
	first := true
	var hi byte
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, err
		}
		if b == '>' {
			break
		}
		if b <= 32 {
			continue
		}
		var nibble byte
		switch {
		case b >= '0' && b <= '9':
			nibble = b - '0'
		case b >= 'A' && b <= 'F':
			nibble = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			nibble = b - 'a' + 10
		default:
			return nil, newScannerError("invalid hex digit %q", b)
		}
		if first {
			hi = nibble << 4
			first = false
		} else {
			res = append(res, hi|nibble)
			first = true
		}
	}
	if !first {
		res = append(res, hi)
	}
	return pdf.String(res), nil
}

func (s *scanner) readName() (pdf.Name, error) {
	var name []byte
	for {
		b, err := s.peek()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}
		if b == '#' {
			s.nextByte()
			hi, err := s.readHexDigit()
			if err != nil {
				return "", err
			}
			lo, err := s.readHexDigit()
			if err != nil {
				return "", err
			}
			name = append(name, hi<<4|lo)
			continue
		}
		if class[b] != regular {
			break
		}
		s.nextByte()
		name = append(name, b)
	}
	return pdf.Name(name), nil
}

func (s *scanner) readHexDigit() (byte, error) {
	b, err := s.nextByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	}
	return 0, newScannerError("invalid hex digit %q", b)
}

func (s *scanner) skipWhiteSpace() error {
	for {
		b, err := s.peek()
		if err != nil {
			return err
		}
		if b <= 32 {
			s.nextByte()
		} else if b == '%' {
			s.skipComment()
		} else {
			return nil
		}
	}
}

func (s *scanner) skipComment() {
	if err := s.skipRequiredByte('%'); err != nil {
		return
	}
	for {
		b, err := s.peek()
		if err != nil || b == '\n' || b == '\r' {
			return
		}
		s.nextByte()
	}
}

func (s *scanner) skipRequiredByte(expected byte) error {
	got, err := s.nextByte()
	if err != nil {
		return err
	}
	if got != expected {
		return newScannerError("expected %q, got %q", expected, got)
	}
	return nil
}

func (s *scanner) peek() (byte, error) {
	b, err := s.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// peekN returns up to n bytes ahead without consuming them. Near EOF it
// may return fewer than n bytes; callers (the "<<"/">>" lookahead in
// next()) treat a short result as "not a match" rather than an error.
func (s *scanner) peekN(n int) []byte {
	b, _ := s.r.Peek(n)
	return b
}

func (s *scanner) nextByte() (byte, error) {
	return s.r.ReadByte()
}

func parseNumber(b []byte) (pdf.Object, error) {
	if x, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		return pdf.Integer(x), nil
	}

	isSimple := true
	for i, c := range b {
		if i == 0 && (c == '+' || c == '-') {
			continue
		}
		if c == '.' || (c >= '0' && c <= '9') {
			continue
		}
		isSimple = false
		break
	}
	if isSimple {
		if y, err := strconv.ParseFloat(string(b), 64); err == nil && !math.IsInf(y, 0) && !math.IsNaN(y) {
			return pdf.Real(y), nil
		}
	}
	return nil, newScannerError("invalid number %q", b)
}

type characterClass byte

const (
	regular characterClass = iota
	space
	delimiter
)

var class [256]characterClass

func init() {
	for _, b := range []byte{0, '\t', '\n', '\f', '\r', ' '} {
		class[b] = space
	}
	for _, b := range []byte("()<>[]{}/%") {
		class[b] = delimiter
	}
}
