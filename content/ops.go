package content

import (
	pdf "github.com/patrick-ryan/pdfalcon"
)

// Op is a single content-stream instruction: a tagged variant over the
// table in spec section 4.3, each of which knows its own mnemonic and
// how many operands it consumes. Encode and Decode convert between Op
// and the generic Operation pairs that Parse/Format read and write.
type Op interface {
	Mnemonic() string
}

// Simple0 covers every zero-operand operator: q, Q, BT, ET, S, s, f, F,
// f*, B, B*, b, b*, n, W, W*, T*, h.
type Simple0 struct{ Op string }

func (o Simple0) Mnemonic() string { return o.Op }

// ConcatMatrix is "cm": concatenate Matrix onto the current
// transformation matrix.
type ConcatMatrix struct{ Matrix Matrix }

func (ConcatMatrix) Mnemonic() string { return "cm" }

// SetTextMatrix is "Tm": replace the text matrix and text line matrix.
type SetTextMatrix struct{ Matrix Matrix }

func (SetTextMatrix) Mnemonic() string { return "Tm" }

// SetFont is "Tf": select a resource-dictionary font and size.
type SetFont struct {
	Font pdf.Name
	Size float64
}

func (SetFont) Mnemonic() string { return "Tf" }

// ShowText is "Tj": show a string using the current font and text state.
type ShowText struct{ Text pdf.String }

func (ShowText) Mnemonic() string { return "Tj" }

// TextNumberOp covers the single-operand text-state operators: TL
// (leading), Tc (character spacing), Tw (word spacing), Tz (horizontal
// scale), Ts (rise), and Tr (render mode, always an integral value).
type TextNumberOp struct {
	Op    string
	Value float64
}

func (o TextNumberOp) Mnemonic() string { return o.Op }

// MoveTo is "m": begin a new subpath at (X, Y).
type MoveTo struct{ X, Y float64 }

func (MoveTo) Mnemonic() string { return "m" }

// LineTo is "l": append a straight line segment to (X, Y).
type LineTo struct{ X, Y float64 }

func (LineTo) Mnemonic() string { return "l" }

// Rect is "re": append a rectangle subpath.
type Rect struct{ X, Y, W, H float64 }

func (Rect) Mnemonic() string { return "re" }

// CurveTo covers the three Bézier operators c, v, y. c carries all three
// points in X1..Y3. v and y each take only four operands, which are kept
// in X2, Y2, X3, Y3 in operand order, leaving X1 and Y1 zero.
type CurveTo struct {
	Op                     string
	X1, Y1, X2, Y2, X3, Y3 float64
}

func (o CurveTo) Mnemonic() string { return o.Op }

// ExternalObject is "Do": paint the named XObject from the page's
// resource dictionary.
type ExternalObject struct{ Name pdf.Name }

func (ExternalObject) Mnemonic() string { return "Do" }

// GraphicsStateOp covers the remaining 1-2 operand graphics-state
// operators (w, J, j, M, d, ri, i, gs) without a bespoke struct each,
// since their operand shapes vary (a plain number, a name, or a dash
// array plus a phase).
type GraphicsStateOp struct {
	Op       string
	Operands []pdf.Object
}

func (o GraphicsStateOp) Mnemonic() string { return o.Op }

// Unknown is the opaque variant for any mnemonic not in spec section
// 4.3's table: it round-trips losslessly without being interpreted.
type Unknown struct {
	Op       string
	Operands []pdf.Object
}

func (o Unknown) Mnemonic() string { return o.Op }

var textNumberOps = map[string]bool{"TL": true, "Tc": true, "Tw": true, "Tz": true, "Ts": true, "Tr": true}
var graphicsStateOps = map[string]bool{"w": true, "J": true, "j": true, "M": true, "d": true, "ri": true, "i": true, "gs": true}
var curveOps = map[string]bool{"c": true, "v": true, "y": true}
var simple0Ops = map[string]bool{
	"q": true, "Q": true, "BT": true, "ET": true, "T*": true, "h": true,
	"S": true, "s": true, "f": true, "F": true, "f*": true,
	"B": true, "B*": true, "b": true, "b*": true, "n": true,
	"W": true, "W*": true,
}

// Decode converts the generic operations Parse returns into the typed Op
// model, checking each known mnemonic's arity. Unrecognised mnemonics
// become Unknown rather than causing an error, so a stream using an
// operator pdfalcon does not model still round-trips.
func Decode(ops []Operation) ([]Op, error) {
	out := make([]Op, 0, len(ops))
	for _, raw := range ops {
		op, err := decodeOne(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

func decodeOne(raw Operation) (Op, error) {
	switch {
	case simple0Ops[raw.Operator]:
		if err := checkArity(raw, 0); err != nil {
			return nil, err
		}
		return Simple0{Op: raw.Operator}, nil

	case raw.Operator == "cm":
		m, err := MatrixFromOperands(raw.Operands)
		if err != nil {
			return nil, err
		}
		return ConcatMatrix{Matrix: m}, nil

	case raw.Operator == "Tm":
		m, err := MatrixFromOperands(raw.Operands)
		if err != nil {
			return nil, err
		}
		return SetTextMatrix{Matrix: m}, nil

	case raw.Operator == "Tf":
		if err := checkArity(raw, 2); err != nil {
			return nil, err
		}
		name, ok := raw.Operands[0].(pdf.Name)
		if !ok {
			return nil, newScannerError("Tf: expected a font name operand")
		}
		size, err := toFloat(raw.Operands[1])
		if err != nil {
			return nil, err
		}
		return SetFont{Font: name, Size: size}, nil

	case raw.Operator == "Tj":
		if err := checkArity(raw, 1); err != nil {
			return nil, err
		}
		str, ok := raw.Operands[0].(pdf.String)
		if !ok {
			return nil, newScannerError("Tj: expected a string operand")
		}
		return ShowText{Text: str}, nil

	case textNumberOps[raw.Operator]:
		if err := checkArity(raw, 1); err != nil {
			return nil, err
		}
		v, err := toFloat(raw.Operands[0])
		if err != nil {
			return nil, err
		}
		return TextNumberOp{Op: raw.Operator, Value: v}, nil

	case raw.Operator == "m":
		if err := checkArity(raw, 2); err != nil {
			return nil, err
		}
		x, y, err := xy(raw.Operands)
		if err != nil {
			return nil, err
		}
		return MoveTo{X: x, Y: y}, nil

	case raw.Operator == "l":
		if err := checkArity(raw, 2); err != nil {
			return nil, err
		}
		x, y, err := xy(raw.Operands)
		if err != nil {
			return nil, err
		}
		return LineTo{X: x, Y: y}, nil

	case raw.Operator == "re":
		if err := checkArity(raw, 4); err != nil {
			return nil, err
		}
		vals, err := floats(raw.Operands)
		if err != nil {
			return nil, err
		}
		return Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil

	case curveOps[raw.Operator]:
		wantArity := 6
		if raw.Operator != "c" {
			wantArity = 4
		}
		if err := checkArity(raw, wantArity); err != nil {
			return nil, err
		}
		vals, err := floats(raw.Operands)
		if err != nil {
			return nil, err
		}
		c := CurveTo{Op: raw.Operator}
		if raw.Operator == "c" {
			c.X1, c.Y1, c.X2, c.Y2, c.X3, c.Y3 = vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]
		} else {
			// v and y each omit one control point; their four operands
			// go into X2, Y2, X3, Y3 in order and X1, Y1 are left zero.
			c.X2, c.Y2, c.X3, c.Y3 = vals[0], vals[1], vals[2], vals[3]
		}
		return c, nil

	case raw.Operator == "Do":
		if err := checkArity(raw, 1); err != nil {
			return nil, err
		}
		name, ok := raw.Operands[0].(pdf.Name)
		if !ok {
			return nil, newScannerError("Do: expected a name operand")
		}
		return ExternalObject{Name: name}, nil

	case graphicsStateOps[raw.Operator]:
		if len(raw.Operands) < 1 || len(raw.Operands) > 2 {
			return nil, newScannerError("%s: expected 1-2 operands, got %d", raw.Operator, len(raw.Operands))
		}
		return GraphicsStateOp{Op: raw.Operator, Operands: raw.Operands}, nil

	default:
		return Unknown{Op: raw.Operator, Operands: raw.Operands}, nil
	}
}

func checkArity(raw Operation, n int) error {
	if len(raw.Operands) != n {
		return newScannerError("%s: expected %d operand(s), got %d", raw.Operator, n, len(raw.Operands))
	}
	return nil
}

func xy(operands []pdf.Object) (float64, float64, error) {
	vals, err := floats(operands)
	if err != nil {
		return 0, 0, err
	}
	return vals[0], vals[1], nil
}

func floats(operands []pdf.Object) ([]float64, error) {
	vals := make([]float64, len(operands))
	for i, o := range operands {
		v, err := toFloat(o)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// Encode converts the typed Op model back into generic operations ready
// for Format.
func Encode(ops []Op) []Operation {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		out[i] = encodeOne(op)
	}
	return out
}

func encodeOne(op Op) Operation {
	switch o := op.(type) {
	case Simple0:
		return Operation{Operator: o.Op}
	case ConcatMatrix:
		return Operation{Operator: "cm", Operands: o.Matrix.Operands()}
	case SetTextMatrix:
		return Operation{Operator: "Tm", Operands: o.Matrix.Operands()}
	case SetFont:
		return Operation{Operator: "Tf", Operands: []pdf.Object{o.Font, pdf.Real(o.Size)}}
	case ShowText:
		return Operation{Operator: "Tj", Operands: []pdf.Object{o.Text}}
	case TextNumberOp:
		return Operation{Operator: o.Op, Operands: []pdf.Object{pdf.Real(o.Value)}}
	case MoveTo:
		return Operation{Operator: "m", Operands: []pdf.Object{pdf.Real(o.X), pdf.Real(o.Y)}}
	case LineTo:
		return Operation{Operator: "l", Operands: []pdf.Object{pdf.Real(o.X), pdf.Real(o.Y)}}
	case Rect:
		return Operation{Operator: "re", Operands: []pdf.Object{pdf.Real(o.X), pdf.Real(o.Y), pdf.Real(o.W), pdf.Real(o.H)}}
	case CurveTo:
		var operands []pdf.Object
		if o.Op == "c" {
			operands = []pdf.Object{pdf.Real(o.X1), pdf.Real(o.Y1), pdf.Real(o.X2), pdf.Real(o.Y2), pdf.Real(o.X3), pdf.Real(o.Y3)}
		} else {
			operands = []pdf.Object{pdf.Real(o.X2), pdf.Real(o.Y2), pdf.Real(o.X3), pdf.Real(o.Y3)}
		}
		return Operation{Operator: o.Op, Operands: operands}
	case ExternalObject:
		return Operation{Operator: "Do", Operands: []pdf.Object{o.Name}}
	case GraphicsStateOp:
		return Operation{Operator: o.Op, Operands: o.Operands}
	case Unknown:
		return Operation{Operator: o.Op, Operands: o.Operands}
	default:
		return Operation{Operator: op.Mnemonic()}
	}
}
