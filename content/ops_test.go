package content

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	pdf "github.com/patrick-ryan/pdfalcon"
)

func TestOperatorRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		ops  []Op
	}{
		{
			name: "graphics_state_save_restore",
			ops: []Op{
				Simple0{Op: "q"},
				ConcatMatrix{Matrix: Matrix{1, 0, 0, 1, 10, 20}},
				Simple0{Op: "Q"},
			},
		},
		{
			name: "text_object",
			ops: []Op{
				Simple0{Op: "BT"},
				SetFont{Font: "F1", Size: 12},
				SetTextMatrix{Matrix: Identity},
				TextNumberOp{Op: "TL", Value: 14},
				ShowText{Text: pdf.String("Hello, world!")},
				Simple0{Op: "T*"},
				Simple0{Op: "ET"},
			},
		},
		{
			name: "path_construct_and_paint",
			ops: []Op{
				MoveTo{X: 0, Y: 0},
				LineTo{X: 100, Y: 0},
				CurveTo{Op: "c", X1: 100, Y1: 50, X2: 50, Y2: 100, X3: 0, Y3: 100},
				Simple0{Op: "h"},
				Simple0{Op: "f"},
			},
		},
		{
			name: "external_object",
			ops: []Op{
				Simple0{Op: "q"},
				ConcatMatrix{Matrix: Matrix{50, 0, 0, 50, 0, 0}},
				ExternalObject{Name: "Im1"},
				Simple0{Op: "Q"},
			},
		},
		{
			name: "graphics_state_operators",
			ops: []Op{
				GraphicsStateOp{Op: "w", Operands: []pdf.Object{pdf.Real(2)}},
				GraphicsStateOp{Op: "d", Operands: []pdf.Object{pdf.Array{pdf.Integer(3), pdf.Integer(1)}, pdf.Integer(0)}},
				GraphicsStateOp{Op: "gs", Operands: []pdf.Object{pdf.Name("GS1")}},
			},
		},
		{
			name: "unknown_operator_preserved",
			ops: []Op{
				Unknown{Op: "XQ", Operands: []pdf.Object{pdf.Integer(1), pdf.Integer(2)}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := Encode(tc.ops)

			var buf bytes.Buffer
			if err := Format(&buf, raw); err != nil {
				t.Fatalf("Format: %v", err)
			}

			parsed, err := Parse(&buf)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			decoded, err := Decode(parsed)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if diff := cmp.Diff(tc.ops, decoded); diff != "" {
				t.Errorf("operator round trip failed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeArityMismatch(t *testing.T) {
	_, err := Decode([]Operation{{Operator: "Tf", Operands: []pdf.Object{pdf.Name("F1")}}})
	if err == nil {
		t.Fatal("expected an arity error for Tf with one operand, got nil")
	}
}

func TestMatrixMul(t *testing.T) {
	m := Translate(10, 20).Mul(Scale(2, 2))
	want := Matrix{2, 0, 0, 2, 20, 40}
	if m != want {
		t.Errorf("Mul: got %v, want %v", m, want)
	}
}
