// Package content implements the PDF content-stream operator model: the
// sequence of graphics/text operators (with their operands) that make up
// a page's appearance, independent of the object-graph and file-structure
// layers in the root package.
package content

import (
	"fmt"
	"math"

	pdf "github.com/patrick-ryan/pdfalcon"
)

// token is a bareword found between delimiters in a content stream: a
// graphics operator (q, Tf, Do, ...) or one of the structural markers
// ("<<", ">>", "[", "]") the scanner uses to group operands into
// dictionaries and arrays before handing them to the parser.
type token string

const (
	tokDictOpen  token = "<<"
	tokDictClose token = ">>"
	tokArrOpen   token = "["
	tokArrClose  token = "]"
)

// Operation is one operator together with the operands that precede it,
// in the order spec.md's operator table lists them ("operands then
// operator", e.g. "1 0 0 1 0 0 cm"). Operator values not in that table
// are kept verbatim rather than rejected, so a stream round-trips
// losslessly even when it uses an operator pdfalcon does not otherwise
// interpret.
type Operation struct {
	Operator string
	Operands []pdf.Object
}

// scannerError reports a malformed content stream.
type scannerError struct {
	msg string
}

func (e *scannerError) Error() string { return "content: " + e.msg }

func newScannerError(format string, args ...interface{}) error {
	return &scannerError{msg: fmt.Sprintf(format, args...)}
}

// Matrix is a 2-D affine transform [a b c d e f], applied to a point
// (x, y) as [x y 1] * Matrix. It backs the operands of cm and Tm.
type Matrix [6]float64

// Identity is the identity transform.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Mul composes m then n: applying the result to a point is the same as
// applying m first and then n, matching the left-to-right order that
// repeated "cm" operators accumulate in a content stream.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// Translate returns the translation matrix by (dx, dy).
func Translate(dx, dy float64) Matrix { return Matrix{1, 0, 0, 1, dx, dy} }

// Scale returns the scaling matrix by (sx, sy).
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Skew returns the skew matrix with tangents (tanAlpha, tanBeta) along
// the x and y axes respectively.
func Skew(tanAlpha, tanBeta float64) Matrix { return Matrix{1, tanAlpha, tanBeta, 1, 0, 0} }

// Rotate returns the rotation matrix for angle radians, counterclockwise.
func Rotate(angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// Operands renders m as the six pdf.Real operands cm/Tm expect.
func (m Matrix) Operands() []pdf.Object {
	ops := make([]pdf.Object, 6)
	for i, v := range m {
		ops[i] = pdf.Real(v)
	}
	return ops
}

// MatrixFromOperands reads back the six operands of a "cm" or "Tm"
// operation.
func MatrixFromOperands(operands []pdf.Object) (Matrix, error) {
	if len(operands) != 6 {
		return Matrix{}, newScannerError("matrix operation needs 6 operands, got %d", len(operands))
	}
	var m Matrix
	for i, op := range operands {
		v, err := toFloat(op)
		if err != nil {
			return Matrix{}, err
		}
		m[i] = v
	}
	return m, nil
}

func toFloat(obj pdf.Object) (float64, error) {
	switch v := obj.(type) {
	case pdf.Integer:
		return float64(v), nil
	case pdf.Real:
		return float64(v), nil
	default:
		return 0, newScannerError("expected a number, got %T", obj)
	}
}
