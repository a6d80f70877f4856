package content

import (
	"io"

	pdf "github.com/patrick-ryan/pdfalcon"
)

// Parse reads a complete content stream and returns its operations in
// order. Operand grouping ("<< ... >>", "[ ... ]") is already resolved
// by the scanner; Parse's job is just to batch each run of operands up
// to the operator keyword that consumes them.
func Parse(r io.Reader) ([]Operation, error) {
	sc := newScanner(r)
	var ops []Operation
	var pending []pdf.Object
	for {
		v, err := sc.Next()
		if err == io.EOF {
			if len(pending) > 0 {
				return nil, newScannerError("content stream ends with %d unconsumed operand(s)", len(pending))
			}
			return ops, nil
		}
		if err != nil {
			return nil, err
		}

		if op, ok := v.(token); ok {
			ops = append(ops, Operation{Operator: string(op), Operands: pending})
			pending = nil
			continue
		}

		obj, _ := v.(pdf.Object)
		pending = append(pending, obj)
	}
}
