package content

import (
	"bytes"
	"io"

	pdf "github.com/patrick-ryan/pdfalcon"
)

// Format renders a complete content stream: each operation as its
// operands (space-separated, in their canonical object encoding)
// followed by the operator keyword, one operation per line.
func Format(w io.Writer, ops []Operation) error {
	for _, op := range ops {
		if err := writeOperation(w, op); err != nil {
			return err
		}
	}
	return nil
}

func writeOperation(w io.Writer, op Operation) error {
	for _, operand := range op.Operands {
		if err := pdf.WriteObject(w, operand); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, op.Operator); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Bytes renders ops and returns the result, for callers building a
// stream's payload in memory before it is filter-encoded.
func Bytes(ops []Operation) ([]byte, error) {
	var buf bytes.Buffer
	if err := Format(&buf, ops); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
