// Package builders offers validated, out-of-core helpers for assembling
// common page content without hand-writing content-stream operators:
// page sizing, text placement, image painting, and simple shapes.
package builders

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PageOptions is the validated input to a new page: its size in points
// and, optionally, a rotation in degrees (a multiple of 90).
type PageOptions struct {
	Width    float64 `validate:"required,gt=0"`
	Height   float64 `validate:"required,gt=0"`
	Rotation int     `validate:"omitempty,oneof=0 90 180 270"`
}

// FontOptions validates a requested base font name against the 14
// standard fonts (the font package rejects anything else regardless, but
// validating here produces a field-tagged error before any document
// state is touched).
type FontOptions struct {
	BaseFont string `validate:"required,oneof=Times-Roman Helvetica Courier Symbol Times-Bold Helvetica-Bold Courier-Bold ZapfDingbats Times-Italic Helvetica-Oblique Courier-Oblique Times-BoldItalic Helvetica-BoldOblique Courier-BoldOblique"`
}

// Validate runs the struct-tag validation rules over opts and turns the
// first failure into a plain error naming the offending field.
func Validate(opts interface{}) error {
	if err := validate.Struct(opts); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("builders: %s: failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}
