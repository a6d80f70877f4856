// Package document provides the top-level facade over a pdfalcon
// Document: allocating pages, attaching content streams to them, and
// closing each page off into the page tree.
package document

import pdf "github.com/patrick-ryan/pdfalcon"

// Default paper sizes, as (width, height) in PDF points.
var (
	A4     = Size{595.276, 841.890}
	A5     = Size{420.945, 595.276}
	Letter = Size{612, 792}
)

// Size is a page's MediaBox extent, measured from (0, 0).
type Size struct {
	Width, Height float64
}

// Rectangle renders sz as the PDF array [0 0 Width Height].
func (sz Size) Rectangle() pdf.Array {
	return pdf.Array{pdf.Real(0), pdf.Real(0), pdf.Real(sz.Width), pdf.Real(sz.Height)}
}
