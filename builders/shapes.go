package builders

import (
	pdf "github.com/patrick-ryan/pdfalcon"
	"github.com/patrick-ryan/pdfalcon/content"
	"github.com/patrick-ryan/pdfalcon/document"
)

// AddText appends a simple single-line text-showing sequence to p at
// (x, y), in the named base font at the given size: BT, font/size,
// position, show, ET.
func AddText(p *document.Page, baseFont string, size, x, y float64, text string) error {
	if err := Validate(FontOptions{BaseFont: baseFont}); err != nil {
		return err
	}
	alias, err := p.Font(baseFont)
	if err != nil {
		return err
	}
	p.AddContentStream(content.Encode([]content.Op{
		content.Simple0{Op: "BT"},
		content.SetFont{Font: alias, Size: size},
		content.SetTextMatrix{Matrix: content.Translate(x, y)},
		content.ShowText{Text: pdf.String(text)},
		content.Simple0{Op: "ET"},
	}))
	return nil
}

// AddEllipse approximates an axis-aligned ellipse centred at (cx, cy)
// with the given radii using four cubic Bézier arcs (the standard
// kappa ≈ 0.5523 control-point offset), then paints it with the stroke
// operator.
func AddEllipse(p *document.Page, cx, cy, rx, ry float64) {
	const kappa = 0.5522847498307936
	ox, oy := rx*kappa, ry*kappa

	ops := []content.Op{
		content.MoveTo{X: cx + rx, Y: cy},
		content.CurveTo{Op: "c", X1: cx + rx, Y1: cy + oy, X2: cx + ox, Y2: cy + ry, X3: cx, Y3: cy + ry},
		content.CurveTo{Op: "c", X1: cx - ox, Y1: cy + ry, X2: cx - rx, Y2: cy + oy, X3: cx - rx, Y3: cy},
		content.CurveTo{Op: "c", X1: cx - rx, Y1: cy - oy, X2: cx - ox, Y2: cy - ry, X3: cx, Y3: cy - ry},
		content.CurveTo{Op: "c", X1: cx + ox, Y1: cy - ry, X2: cx + rx, Y2: cy - oy, X3: cx + rx, Y3: cy},
		content.Simple0{Op: "h"},
		content.Simple0{Op: "S"},
	}
	p.AddContentStream(content.Encode(ops))
}

// AddImageXObject paints an already-attached image XObject, referred to
// within the page's resources by alias, scaled to fill the rectangle
// (x, y, w, h): q, scale+translate, Do, Q.
func AddImageXObject(p *document.Page, alias pdf.Name, x, y, w, h float64) {
	ops := []content.Op{
		content.Simple0{Op: "q"},
		content.ConcatMatrix{Matrix: content.Matrix{w, 0, 0, h, x, y}},
		content.ExternalObject{Name: alias},
		content.Simple0{Op: "Q"},
	}
	p.AddContentStream(content.Encode(ops))
}
