// Package font implements the 14 standard Type1 fonts every PDF viewer
// is required to render without an embedded font program, and a
// document-scoped cache that allocates each one's font resource at most
// once no matter how many pages reference it.
package font

import (
	"fmt"

	pdf "github.com/patrick-ryan/pdfalcon"
)

// Standard14 lists the 14 base fonts in the PDF standard, by their exact
// BaseFont name.
var Standard14 = []string{
	"Times-Roman", "Helvetica", "Courier", "Symbol",
	"Times-Bold", "Helvetica-Bold", "Courier-Bold", "ZapfDingbats",
	"Times-Italic", "Helvetica-Oblique", "Courier-Oblique",
	"Times-BoldItalic", "Helvetica-BoldOblique", "Courier-BoldOblique",
}

var standard14Set = func() map[string]bool {
	set := make(map[string]bool, len(Standard14))
	for _, name := range Standard14 {
		set[name] = true
	}
	return set
}()

// IsStandard14 reports whether name is one of the 14 base fonts.
func IsStandard14(name string) bool {
	return standard14Set[name]
}

// Dict renders the /Type /Font /Subtype /Type1 descriptor for one of the
// 14 base fonts.
func Dict(baseFont string) (pdf.Dict, error) {
	if !IsStandard14(baseFont) {
		return nil, &pdf.BuildError{Err: fmt.Errorf("font: %q is not one of the 14 standard fonts", baseFont)}
	}
	return pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name(baseFont),
	}, nil
}

// Cache hands out a single indirect reference per base font name within
// one document, so a document using the same font on many pages attaches
// it to the object store exactly once.
type Cache struct {
	doc *pdf.Document
	ref map[string]pdf.Reference
}

// NewCache returns an empty cache bound to doc.
func NewCache(doc *pdf.Document) *Cache {
	return &Cache{doc: doc, ref: map[string]pdf.Reference{}}
}

// Ref returns the reference for baseFont, allocating and attaching its
// font dictionary the first time it is requested.
func (c *Cache) Ref(baseFont string) (pdf.Reference, error) {
	if ref, ok := c.ref[baseFont]; ok {
		return ref, nil
	}
	dict, err := Dict(baseFont)
	if err != nil {
		return pdf.Reference{}, err
	}
	ref := c.doc.Alloc()
	if err := c.doc.Put(ref, dict); err != nil {
		return pdf.Reference{}, err
	}
	c.ref[baseFont] = ref
	return ref, nil
}
