package document

import (
	"fmt"

	pdf "github.com/patrick-ryan/pdfalcon"
	"github.com/patrick-ryan/pdfalcon/content"
	"github.com/patrick-ryan/pdfalcon/font"
	"github.com/patrick-ryan/pdfalcon/pagetree"
)

// Builder is the facade over a pdfalcon Document used to assemble a
// multi-page file: it owns the page tree writer and the font cache
// shared across every page, and hands out Page values that pages append
// themselves to once their content stream is finished.
type Builder struct {
	Doc   *pdf.Document
	Fonts *font.Cache

	tree       *pagetree.Writer
	defaultMediaBox pdf.Array
}

// NewBuilder starts a Builder over doc, with paper the default page size
// inherited by every page that does not set its own /MediaBox.
func NewBuilder(doc *pdf.Document, paper Size) *Builder {
	box := paper.Rectangle()
	return &Builder{
		Doc:             doc,
		Fonts:           font.NewCache(doc),
		tree:            pagetree.NewWriter(doc, &pagetree.InheritableAttributes{MediaBox: box}),
		defaultMediaBox: box,
	}
}

// Page accumulates one page's content-stream operators and its resource
// dictionary (the /F1, /F2, ... font aliases it uses) before being
// closed into the document's page tree.
type Page struct {
	b       *Builder
	ops     []content.Operation
	fontIDs map[string]pdf.Name // base font name -> resource alias
	mediaBox pdf.Array
}

// AddPage starts a new page.
func (b *Builder) AddPage() *Page {
	return &Page{b: b, fontIDs: map[string]pdf.Name{}}
}

// SetMediaBox overrides the page's inherited /MediaBox.
func (p *Page) SetMediaBox(paper Size) {
	p.mediaBox = paper.Rectangle()
}

// AddContentStream appends ops to the page's content stream, in order.
func (p *Page) AddContentStream(ops []content.Operation) {
	p.ops = append(p.ops, ops...)
}

// Font returns the resource alias ("F1", "F2", ...) this page uses to
// refer to baseFont in its content stream, allocating both the document-
// wide font reference and the page-local alias the first time baseFont
// is requested on this page.
func (p *Page) Font(baseFont string) (pdf.Name, error) {
	if alias, ok := p.fontIDs[baseFont]; ok {
		return alias, nil
	}
	if _, err := p.b.Fonts.Ref(baseFont); err != nil {
		return "", err
	}
	alias := pdf.Name(fmt.Sprintf("F%d", len(p.fontIDs)+1))
	p.fontIDs[baseFont] = alias
	return alias, nil
}

// Close encodes the page's content stream, attaches it and its resource
// dictionary to the document, and links the page into the builder's page
// tree. It returns the page's own reference.
func (p *Page) Close() (pdf.Reference, error) {
	payload, err := content.Bytes(p.ops)
	if err != nil {
		return pdf.Reference{}, err
	}
	encoded, filterArray, err := pdf.EncodeStreamData(payload, pdf.FilterFlate{})
	if err != nil {
		return pdf.Reference{}, err
	}
	streamRef := p.b.Doc.Alloc()
	stream := &pdf.Stream{
		Dict: pdf.Dict{"Filter": filterArray},
		Data: encoded,
	}
	if err := p.b.Doc.Put(streamRef, stream); err != nil {
		return pdf.Reference{}, err
	}

	resources := pdf.Dict{}
	if len(p.fontIDs) > 0 {
		fontDict := pdf.Dict{}
		for baseFont, alias := range p.fontIDs {
			ref, err := p.b.Fonts.Ref(baseFont)
			if err != nil {
				return pdf.Reference{}, err
			}
			fontDict[pdf.Name(alias)] = ref
		}
		resources["Font"] = fontDict
	}
	resources["ProcSet"] = p.procSet()

	dict := pdf.Dict{
		"Type":      pdf.Name("Page"),
		"Contents":  streamRef,
		"Resources": resources,
	}
	if p.mediaBox != nil {
		dict["MediaBox"] = p.mediaBox
	}

	return p.b.tree.AppendPage(dict)
}

// procSet builds the page's /ProcSet array: /PDF is always present, with
// /Text added whenever the content stream shows text and /ImageB,
// /ImageC, or /ImageI added per the kind of image XObject the page
// paints. The content model here does not track a painted image's
// colorspace (no /ColorSpace is threaded from AddImageXObject through to
// an image's resource dict), so every "Do" is conservatively counted as
// a color image (/ImageC) rather than guessing at /ImageB (monochrome)
// or /ImageI (indexed).
func (p *Page) procSet() pdf.Array {
	procSet := pdf.Array{pdf.Name("PDF")}
	var usesText, usesImage bool
	for _, op := range p.ops {
		switch op.Operator {
		case "Tj", "TJ", "'", "\"":
			usesText = true
		case "Do":
			usesImage = true
		}
	}
	if usesText {
		procSet = append(procSet, pdf.Name("Text"))
	}
	if usesImage {
		procSet = append(procSet, pdf.Name("ImageC"))
	}
	return procSet
}

// ClosePageTree finalizes the page tree and returns its root reference,
// to be installed as the catalog's /Pages entry.
func (b *Builder) ClosePageTree() (pdf.Reference, error) {
	return b.tree.Close()
}
