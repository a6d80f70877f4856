package pdf

import (
	"fmt"

	"golang.org/x/text/language"
)

// Catalog represents a PDF document catalog, the root of the document's
// object graph. The only required field is Pages, the root of the page
// tree; everything else is optional and omitted from the written
// dictionary when unset.
type Catalog struct {
	// Pages is the root of the document's page tree.
	Pages Reference

	// Version (optional, PDF 1.4) overrides the file header's declared
	// version for this document, when later features are used without
	// bumping the header.
	Version Version

	// PageLayout (optional) controls how a viewer lays out pages on
	// open: SinglePage, OneColumn, TwoColumnLeft, TwoColumnRight,
	// TwoPageLeft, TwoPageRight.
	PageLayout Name

	// PageMode (optional) controls which panel a viewer shows on open:
	// UseNone, UseOutlines, UseThumbs, FullScreen, UseOC, UseAttachments.
	PageMode Name

	// Lang (optional, PDF 1.4) is the document's default natural
	// language, used by screen readers and text-to-speech.
	Lang language.Tag
}

// ToDict materialises the catalog as a PDF dictionary.
func (c *Catalog) ToDict() Dict {
	d := Dict{
		"Type":  Name("Catalog"),
		"Pages": c.Pages,
	}
	if c.Version != (Version{}) {
		d["Version"] = Name(c.Version.String())
	}
	if c.PageLayout != "" {
		d["PageLayout"] = c.PageLayout
	}
	if c.PageMode != "" {
		d["PageMode"] = c.PageMode
	}
	if tag := c.Lang.String(); tag != "" && tag != "und" {
		d["Lang"] = String(tag)
	}
	return d
}

// catalogFromDict reconstructs a Catalog from a parsed dictionary,
// validating the required /Type and /Pages entries.
func catalogFromDict(d Dict) (*Catalog, error) {
	if t, ok := d["Type"].(Name); !ok || t != "Catalog" {
		return nil, &MalformedFileError{Err: fmt.Errorf("catalog missing /Type /Catalog")}
	}
	pages, ok := d["Pages"].(Reference)
	if !ok {
		return nil, &MalformedFileError{Err: fmt.Errorf("catalog missing /Pages reference")}
	}
	c := &Catalog{Pages: pages}

	if v, ok := d["Version"].(Name); ok {
		parsed, err := ParseVersion(string(v))
		if err == nil {
			c.Version = parsed
		}
	}
	if v, ok := d["PageLayout"].(Name); ok {
		c.PageLayout = v
	}
	if v, ok := d["PageMode"].(Name); ok {
		c.PageMode = v
	}
	if v, ok := d["Lang"].(String); ok {
		if tag, err := language.Parse(string(v)); err == nil {
			c.Lang = tag
		}
	}
	return c, nil
}
