package document

import (
	"testing"

	pdf "github.com/patrick-ryan/pdfalcon"
)

func TestPageFontAliasReuse(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	b := NewBuilder(doc, A4)
	page := b.AddPage()

	alias1, err := page.Font("Helvetica")
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	alias2, err := page.Font("Helvetica")
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if alias1 != alias2 {
		t.Errorf("Font returned distinct aliases for the same base font: %v != %v", alias1, alias2)
	}

	alias3, err := page.Font("Times-Roman")
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if alias3 == alias1 {
		t.Errorf("distinct base fonts got the same alias %v", alias1)
	}
}

func TestBuilderMultiPage(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	b := NewBuilder(doc, Letter)

	for i := 0; i < 3; i++ {
		page := b.AddPage()
		if _, err := page.Font("Helvetica"); err != nil {
			t.Fatalf("Font: %v", err)
		}
		if _, err := page.Close(); err != nil {
			t.Fatalf("Close page %d: %v", i, err)
		}
	}

	rootRef, err := b.ClosePageTree()
	if err != nil {
		t.Fatalf("ClosePageTree: %v", err)
	}
	val, err := doc.Get(rootRef)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val.(pdf.Dict)["Count"] != pdf.Integer(3) {
		t.Errorf("Count: got %v, want 3", val.(pdf.Dict)["Count"])
	}
}
