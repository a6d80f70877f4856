package pagetree

import (
	"testing"

	pdf "github.com/patrick-ryan/pdfalcon"
)

func TestWriterBalance(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	mediaBox := pdf.Array{pdf.Real(0), pdf.Real(0), pdf.Real(612), pdf.Real(792)}
	w := NewWriter(doc, &InheritableAttributes{MediaBox: mediaBox})

	const n = 16*16 + 3 // force at least two levels of interior nodes
	for i := 0; i < n; i++ {
		if _, err := w.AppendPage(pdf.Dict{"Type": pdf.Name("Page")}); err != nil {
			t.Fatalf("AppendPage %d: %v", i, err)
		}
	}

	rootRef, err := w.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	leaves := 0
	var walk func(ref pdf.Reference) error
	walk = func(ref pdf.Reference) error {
		val, err := doc.Get(ref)
		if err != nil {
			return err
		}
		dict := val.(pdf.Dict)
		switch dict["Type"] {
		case pdf.Name("Pages"):
			for _, kid := range dict["Kids"].(pdf.Array) {
				if err := walk(kid.(pdf.Reference)); err != nil {
					return err
				}
			}
		case pdf.Name("Page"):
			leaves++
		}
		return nil
	}
	if err := walk(rootRef); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if leaves != n {
		t.Errorf("leaves: got %d, want %d", leaves, n)
	}

	root, err := doc.Get(rootRef)
	if err != nil {
		t.Fatalf("Get root: %v", err)
	}
	if root.(pdf.Dict)["MediaBox"] == nil {
		t.Error("root Pages node missing inherited MediaBox")
	}
}

func TestWriterEmpty(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	w := NewWriter(doc, nil)
	ref, err := w.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	val, err := doc.Get(ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	dict := val.(pdf.Dict)
	if dict["Count"] != pdf.Integer(0) {
		t.Errorf("Count: got %v, want 0", dict["Count"])
	}
}
