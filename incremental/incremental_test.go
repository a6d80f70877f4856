package incremental

import (
	"context"
	"testing"

	pdf "github.com/patrick-ryan/pdfalcon"
)

func TestValidateChain(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	rootRef := doc.Alloc()
	pagesRef := doc.Alloc()
	if err := doc.Put(pagesRef, pdf.Dict{"Type": pdf.Name("Pages"), "Kids": pdf.Array{}, "Count": pdf.Integer(0)}); err != nil {
		t.Fatalf("Put pages: %v", err)
	}
	if err := doc.Put(rootRef, pdf.Dict{"Type": pdf.Name("Catalog"), "Pages": pagesRef}); err != nil {
		t.Fatalf("Put catalog: %v", err)
	}

	Update(doc)
	extraRef := doc.Alloc()
	if err := doc.Put(extraRef, pdf.Dict{"Marker": pdf.Boolean(true)}); err != nil {
		t.Fatalf("Put extra: %v", err)
	}

	if err := ValidateChain(context.Background(), doc); err != nil {
		t.Fatalf("ValidateChain: %v", err)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("Sections: got %d, want 2 after Update", len(doc.Sections))
	}
}
