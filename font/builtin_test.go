package font

import (
	"testing"

	pdf "github.com/patrick-ryan/pdfalcon"
)

func TestCacheReusesReference(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	cache := NewCache(doc)

	ref1, err := cache.Ref("Helvetica")
	if err != nil {
		t.Fatalf("Ref: %v", err)
	}
	ref2, err := cache.Ref("Helvetica")
	if err != nil {
		t.Fatalf("Ref: %v", err)
	}
	if ref1 != ref2 {
		t.Errorf("Ref returned distinct references for the same font: %v != %v", ref1, ref2)
	}

	val, err := doc.Get(ref1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	dict := val.(pdf.Dict)
	if dict["BaseFont"] != pdf.Name("Helvetica") {
		t.Errorf("BaseFont: got %v", dict["BaseFont"])
	}
}

func TestCacheRejectsUnknownFont(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	cache := NewCache(doc)
	if _, err := cache.Ref("Comic-Sans"); err == nil {
		t.Fatal("expected an error for a non-standard font name")
	}
}

func TestIsStandard14(t *testing.T) {
	for _, name := range Standard14 {
		if !IsStandard14(name) {
			t.Errorf("IsStandard14(%q) = false, want true", name)
		}
	}
	if IsStandard14("Arial") {
		t.Error("IsStandard14(\"Arial\") = true, want false")
	}
}
