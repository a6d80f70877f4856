package pdf

import (
	"bytes"
	"testing"
)

func TestDocumentWriteReadRoundTrip(t *testing.T) {
	doc := NewDocument(V1_7)

	pagesRef := doc.Alloc()
	pageRef := doc.Alloc()
	rootRef := doc.Alloc()
	infoRef := doc.Alloc()

	if err := doc.Put(pageRef, Dict{
		"Type":     Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": Array{Integer(0), Integer(0), Integer(612), Integer(792)},
	}); err != nil {
		t.Fatalf("Put page: %v", err)
	}
	if err := doc.Put(pagesRef, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{pageRef},
		"Count": Integer(1),
	}); err != nil {
		t.Fatalf("Put pages: %v", err)
	}
	if err := doc.Put(rootRef, Dict{
		"Type":  Name("Catalog"),
		"Pages": pagesRef,
	}); err != nil {
		t.Fatalf("Put catalog: %v", err)
	}
	if err := doc.Put(infoRef, Dict{
		"Title": String("test"),
	}); err != nil {
		t.Fatalf("Put info: %v", err)
	}

	var buf bytes.Buffer
	id := [2]HexString{HexString("0123456789ABCDEF"), HexString("0123456789ABCDEF")}
	if err := doc.Write(&buf, rootRef, infoRef, id); err != nil {
		t.Fatalf("Write: %v", err)
	}

	readBack, err := ReadDocument(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadDocument: %v\n%s", err, buf.String())
	}

	if readBack.Version != V1_7 {
		t.Errorf("version: got %v, want %v", readBack.Version, V1_7)
	}

	root, err := readBack.Get(rootRef)
	if err != nil {
		t.Fatalf("Get root: %v", err)
	}
	catalog, ok := root.(Dict)
	if !ok {
		t.Fatalf("root is %T, want Dict", root)
	}
	if catalog["Type"] != Name("Catalog") {
		t.Errorf("catalog Type: got %v", catalog["Type"])
	}

	page, err := readBack.Get(pageRef)
	if err != nil {
		t.Fatalf("Get page: %v", err)
	}
	pageDict, ok := page.(Dict)
	if !ok {
		t.Fatalf("page is %T, want Dict", page)
	}
	if pageDict["Type"] != Name("Page") {
		t.Errorf("page Type: got %v", pageDict["Type"])
	}
}

func TestDocumentIncrementalUpdate(t *testing.T) {
	doc := NewDocument(V1_7)
	rootRef := doc.Alloc()
	pagesRef := doc.Alloc()

	if err := doc.Put(pagesRef, Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)}); err != nil {
		t.Fatalf("Put pages: %v", err)
	}
	if err := doc.Put(rootRef, Dict{"Type": Name("Catalog"), "Pages": pagesRef}); err != nil {
		t.Fatalf("Put catalog: %v", err)
	}

	var firstBuf bytes.Buffer
	id := [2]HexString{HexString("00"), HexString("00")}
	if err := doc.Write(&firstBuf, rootRef, Reference{}, id); err != nil {
		t.Fatalf("first Write: %v", err)
	}

	doc.NewUpdate()
	extraRef := doc.Alloc()
	if err := doc.Put(extraRef, Dict{"Marker": Boolean(true)}); err != nil {
		t.Fatalf("Put extra: %v", err)
	}

	var secondBuf bytes.Buffer
	if err := doc.Write(&secondBuf, rootRef, Reference{}, id); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	readBack, err := ReadDocument(bytes.NewReader(secondBuf.Bytes()))
	if err != nil {
		t.Fatalf("ReadDocument: %v\n%s", err, secondBuf.String())
	}

	extra, err := readBack.Get(extraRef)
	if err != nil {
		t.Fatalf("Get extra: %v", err)
	}
	if d, ok := extra.(Dict); !ok || d["Marker"] != Boolean(true) {
		t.Errorf("extra object not preserved across incremental update: %v", extra)
	}

	// An incremental update must only append bytes: the first section's
	// serialized bytes (header through its own trailer) must reappear
	// byte-for-byte as a prefix of the second write, which re-serializes
	// every section from scratch each time Write is called.
	if !bytes.HasPrefix(secondBuf.Bytes(), firstBuf.Bytes()) {
		t.Errorf("second write is not a byte-identical extension of the first write")
	}
}

// TestDocumentFreeRoundTrip exercises Document.Free end to end: freeing an
// object must survive a Write/ReadDocument round trip with its free-list
// linkage intact, including the mandatory zeroth object's entry.
func TestDocumentFreeRoundTrip(t *testing.T) {
	doc := NewDocument(V1_7)
	rootRef := doc.Alloc()
	pagesRef := doc.Alloc()
	deadRef := doc.Alloc()

	if err := doc.Put(pagesRef, Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)}); err != nil {
		t.Fatalf("Put pages: %v", err)
	}
	if err := doc.Put(rootRef, Dict{"Type": Name("Catalog"), "Pages": pagesRef}); err != nil {
		t.Fatalf("Put catalog: %v", err)
	}
	if err := doc.Put(deadRef, Dict{"Marker": Boolean(true)}); err != nil {
		t.Fatalf("Put dead: %v", err)
	}
	if err := doc.Free(deadRef); err != nil {
		t.Fatalf("Free: %v", err)
	}

	var buf bytes.Buffer
	id := [2]HexString{HexString("00"), HexString("00")}
	if err := doc.Write(&buf, rootRef, Reference{}, id); err != nil {
		t.Fatalf("Write: %v", err)
	}

	readBack, err := ReadDocument(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadDocument: %v\n%s", err, buf.String())
	}

	seq, err := readBack.Freelist.Walk(readBack.Store)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(seq) != 1 || seq[0] != deadRef.Number {
		t.Errorf("Walk: got %v, want a single-entry chain [%d]", seq, deadRef.Number)
	}
}

// TestDocumentInfoRoundTrip exercises Document.SetInfo/GetInfo end to end,
// including surviving a Write/ReadDocument round trip via the trailer's
// /Info entry.
func TestDocumentInfoRoundTrip(t *testing.T) {
	doc := NewDocument(V1_7)
	rootRef := doc.Alloc()
	pagesRef := doc.Alloc()
	if err := doc.Put(pagesRef, Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)}); err != nil {
		t.Fatalf("Put pages: %v", err)
	}
	if err := doc.Put(rootRef, Dict{"Type": Name("Catalog"), "Pages": pagesRef}); err != nil {
		t.Fatalf("Put catalog: %v", err)
	}

	want := &Info{Title: "Test Title", Author: "Test Author", Custom: map[string]string{"Tag": "value"}}
	infoRef, err := doc.SetInfo(want)
	if err != nil {
		t.Fatalf("SetInfo: %v", err)
	}

	got, err := doc.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo (pre-write): %v", err)
	}
	if got.Title != want.Title || got.Author != want.Author {
		t.Errorf("GetInfo (pre-write): got %+v, want %+v", got, want)
	}

	var buf bytes.Buffer
	id := [2]HexString{HexString("00"), HexString("00")}
	if err := doc.Write(&buf, rootRef, infoRef, id); err != nil {
		t.Fatalf("Write: %v", err)
	}

	readBack, err := ReadDocument(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadDocument: %v\n%s", err, buf.String())
	}
	gotBack, err := readBack.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo (post-read): %v", err)
	}
	if gotBack == nil {
		t.Fatal("GetInfo (post-read): got nil, want the written Info")
	}
	if gotBack.Title != want.Title || gotBack.Author != want.Author {
		t.Errorf("GetInfo (post-read): got %+v, want %+v", gotBack, want)
	}
	if gotBack.Custom["Tag"] != "value" {
		t.Errorf("GetInfo (post-read): custom field not preserved, got %v", gotBack.Custom)
	}
}
