package pdf

import (
	"bytes"
	"testing"
)

func TestFreeListWalk(t *testing.T) {
	store := NewObjectStore()
	fl := NewFreeList()

	for n := uint32(1); n <= 3; n++ {
		ref := NewReference(n, 0)
		if err := store.Attach(&IndirectObject{Ref: ref, Value: Integer(n)}); err != nil {
			t.Fatalf("Attach %d: %v", n, err)
		}
	}

	var freed []Reference
	for n := uint32(1); n <= 3; n++ {
		ref, err := fl.Free(store, NewReference(n, 0))
		if err != nil {
			t.Fatalf("Free %d: %v", n, err)
		}
		freed = append(freed, ref)
	}

	seq, err := fl.Walk(store)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(seq) != 3 {
		t.Fatalf("Walk returned %d entries, want 3", len(seq))
	}
	for i, n := range seq {
		if n != uint32(i+1) {
			t.Errorf("Walk[%d] = %d, want %d", i, n, i+1)
		}
	}

	for i, ref := range freed {
		if ref.Generation != 1 {
			t.Errorf("freed[%d].Generation = %d, want 1", i, ref.Generation)
		}
	}
}

func TestFreeListGenerationCap(t *testing.T) {
	store := NewObjectStore()
	fl := NewFreeList()
	ref := NewReference(1, 65535)
	if err := store.Attach(&IndirectObject{Ref: ref, Value: Integer(1)}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	freed, err := fl.Free(store, ref)
	if err != nil {
		t.Fatalf("Free: %v", err)
	}
	if freed.Generation != 65535 {
		t.Errorf("Generation = %d, want capped at 65535", freed.Generation)
	}
}

func TestXrefRoundTrip(t *testing.T) {
	table := &XrefTable{
		Subsections: []XrefSubsection{
			{First: 0, Entries: []XrefEntry{
				{Type: XrefFree, Offset: 0, Generation: 65535},
				{Type: XrefInUse, Offset: 17, Generation: 0},
				{Type: XrefInUse, Offset: 81, Generation: 0},
			}},
		},
	}

	var buf bytes.Buffer
	if err := WriteXref(&buf, table); err != nil {
		t.Fatalf("WriteXref: %v", err)
	}
	buf.WriteString("trailer\n")

	s := newScan(bytes.NewReader(buf.Bytes()))
	parsed, err := s.ParseXref()
	if err != nil {
		t.Fatalf("ParseXref: %v\n%s", err, buf.String())
	}
	if len(parsed.Subsections) != 1 || len(parsed.Subsections[0].Entries) != 3 {
		t.Fatalf("parsed table shape mismatch: %+v", parsed)
	}
	for i, e := range parsed.Subsections[0].Entries {
		want := table.Subsections[0].Entries[i]
		if e != want {
			t.Errorf("entry %d: got %+v, want %+v", i, e, want)
		}
	}
}
