package pdf

import "testing"

// TestBuildXrefContiguousRuns verifies that an update touching a
// non-contiguous set of object numbers produces one subsection per
// contiguous run, without fabricating free entries for object numbers the
// section never touched.
func TestBuildXrefContiguousRuns(t *testing.T) {
	sec := newFileSection()
	sec.put(&IndirectObject{Ref: NewReference(1, 0), Value: Integer(1)})
	sec.put(&IndirectObject{Ref: NewReference(2, 0), Value: Integer(2)})
	sec.put(&IndirectObject{Ref: NewReference(9, 0), Value: Integer(9)})

	offsets := map[Reference]int64{
		NewReference(1, 0): 10,
		NewReference(2, 0): 20,
		NewReference(9, 0): 90,
	}

	xref := sec.buildXref(offsets, 9)
	if len(xref.Subsections) != 2 {
		t.Fatalf("got %d subsections, want 2 (one for [1,2], one for [9,9]): %+v", len(xref.Subsections), xref.Subsections)
	}

	first := xref.Subsections[0]
	if first.First != 1 || len(first.Entries) != 2 {
		t.Fatalf("first subsection: got First=%d len=%d, want First=1 len=2", first.First, len(first.Entries))
	}
	second := xref.Subsections[1]
	if second.First != 9 || len(second.Entries) != 1 {
		t.Fatalf("second subsection: got First=%d len=%d, want First=9 len=1", second.First, len(second.Entries))
	}

	// Object numbers 3 through 8 sit strictly between the two runs and
	// were never touched by this section; they must not appear anywhere
	// in the emitted table.
	for _, sub := range xref.Subsections {
		for i := range sub.Entries {
			n := sub.First + uint32(i)
			if n >= 3 && n <= 8 {
				t.Errorf("untouched object %d fabricated into the xref table", n)
			}
		}
	}
}

// TestBuildXrefHighestGenerationWins verifies that when a section records
// more than one generation of the same object number (a Put followed by a
// Free within the same section), the highest generation's entry wins
// deterministically rather than depending on map iteration order.
func TestBuildXrefHighestGenerationWins(t *testing.T) {
	sec := newFileSection()
	sec.put(&IndirectObject{Ref: NewReference(5, 0), Value: Integer(5)})
	sec.put(&IndirectObject{Ref: NewReference(5, 1), Free: true, NextFree: 0})

	xref := sec.buildXref(map[Reference]int64{NewReference(5, 0): 50}, 5)
	if len(xref.Subsections) != 1 || len(xref.Subsections[0].Entries) != 1 {
		t.Fatalf("unexpected table shape: %+v", xref.Subsections)
	}
	entry := xref.Subsections[0].Entries[0]
	if entry.Type != XrefFree || entry.Generation != 1 {
		t.Errorf("entry: got %+v, want the free generation-1 entry", entry)
	}
}
