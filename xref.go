package pdf

import (
	"fmt"
	"io"
)

// XrefEntryType distinguishes the two kinds of cross-reference entry.
type XrefEntryType byte

const (
	XrefFree XrefEntryType = 'f'
	XrefInUse XrefEntryType = 'n'
)

// XrefEntry is one row of a cross-reference subsection: either
// (free, next-free-object#, generation#) or (in-use, byte-offset,
// generation#).
type XrefEntry struct {
	Type XrefEntryType
	// Offset holds the byte offset for an in-use entry, or the object
	// number of the next entry in the free list for a free entry.
	Offset     uint64
	Generation uint16
}

// XrefSubsection is a contiguous run of entries starting at First, with
// consecutive object numbers First, First+1, ..., First+len(Entries)-1.
type XrefSubsection struct {
	First   uint32
	Entries []XrefEntry
}

// XrefTable is the full "xref" section of one file section: zero or more
// subsections.
type XrefTable struct {
	Subsections []XrefSubsection
}

// Lookup returns the entry for the given object number and whether it was
// found in this table.
func (t *XrefTable) Lookup(number uint32) (XrefEntry, bool) {
	for _, sub := range t.Subsections {
		if number >= sub.First && number < sub.First+uint32(len(sub.Entries)) {
			return sub.Entries[number-sub.First], true
		}
	}
	return XrefEntry{}, false
}

// WriteXref writes the "xref" keyword, every subsection header and its
// 20-byte fixed-width entries.
func WriteXref(w io.Writer, t *XrefTable) error {
	if _, err := io.WriteString(w, "xref\n"); err != nil {
		return err
	}
	for _, sub := range t.Subsections {
		if _, err := fmt.Fprintf(w, "%d %d\n", sub.First, len(sub.Entries)); err != nil {
			return err
		}
		for _, e := range sub.Entries {
			line := formatXrefEntry(e)
			if _, err := w.Write(line); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatXrefEntry renders one entry as the mandated 20-byte fixed-width
// line "OOOOOOOOOO GGGGG X \n".
func formatXrefEntry(e XrefEntry) []byte {
	line := fmt.Sprintf("%010d %05d %c \n", e.Offset, e.Generation, byte(e.Type))
	b := []byte(line)
	if len(b) != 20 {
		// Defensive: offsets beyond 10 decimal digits cannot be
		// represented in the fixed-width classic xref table. Callers are
		// expected to keep file sizes within that bound, per spec.md's
		// non-goal of multi-gigabyte files.
		panic(fmt.Sprintf("xref entry does not fit in 20 bytes: %q", line))
	}
	return b
}

// ParseXref parses a single "xref" section (possibly with multiple
// subsections) starting at the scanner's current position.
func (s *scan) ParseXref() (*XrefTable, error) {
	tok, err := s.readRawToken()
	if err != nil {
		return nil, err
	}
	if kw, ok := tok.(keyword); !ok || kw != "xref" {
		return nil, newParseError(s.Pos(), "expected 'xref', got %#v", tok)
	}

	table := &XrefTable{}
	for {
		if err := s.skipWhitespace(); err != nil {
			return nil, err
		}
		b, err := s.peek()
		if err != nil {
			return nil, err
		}
		if !(b >= '0' && b <= '9') {
			break // "trailer" keyword follows
		}

		firstTok, err := s.readRawToken()
		if err != nil {
			return nil, err
		}
		first, ok := firstTok.(Integer)
		if !ok {
			return nil, newParseError(s.Pos(), "expected subsection first object number")
		}
		countTok, err := s.readRawToken()
		if err != nil {
			return nil, err
		}
		count, ok := countTok.(Integer)
		if !ok {
			return nil, newParseError(s.Pos(), "expected subsection entry count")
		}
		if count < 0 {
			return nil, newParseError(s.Pos(), "negative xref subsection count")
		}

		sub := XrefSubsection{First: uint32(first), Entries: make([]XrefEntry, count)}
		for i := 0; i < int(count); i++ {
			entry, err := s.parseXrefEntryLine()
			if err != nil {
				return nil, err
			}
			sub.Entries[i] = entry
		}
		table.Subsections = append(table.Subsections, sub)
	}
	return table, nil
}

// parseXrefEntryLine reads one xref entry as its three whitespace-separated
// fields (offset, generation, and the "n" or "f" type keyword) using the
// scanner's ordinary token reads; the fixed 20-byte width is not checked.
func (s *scan) parseXrefEntryLine() (XrefEntry, error) {
	if err := s.skipWhitespace(); err != nil {
		return XrefEntry{}, err
	}
	offTok, err := s.readRawToken()
	if err != nil {
		return XrefEntry{}, err
	}
	off, ok := offTok.(Integer)
	if !ok || off < 0 {
		return XrefEntry{}, newParseError(s.Pos(), "invalid xref offset")
	}
	genTok, err := s.readRawToken()
	if err != nil {
		return XrefEntry{}, err
	}
	gen, ok := genTok.(Integer)
	if !ok || gen < 0 {
		return XrefEntry{}, newParseError(s.Pos(), "invalid xref generation")
	}
	typeTok, err := s.readRawToken()
	if err != nil {
		return XrefEntry{}, err
	}
	kw, ok := typeTok.(keyword)
	if !ok || (kw != "n" && kw != "f") {
		return XrefEntry{}, newParseError(s.Pos(), "invalid xref entry type")
	}
	t := XrefFree
	if kw == "n" {
		t = XrefInUse
	}
	return XrefEntry{Type: t, Offset: uint64(off), Generation: uint16(gen)}, nil
}

// FreeList manages the circular singly-linked list of free object slots,
// rooted at the zeroth object (0, 65535).
type FreeList struct {
	// tail is the object number most recently linked into the list; the
	// next free() call sets that slot's next-free-object# to the newly
	// freed object, then advances tail.
	tail uint32
}

// NewFreeList returns a FreeList whose tail is initially the zeroth
// object, i.e. an empty list.
func NewFreeList() *FreeList {
	return &FreeList{tail: 0}
}

// Free marks ref's slot as free in store, appending it to the circular
// free list and bumping its generation (capped at 65535, at which point
// the slot is permanently retired and will not be reused). It returns the
// reference under which the freed slot is now attached (ref.Generation
// bumped by one).
func (f *FreeList) Free(store *ObjectStore, ref Reference) (Reference, error) {
	tailObj := store.Get(NewReference(f.tail, generationOfFreeSlot(store, f.tail)))
	if tailObj == nil {
		return Reference{}, &BuildError{Err: fmt.Errorf("free list tail object %d not found", f.tail)}
	}

	newGen := ref.Generation
	if newGen < 65535 {
		newGen++
	}

	freedRef := NewReference(ref.Number, newGen)
	freed := &IndirectObject{Ref: freedRef, Free: true, NextFree: 0}
	if err := store.Attach(freed); err != nil {
		// slot already attached under a different generation: overwrite,
		// since freeing an object transitions it regardless of prior
		// attachment bookkeeping for this generation value.
		store.objects[freedRef] = freed
	}

	tailObj.NextFree = ref.Number
	tailObj.Free = true
	f.tail = ref.Number
	return freedRef, nil
}

// generationOfFreeSlot finds the generation currently recorded for
// object number n's free slot, defaulting to 65535 for the zeroth object.
func generationOfFreeSlot(store *ObjectStore, n uint32) uint16 {
	for ref, obj := range store.objects {
		if ref.Number == n && obj.Free {
			return ref.Generation
		}
	}
	if n == 0 {
		return 65535
	}
	return 0
}

// Walk follows next-free-object# starting at the zeroth object and
// returns the freed object numbers in link order, without the zeroth
// object itself. It stops when the chain links back to 0, and fails if
// the chain reaches a missing object or revisits a slot before closing.
func (f *FreeList) Walk(store *ObjectStore) ([]uint32, error) {
	var seq []uint32
	cur := NewReference(0, 65535)
	seen := map[uint32]bool{}
	for {
		obj := store.Get(cur)
		if obj == nil {
			return nil, &MalformedFileError{Err: fmt.Errorf("broken free list at object %d", cur.Number)}
		}
		next := obj.NextFree
		if next == 0 {
			return seq, nil // closed the circle back to the zeroth object
		}
		if seen[next] {
			return nil, &MalformedFileError{Err: fmt.Errorf("free list cycle does not close at zero (revisited %d)", next)}
		}
		seen[next] = true
		seq = append(seq, next)
		nextGen := generationOfFreeSlot(store, next)
		cur = NewReference(next, nextGen)
	}
}
