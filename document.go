package pdf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// binaryMarker is the conventional four high-bit bytes written as a
// comment on the second header line, signalling to transfer agents that
// the file contains binary data. Neither spec.md nor the original
// implementation mandates this line; pdfalcon emits it because every
// real-world PDF consumer expects to see one (see DESIGN.md's note on
// this Open Question).
var binaryMarker = []byte{0xE2, 0xE3, 0xCF, 0xD3}

// Source is what ReadDocument needs from the underlying file: random
// access for the reverse scan that locates the trailing xref chain, plus
// the ordinary Seek used while walking it forward again.
type Source interface {
	io.ReaderAt
	io.ReadSeeker
}

// Document is the in-memory model of a complete PDF file: an object
// store shared across every section, plus the ordered chain of sections
// (the original body and, after calls to NewUpdate, each incremental
// update layered on top of it).
type Document struct {
	Version  Version
	Store    *ObjectStore
	Freelist *FreeList
	Sections []*FileSection

	nextObjectNumber uint32
	active           *FileSection
	info             Reference // set by SetInfo; see infoext.go
}

// NewDocument starts a brand-new document at the given PDF version, with
// a single original section, holding only the zeroth object, ready to
// receive objects.
func NewDocument(version Version) *Document {
	sec := newFileSection()
	store := NewObjectStore()
	// The zeroth object is mandatory in every xref table (it heads the
	// free-object list); register it with the original section now so
	// Write's first section always emits its entry, instead of relying
	// on some later Free call to do so.
	sec.put(store.Get(NewReference(0, 65535)))
	return &Document{
		Version:          version,
		Store:            store,
		Freelist:         NewFreeList(),
		Sections:         []*FileSection{sec},
		nextObjectNumber: 1,
		active:           sec,
	}
}

// Alloc reserves the next unused object number, generation 0.
func (d *Document) Alloc() Reference {
	ref := NewReference(d.nextObjectNumber, 0)
	d.nextObjectNumber++
	return ref
}

// Put attaches val under ref within the currently active section
// (the original section, or the most recent call to NewUpdate). A ref
// already defined by an earlier section is redefined in the active one;
// defining the same ref twice within one section is a BuildError.
func (d *Document) Put(ref Reference, val Object) error {
	obj := &IndirectObject{Ref: ref, Value: val}
	if _, inActive := d.active.Objects[ref]; !inActive && d.Store.Get(ref) != nil {
		d.Store.objects[ref] = obj
	} else if err := d.Store.Attach(obj); err != nil {
		return err
	}
	d.active.put(obj)
	return nil
}

// Get resolves ref to its value, or returns a MalformedFileError if
// nothing is attached under that identity.
func (d *Document) Get(ref Reference) (Object, error) {
	return d.Store.Resolve(ref)
}

// Free marks ref's slot as free, recording the change as an update to
// the currently active section's free list linkage.
func (d *Document) Free(ref Reference) error {
	// Free mutates the current free-list tail's slot in place (its
	// NextFree/Free fields), linking it to the newly freed object; that
	// tail object may belong to an earlier, already-written section (or
	// be the zeroth object registered by NewDocument), so it must be
	// re-registered into the active section too, or its updated link is
	// lost the next time Write serializes that earlier section's objects.
	oldTailRef := NewReference(d.Freelist.tail, generationOfFreeSlot(d.Store, d.Freelist.tail))
	freedRef, err := d.Freelist.Free(d.Store, ref)
	if err != nil {
		return err
	}
	d.active.put(d.Store.Get(oldTailRef))
	d.active.put(d.Store.Get(freedRef))
	return nil
}

// OpenStream resolves ref, which must be a Stream, and returns its fully
// decoded payload (every filter in its /Filter chain applied in order).
func (d *Document) OpenStream(ref Reference) ([]byte, error) {
	obj, err := d.Get(ref)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(*Stream)
	if !ok {
		return nil, &ValueError{Err: fmt.Errorf("object %s is not a stream", ref)}
	}
	return DecodeStreamData(s, 0)
}

// NewUpdate starts a new incremental-update section. Subsequent calls to
// Put and Free attach to this new section until the next NewUpdate.
func (d *Document) NewUpdate() {
	sec := newFileSection()
	d.Sections = append(d.Sections, sec)
	d.active = sec
}

// Write serialises every section of the document, in chronological
// order, producing a byte-identical-on-replay PDF file: header, each
// section's body/xref/trailer block, ending in the final %%EOF.
func (d *Document) Write(w io.Writer, root, info Reference, id [2]HexString) error {
	cw := &countingWriter{w: w}

	if _, err := fmt.Fprintf(cw, "%%PDF-%s\n%%", d.Version.String()); err != nil {
		return err
	}
	if _, err := cw.Write(binaryMarker); err != nil {
		return err
	}
	if _, err := cw.Write([]byte("\n")); err != nil {
		return err
	}

	var prevXrefOffset *int64
	// highest (and so /Size) is tracked cumulatively as sections are
	// visited, not computed once from the whole document: a section's
	// serialized bytes must not change depending on how many later
	// sections now follow it, and /Size is conventionally the highest
	// object number known as of that particular revision.
	highest := uint32(0)

	for _, sec := range d.Sections {
		for _, ref := range sec.Order {
			if ref.Number > highest {
				highest = ref.Number
			}
		}

		writeOrder := append([]Reference(nil), sec.Order...)
		sort.Slice(writeOrder, func(i, j int) bool {
			if writeOrder[i].Number != writeOrder[j].Number {
				return writeOrder[i].Number < writeOrder[j].Number
			}
			return writeOrder[i].Generation < writeOrder[j].Generation
		})

		offsets := make(map[Reference]int64, len(writeOrder))
		for _, ref := range writeOrder {
			obj := sec.Objects[ref]
			if obj.Free {
				continue
			}
			offsets[ref] = cw.n
			if _, err := fmt.Fprintf(cw, "%d %d obj\n", ref.Number, ref.Generation); err != nil {
				return err
			}
			if err := WriteObject(cw, obj.Value); err != nil {
				return err
			}
			if _, err := io.WriteString(cw, "\nendobj\n"); err != nil {
				return err
			}
		}

		xrefOffset := cw.n
		xref := sec.buildXref(offsets, highest)
		sec.Xref = xref
		sec.xrefOffset = xrefOffset
		if err := WriteXref(cw, xref); err != nil {
			return err
		}

		// Info and ID are set on every section's trailer, not just the
		// final one: /ID is copied unchanged across incremental updates,
		// and each call to Write must reproduce byte-identical bytes for
		// a section it has already written, regardless of how many later
		// sections now follow it.
		trailer := &Trailer{Size: int(highest) + 1, Root: root, Prev: prevXrefOffset, Info: info, ID: id}
		sec.Trailer = trailer
		if err := WriteTrailer(cw, trailer, xrefOffset); err != nil {
			return err
		}
		off := xrefOffset
		prevXrefOffset = &off
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// ReadDocument parses a complete PDF file from r, following the trailer
// chain from the final xref table back through every /Prev-linked
// incremental update, and attaching every in-use object it finds along
// the way.
func ReadDocument(r Source) (*Document, error) {
	size, err := streamSize(r)
	if err != nil {
		return nil, err
	}

	version, err := readHeaderVersion(r)
	if err != nil {
		return nil, err
	}

	startxrefOffset, err := locateStartxref(r, size)
	if err != nil {
		return nil, err
	}

	doc := NewDocument(version)
	doc.Store = NewObjectStore()
	doc.Sections = nil

	s := newScan(r)

	merged := map[uint32]XrefEntry{}
	var trailers []*Trailer
	seen := map[int64]bool{}
	offset := startxrefOffset

	for {
		if seen[offset] {
			return nil, &MalformedFileError{Err: fmt.Errorf("cyclic /Prev chain at offset %d", offset)}
		}
		seen[offset] = true

		if err := s.SeekTo(offset); err != nil {
			return nil, &IOError{Err: err}
		}
		xref, err := s.ParseXref()
		if err != nil {
			return nil, err
		}
		if err := s.skipWhitespace(); err != nil {
			return nil, err
		}
		tok, err := s.readRawToken()
		if err != nil {
			return nil, err
		}
		if kw, ok := tok.(keyword); !ok || kw != "trailer" {
			return nil, newParseError(s.Pos(), "expected 'trailer', got %#v", tok)
		}
		trailerObj, err := s.ParseObject()
		if err != nil {
			return nil, err
		}
		dict, ok := trailerObj.(Dict)
		if !ok {
			return nil, &MalformedFileError{Err: fmt.Errorf("trailer is not a dictionary")}
		}
		trailer, err := trailerFromDict(dict)
		if err != nil {
			return nil, err
		}
		trailers = append(trailers, trailer)

		for _, sub := range xref.Subsections {
			for i, e := range sub.Entries {
				num := sub.First + uint32(i)
				if _, already := merged[num]; !already {
					merged[num] = e
				}
			}
		}

		if trailer.Prev == nil {
			break
		}
		offset = *trailer.Prev
	}

	if len(trailers) == 0 {
		return nil, &MalformedFileError{Err: fmt.Errorf("no trailer found")}
	}
	newest := trailers[0]

	sec := newFileSection()
	numbers := maps.Keys(merged)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for _, num := range numbers {
		e := merged[num]
		if e.Type == XrefFree {
			ref := NewReference(num, e.Generation)
			obj := &IndirectObject{Ref: ref, Free: true, NextFree: uint32(e.Offset)}
			doc.Store.objects[ref] = obj
			sec.put(obj)
			continue
		}
		if err := s.SeekTo(int64(e.Offset)); err != nil {
			return nil, &IOError{Err: err}
		}
		ref, val, err := s.ParseIndirectObject()
		if err != nil {
			return nil, err
		}
		if ref.Number != num {
			return nil, &MalformedFileError{Err: fmt.Errorf("xref entry for object %d points at object %d", num, ref.Number)}
		}
		obj := &IndirectObject{Ref: ref, Value: val}
		doc.Store.objects[ref] = obj
		sec.put(obj)
		if ref.Number >= doc.nextObjectNumber {
			doc.nextObjectNumber = ref.Number + 1
		}
	}
	sec.Trailer = newest
	doc.Sections = []*FileSection{sec}
	doc.active = sec

	if _, err := doc.Store.Resolve(newest.Root); err != nil {
		return nil, err
	}

	return doc, nil
}

func streamSize(r io.ReadSeeker) (int64, error) {
	return r.Seek(0, io.SeekEnd)
}

func readHeaderVersion(r io.ReadSeeker) (Version, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Version{}, &IOError{Err: err}
	}
	br := bufio.NewReader(io.LimitReader(r, 32))
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return Version{}, &MalformedFileError{Err: fmt.Errorf("cannot read header: %w", err)}
	}
	line = strings.TrimRight(line, "\r\n")
	const prefix = "%PDF-"
	if !strings.HasPrefix(line, prefix) {
		return Version{}, &MalformedFileError{Err: fmt.Errorf("missing %%PDF- header")}
	}
	return ParseVersion(strings.TrimPrefix(line, prefix))
}

// locateStartxref finds the final "startxref\n<offset>" pair by scanning
// backward from the end of the file, without reading the whole file into
// memory.
func locateStartxref(r io.ReaderAt, size int64) (int64, error) {
	lr := newLineReaderReverse(r, size)
	for {
		line, err := lr.Next()
		if err != nil {
			return 0, &MalformedFileError{Err: fmt.Errorf("missing startxref: %w", err)}
		}
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" || trimmed == "%%EOF" {
			continue
		}
		offsetLine := trimmed
		prevLine, err := lr.Next()
		if err != nil {
			return 0, &MalformedFileError{Err: fmt.Errorf("missing startxref: %w", err)}
		}
		if strings.TrimSpace(string(prevLine)) != "startxref" {
			return 0, &MalformedFileError{Err: fmt.Errorf("expected 'startxref', found %q", prevLine)}
		}
		var offset int64
		if _, err := fmt.Sscanf(offsetLine, "%d", &offset); err != nil {
			return 0, &MalformedFileError{Err: fmt.Errorf("invalid startxref offset %q", offsetLine)}
		}
		return offset, nil
	}
}
