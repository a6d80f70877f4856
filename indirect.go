package pdf

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// IndirectObject is the envelope around a value that has been assigned an
// identity: its object number, generation number, and (for the purpose of
// writing) whether the slot is currently free.
type IndirectObject struct {
	Ref      Reference
	Value    Object
	Free     bool
	NextFree uint32 // meaningful only when Free is true
}

// ObjectStore is the flat (object#, generation#) -> value mapping shared
// by every section of a document. It resolves references but does not
// own objects; the owning FileSection does.
type ObjectStore struct {
	objects map[Reference]*IndirectObject
}

// NewObjectStore returns an empty store seeded with the mandatory zeroth
// object, (0, 65535), which is always free and heads the circular
// free-object list.
func NewObjectStore() *ObjectStore {
	s := &ObjectStore{objects: map[Reference]*IndirectObject{}}
	zero := NewReference(0, 65535)
	s.objects[zero] = &IndirectObject{Ref: zero, Free: true, NextFree: 0}
	return s
}

// Attach records obj under its reference. It is a BuildError to attach
// an object whose (object#, generation#) pair is already attached; the
// zeroth object (0, 65535) is the one exception and may be replaced.
func (s *ObjectStore) Attach(obj *IndirectObject) error {
	if existing, ok := s.objects[obj.Ref]; ok && existing.Ref != NewReference(0, 65535) {
		return &BuildError{Err: fmt.Errorf("object %s already attached", obj.Ref)}
	}
	s.objects[obj.Ref] = obj
	return nil
}

// Get resolves a reference to its indirect object, or nil if no object
// with that identity has been attached.
func (s *ObjectStore) Get(ref Reference) *IndirectObject {
	return s.objects[ref]
}

// References returns every attached reference in deterministic
// (object number, then generation) order, for tools that print or walk
// the whole store (e.g. pdfalcon-inspect).
func (s *ObjectStore) References() []Reference {
	refs := maps.Keys(s.objects)
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Number != refs[j].Number {
			return refs[i].Number < refs[j].Number
		}
		return refs[i].Generation < refs[j].Generation
	})
	return refs
}

// Resolve follows obj if it is a Reference, returning the referenced
// value; any other Object (including nil) is returned unchanged. Only a
// single level of indirection is followed, matching PDF's rule that
// indirect objects may not themselves resolve to another reference.
func (s *ObjectStore) Resolve(obj Object) (Object, error) {
	ref, ok := obj.(Reference)
	if !ok {
		return obj, nil
	}
	io := s.Get(ref)
	if io == nil {
		return nil, &MalformedFileError{Err: fmt.Errorf("dangling reference %s", ref)}
	}
	if _, isRef := io.Value.(Reference); isRef {
		return nil, &MalformedFileError{Err: fmt.Errorf("object %s resolves to another reference", ref)}
	}
	return io.Value, nil
}

// MalformedFileError indicates that a file being parsed violates PDF's
// structural invariants in a way that prevents the document from being
// materialised (a dangling /Root, a reference loop, a corrupt xref
// subsection header, and so on).
type MalformedFileError struct {
	Err error
	Pos int64
}

func (e *MalformedFileError) Error() string {
	msg := "pdf: malformed file: " + e.Err.Error()
	if e.Pos > 0 {
		msg += fmt.Sprintf(" (at byte %d)", e.Pos)
	}
	return msg
}

func (e *MalformedFileError) Unwrap() error { return e.Err }
