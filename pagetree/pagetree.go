// Package pagetree builds the PDF page tree: the hierarchy of /Type
// /Pages nodes that groups a document's /Type /Page leaves and carries
// attributes (Resources, MediaBox) inherited down from parent to child.
package pagetree

import pdf "github.com/patrick-ryan/pdfalcon"

// maxDegree bounds how many kids a single Pages node may list directly
// before AppendPage starts a new sibling, keeping any one node's /Kids
// array from growing without bound in a large document.
const maxDegree = 16

// InheritableAttributes holds the subset of page attributes that PDF
// allows a parent Pages node to supply on behalf of every descendant
// leaf that does not override them: Resources and MediaBox.
type InheritableAttributes struct {
	Resources pdf.Dict
	MediaBox  pdf.Array
}

func (a *InheritableAttributes) apply(dict pdf.Dict) {
	if a == nil {
		return
	}
	if a.Resources != nil {
		if _, ok := dict["Resources"]; !ok {
			dict["Resources"] = a.Resources
		}
	}
	if a.MediaBox != nil {
		if _, ok := dict["MediaBox"]; !ok {
			dict["MediaBox"] = a.MediaBox
		}
	}
}

// node is one level of the tree under construction: a Pages dictionary
// accumulating kid references until it reaches maxDegree, at which point
// Writer starts a fresh sibling node and links both under their own
// parent once the top level also overflows.
type node struct {
	kids  []pdf.Reference
	count int
}

// Writer assembles a document's page tree incrementally as AppendPage is
// called, allocating intermediate Pages nodes as needed and writing the
// whole hierarchy out when Close is called.
type Writer struct {
	doc   *pdf.Document
	attrs *InheritableAttributes

	// levels[0] is the leaf level (kids are Page references directly);
	// levels[i] for i > 0 holds references to level i-1's flushed nodes.
	levels []*node
}

// NewWriter starts a page tree writer for doc. attrs, if non-nil, is
// attached to the root Pages node so every leaf inherits it unless it
// sets its own value.
func NewWriter(doc *pdf.Document, attrs *InheritableAttributes) *Writer {
	return &Writer{doc: doc, attrs: attrs, levels: []*node{{}}}
}

// AppendPage allocates a reference for dict (a /Type /Page dictionary,
// already populated with /Contents and any page-local /Resources or
// /MediaBox), writes it, and links it into the tree. It returns the
// reference so callers that pre-allocated one themselves can pass it
// separately via AppendPageRef.
func (w *Writer) AppendPage(dict pdf.Dict) (pdf.Reference, error) {
	ref := w.doc.Alloc()
	if err := w.AppendPageRef(ref, dict); err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}

// AppendPageRef links dict under ref (already allocated by the caller)
// and writes it as a leaf of the tree.
func (w *Writer) AppendPageRef(ref pdf.Reference, dict pdf.Dict) error {
	if dict["Type"] == nil {
		dict["Type"] = pdf.Name("Page")
	}
	if err := w.doc.Put(ref, dict); err != nil {
		return err
	}
	return w.link(0, ref, 1)
}

// link attaches ref as a kid of level's accumulator, flushing (and
// recursing one level up) whenever that accumulator reaches maxDegree.
// size is the number of leaf pages ref accounts for: 1 for a page
// reference linked at level 0, or the Count of the Pages node just
// flushed when link is called from flush to attach it one level up.
func (w *Writer) link(level int, ref pdf.Reference, size int) error {
	if level == len(w.levels) {
		w.levels = append(w.levels, &node{})
	}
	n := w.levels[level]
	n.kids = append(n.kids, ref)
	n.count += size
	if len(n.kids) < maxDegree {
		return nil
	}
	return w.flush(level)
}

// flush writes level's accumulated Pages node, resets the accumulator,
// and links the new node's reference into the level above.
func (w *Writer) flush(level int) error {
	n := w.levels[level]
	if len(n.kids) == 0 {
		return nil
	}
	kidsArray := make(pdf.Array, len(n.kids))
	for i, ref := range n.kids {
		kidsArray[i] = ref
	}
	dict := pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kidsArray,
		"Count": pdf.Integer(n.count),
	}
	ref := w.doc.Alloc()
	if err := w.doc.Put(ref, dict); err != nil {
		return err
	}
	w.levels[level] = &node{}
	return w.link(level+1, ref, n.count)
}

// Close flushes every pending level bottom-up and returns the reference
// of the root Pages node to be installed as the catalog's /Pages entry.
//
// Level 0 always gets flushed into a Pages node even when it holds a
// single kid, since its kids are bare Page references rather than
// already-wrapped Pages nodes. Above level 0, once a level holds exactly
// one kid and nothing pending sits above it, that kid is the collapsed
// root and flushing stops; otherwise every level with pending kids
// cascades into flush, which links its result one level up in turn.
func (w *Writer) Close() (pdf.Reference, error) {
	var rootRef pdf.Reference
	found := false
	for level := 0; level < len(w.levels); level++ {
		n := w.levels[level]
		if len(n.kids) == 0 {
			continue
		}
		if level > 0 && level == len(w.levels)-1 && len(n.kids) == 1 {
			rootRef = n.kids[0]
			found = true
			break
		}
		if err := w.flush(level); err != nil {
			return pdf.Reference{}, err
		}
	}

	if !found {
		// No pages were ever appended; synthesize an empty root so
		// Close always succeeds with a usable /Pages reference.
		root := pdf.Dict{"Type": pdf.Name("Pages"), "Kids": pdf.Array{}, "Count": pdf.Integer(0)}
		w.attrs.apply(root)
		ref := w.doc.Alloc()
		if err := w.doc.Put(ref, root); err != nil {
			return pdf.Reference{}, err
		}
		return ref, nil
	}

	// The root dict already sits in the document (flush wrote it before
	// the final shape of the tree was known); apply the inherited
	// attributes to it now by mutating the dict in place, since Dict is
	// backed by a map and Get returns that same map, not a copy.
	val, err := w.doc.Get(rootRef)
	if err != nil {
		return pdf.Reference{}, err
	}
	if dict, ok := val.(pdf.Dict); ok {
		w.attrs.apply(dict)
	}
	return rootRef, nil
}
