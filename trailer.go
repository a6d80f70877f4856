package pdf

import (
	"fmt"
	"io"
)

// Trailer is the metadata block at the end of a file section: it points
// at the catalog and (for update sections) at the previous section's
// xref offset.
type Trailer struct {
	Size int        // one more than the highest object number in use
	Root Reference   // indirect reference to the Catalog
	Info Reference   // indirect reference to the document information dict, or zero
	Prev *int64      // byte offset of the previous section's xref, nil for the original section
	ID   [2]HexString // file identifier, as passed to Document.Write; every section's trailer gets the same pair
}

// ToDict materialises the trailer as a PDF dictionary.
func (t *Trailer) ToDict() Dict {
	d := Dict{
		"Size": Integer(t.Size),
		"Root": t.Root,
	}
	if !t.Info.IsZero() {
		d["Info"] = t.Info
	}
	if t.Prev != nil {
		d["Prev"] = Integer(*t.Prev)
	}
	if len(t.ID[0]) > 0 || len(t.ID[1]) > 0 {
		d["ID"] = Array{t.ID[0], t.ID[1]}
	}
	return d
}

// WriteTrailer writes the "trailer" keyword, its dictionary, "startxref",
// the given xref offset, and the final "%%EOF" marker.
func WriteTrailer(w io.Writer, t *Trailer, xrefOffset int64) error {
	if _, err := io.WriteString(w, "trailer\n"); err != nil {
		return err
	}
	if err := formatDict(w, t.ToDict(), 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset); err != nil {
		return err
	}
	return nil
}

// trailerFromDict builds a Trailer from a parsed dictionary, validating
// the required /Root and /Size entries.
func trailerFromDict(d Dict) (*Trailer, error) {
	t := &Trailer{}

	size, ok := d["Size"].(Integer)
	if !ok {
		return nil, &MalformedFileError{Err: fmt.Errorf("trailer missing integer /Size")}
	}
	t.Size = int(size)

	root, ok := d["Root"].(Reference)
	if !ok {
		return nil, &MalformedFileError{Err: fmt.Errorf("trailer missing /Root reference")}
	}
	t.Root = root

	if info, ok := d["Info"].(Reference); ok {
		t.Info = info
	}

	if prev, ok := d["Prev"].(Integer); ok {
		v := int64(prev)
		t.Prev = &v
	}

	if idArr, ok := d["ID"].(Array); ok && len(idArr) == 2 {
		if a, ok := idArr[0].(HexString); ok {
			t.ID[0] = a
		} else if a, ok := idArr[0].(String); ok {
			t.ID[0] = HexString(a)
		}
		if b, ok := idArr[1].(HexString); ok {
			t.ID[1] = b
		} else if b, ok := idArr[1].(String); ok {
			t.ID[1] = HexString(b)
		}
	}

	return t, nil
}
