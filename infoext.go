package pdf

import "fmt"

// Info is the document information dictionary conventionally stored at
// the trailer's /Info entry: the handful of descriptive text fields
// every real-world PDF viewer surfaces (title, author, producer, ...),
// plus any custom entries a producer chooses to add. Mirrors the shape
// of the teacher's own Info struct (Title/Author/Subject/Keywords/
// Creator/Producer/CreationDate/ModDate/Custom).
type Info struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate string // PDF date string, e.g. "D:20240115120000Z"
	ModDate      string
	Custom       map[string]string
}

// ToDict renders info as the Dict that goes into the /Info indirect
// object; empty fields are omitted.
func (info *Info) ToDict() Dict {
	dict := Dict{}
	if info.Title != "" {
		dict["Title"] = String(info.Title)
	}
	if info.Author != "" {
		dict["Author"] = String(info.Author)
	}
	if info.Subject != "" {
		dict["Subject"] = String(info.Subject)
	}
	if info.Keywords != "" {
		dict["Keywords"] = String(info.Keywords)
	}
	if info.Creator != "" {
		dict["Creator"] = String(info.Creator)
	}
	if info.Producer != "" {
		dict["Producer"] = String(info.Producer)
	}
	if info.CreationDate != "" {
		dict["CreationDate"] = String(info.CreationDate)
	}
	if info.ModDate != "" {
		dict["ModDate"] = String(info.ModDate)
	}
	for key, val := range info.Custom {
		dict[Name(key)] = String(val)
	}
	return dict
}

// infoFromDict reverses ToDict, recognising the known text fields and
// collecting anything else into Custom.
func infoFromDict(dict Dict) *Info {
	known := map[Name]bool{
		"Title": true, "Author": true, "Subject": true, "Keywords": true,
		"Creator": true, "Producer": true, "CreationDate": true, "ModDate": true,
	}
	info := &Info{}
	for key, val := range dict {
		s, ok := val.(String)
		if !ok {
			continue
		}
		switch key {
		case "Title":
			info.Title = string(s)
		case "Author":
			info.Author = string(s)
		case "Subject":
			info.Subject = string(s)
		case "Keywords":
			info.Keywords = string(s)
		case "Creator":
			info.Creator = string(s)
		case "Producer":
			info.Producer = string(s)
		case "CreationDate":
			info.CreationDate = string(s)
		case "ModDate":
			info.ModDate = string(s)
		default:
			if !known[key] {
				if info.Custom == nil {
					info.Custom = map[string]string{}
				}
				info.Custom[string(key)] = string(s)
			}
		}
	}
	return info
}

// GetInfo resolves the document's /Info entry (as recorded in its most
// recently written or read trailer) into an *Info. It returns nil,
// nil if the document carries no /Info entry at all.
func (d *Document) GetInfo() (*Info, error) {
	ref := d.infoRef()
	if ref == (Reference{}) {
		return nil, nil
	}
	val, err := d.Get(ref)
	if err != nil {
		return nil, err
	}
	dict, ok := val.(Dict)
	if !ok {
		return nil, &ValueError{Err: fmt.Errorf("Info object is %T, not Dict", val)}
	}
	return infoFromDict(dict), nil
}

// SetInfo attaches info as the document's /Info object within the
// currently active section, allocating a fresh reference the first time
// and reusing the existing one on subsequent calls (so that repeated
// calls to SetInfo across incremental updates still point the trailer's
// /Info at the same logical object, redefined in the new section).
func (d *Document) SetInfo(info *Info) (Reference, error) {
	ref := d.infoRef()
	if ref == (Reference{}) {
		ref = d.Alloc()
		d.info = ref
	}
	if err := d.Put(ref, info.ToDict()); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// infoRef reports the /Info reference this document currently knows
// about: the one set by SetInfo, or (after ReadDocument) the one
// recorded in the newest section's trailer.
func (d *Document) infoRef() Reference {
	if d.info != (Reference{}) {
		return d.info
	}
	if len(d.Sections) > 0 {
		last := d.Sections[len(d.Sections)-1]
		if last.Trailer != nil {
			return last.Trailer.Info
		}
	}
	return Reference{}
}
