package submission

import "github.com/theballaam96/candyctl/internal/catalog"

// Header is one field a submitter may write in the PR body.
type Header struct {
	Name      string
	Mandatory bool
}

// Headers is the upload schema. Derived fields (Binary, Date, Duration,
// Verified) are filled in by the builder and are not listed.
var Headers = []Header{
	{Name: catalog.FieldGame, Mandatory: true},
	{Name: catalog.FieldSong, Mandatory: true},
	{Name: catalog.FieldCategory, Mandatory: true},
	{Name: catalog.FieldComposers},
	{Name: catalog.FieldConverters},
	{Name: catalog.FieldAudio},
	{Name: catalog.FieldTags},
	{Name: catalog.FieldUpdateNotes},
	{Name: catalog.FieldAdditionalNotes},
}

// LookupHeader finds a schema entry by exact name.
func LookupHeader(name string) (Header, bool) {
	for _, h := range Headers {
		if h.Name == name {
			return h, true
		}
	}
	return Header{}, false
}

// Result is the outcome of Validate.
type Result struct {
	Missing       []string // mandatory headers not supplied, schema order
	Unknown       []string // supplied headers not in the schema, body order
	NeedsChanging bool
}

// Validate checks parsed fields and classified assets. A submission needs
// changing when a mandatory header is missing, a header is unknown, there is
// no binary, or there is neither an Audio link nor a preview file.
func Validate(fields catalog.Record, assets Assets) Result {
	var res Result
	for _, h := range Headers {
		if h.Mandatory && !fields.Has(h.Name) {
			res.Missing = append(res.Missing, h.Name)
		}
	}
	for _, k := range fields.Keys() {
		if _, ok := LookupHeader(k); !ok {
			res.Unknown = append(res.Unknown, k)
		}
	}
	hasAudio := fields.String(catalog.FieldAudio) != "" || assets.Preview.Present()
	res.NeedsChanging = len(res.Missing) > 0 ||
		len(res.Unknown) > 0 ||
		!assets.Binary.Present() ||
		!hasAudio
	return res
}
