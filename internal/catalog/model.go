package catalog

import (
	"reflect"

	"github.com/iancoleman/orderedmap"
)

// Well-known record fields.
const (
	FieldGame            = "Game"
	FieldSong            = "Song"
	FieldCategory        = "Category"
	FieldComposers       = "Composers"
	FieldConverters      = "Converters"
	FieldAudio           = "Audio"
	FieldBinary          = "Binary"
	FieldTags            = "Tags"
	FieldCategories      = "Categories"
	FieldTracks          = "Tracks"
	FieldDuration        = "Duration"
	FieldUpdateNotes     = "Update Notes"
	FieldAdditionalNotes = "Additional Notes"
	FieldVerified        = "Verified"
	FieldDate            = "Date"
	FieldPruned          = "pruned"
)

// Record is one entry in mapping.json. Keys keep their insertion order so
// rewriting the catalog does not reshuffle existing entries.
type Record struct {
	m *orderedmap.OrderedMap
}

// NewRecord returns an empty record.
func NewRecord() Record {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return Record{m: m}
}

func (r *Record) init() {
	if r.m == nil {
		r.m = orderedmap.New()
		r.m.SetEscapeHTML(false)
	}
}

// Get returns the raw value stored under key.
func (r Record) Get(key string) (any, bool) {
	if r.m == nil {
		return nil, false
	}
	return r.m.Get(key)
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// String returns the value under key if it is a string.
func (r Record) String(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

// Set stores value under key. Existing keys keep their position.
func (r *Record) Set(key string, value any) {
	r.init()
	r.m.Set(key, value)
}

// Keys returns the record's keys in order.
func (r Record) Keys() []string {
	if r.m == nil {
		return nil
	}
	return r.m.Keys()
}

// Clone returns a shallow copy with the same key order.
func (r Record) Clone() Record {
	out := NewRecord()
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		out.Set(k, v)
	}
	return out
}

// Same reports whether two records name the same game and song.
// Absent fields compare equal to each other.
func (r Record) Same(game, song any) bool {
	g, _ := r.Get(FieldGame)
	s, _ := r.Get(FieldSong)
	return reflect.DeepEqual(g, game) && reflect.DeepEqual(s, song)
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.m == nil {
		return []byte("{}"), nil
	}
	return r.m.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	r.m = orderedmap.New()
	r.m.SetEscapeHTML(false)
	return r.m.UnmarshalJSON(data)
}
