package meta

// Raw holds the unprocessed tag lines of a front matter block. Keys are
// lowercased and kept in the order they first appeared.
type Raw struct {
	keys   []string
	values map[string][]string
}

// NewRaw builds a Raw from alternating key/line pairs. It is mostly useful in
// tests and when front matter comes from somewhere other than Extract.
func NewRaw(pairs ...string) Raw {
	var raw Raw
	for i := 0; i+1 < len(pairs); i += 2 {
		raw.Add(pairs[i], pairs[i+1])
	}
	return raw
}

// Add appends a line to key, registering the key on first use.
func (r *Raw) Add(key, line string) {
	key = normalizeKey(key)
	if key == "" {
		return
	}
	if r.values == nil {
		r.values = make(map[string][]string)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = append(r.values[key], line)
}

// Keys returns keys in first-seen order.
func (r Raw) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Lines returns the raw lines recorded for key.
func (r Raw) Lines(key string) []string {
	return append([]string(nil), r.values[normalizeKey(key)]...)
}

// Len reports the number of distinct keys.
func (r Raw) Len() int {
	return len(r.keys)
}

// Map returns a copy of the raw lines keyed by tag name.
func (r Raw) Map() map[string][]string {
	if len(r.keys) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.keys))
	for _, key := range r.keys {
		out[key] = append([]string(nil), r.values[key]...)
	}
	return out
}
