package httpcodec

import "strings"

// header is one name/value pair, preserving the exact case the name was
// added with; comparisons are always case-insensitive per RFC 7230 §3.2.
type header struct {
	name  string
	value string
}

// Headers is an ordered, case-insensitive multimap of header name to
// value, matching spec.md §3's "ordered multimap of case-insensitive ASCII
// names to opaque byte-sequence values". Insertion order is preserved per
// name; Get returns the first occurrence.
type Headers struct {
	entries []header
}

// NewHeaders returns an empty header set.
func NewHeaders() *Headers { return &Headers{} }

// Clone returns an independent copy with the same entries in the same order.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return NewHeaders()
	}
	cp := make([]header, len(h.entries))
	copy(cp, h.entries)
	return &Headers{entries: cp}
}

// Add appends a name/value pair, preserving any existing entries for name.
func (h *Headers) Add(name, value string) *Headers {
	h.entries = append(h.entries, header{name: name, value: value})
	return h
}

// Set removes every existing entry for name and adds a single new one.
func (h *Headers) Set(name, value string) *Headers {
	h.Remove(name)
	return h.Add(name, value)
}

// Get returns the first value stored for name, and whether any was found.
func (h *Headers) Get(name string) (string, bool) {
	for _, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			return e.value, true
		}
	}
	return "", false
}

// Contains reports whether name has at least one value.
func (h *Headers) Contains(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Remove deletes every entry for name, returning whether anything was removed.
func (h *Headers) Remove(name string) bool {
	removed := false
	out := h.entries[:0]
	for _, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			removed = true
			continue
		}
		out = append(out, e)
	}
	h.entries = out
	return removed
}

// Entries returns the ordered list of name/value pairs. Callers must not
// mutate the returned slice.
func (h *Headers) Entries() []struct{ Name, Value string } {
	out := make([]struct{ Name, Value string }, len(h.entries))
	for i, e := range h.entries {
		out[i] = struct{ Name, Value string }{Name: e.name, Value: e.value}
	}
	return out
}
