package playlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Attributes is an ordered key/value list with unique keys, as found in the
// attribute section of an #EXTINF line. Setting an existing key replaces its
// value and keeps its original position.
type Attributes struct {
	keys   []string
	values map[string]string
}

// NewAttributes returns an empty attribute list.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Set adds or replaces key.
func (a *Attributes) Set(key, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored for key.
func (a *Attributes) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[key]
	return v, ok
}

// Value returns the value for key, or "" when it is absent.
func (a *Attributes) Value(key string) string {
	v, _ := a.Get(key)
	return v
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// String renders the list as space separated key="value" pairs. Values that
// contain a double quote are written unquoted.
func (a *Attributes) String() string {
	if a.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range a.keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		v := a.values[k]
		b.WriteString(k)
		b.WriteByte('=')
		if strings.Contains(v, `"`) {
			b.WriteString(v)
			continue
		}
		b.WriteByte('"')
		b.WriteString(v)
		b.WriteByte('"')
	}
	return b.String()
}

// MarshalJSON encodes the list as a JSON object in insertion order.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// parseAttributes tokenizes an attribute span on whitespace outside quoted
// values. Every token must be key=value, where value is either "quoted" or
// an unquoted run without whitespace.
func parseAttributes(span string) (*Attributes, error) {
	attrs := NewAttributes()
	i, n := 0, len(span)
	for {
		for i < n && isSpace(span[i]) {
			i++
		}
		if i >= n {
			return attrs, nil
		}

		start := i
		for i < n && span[i] != '=' && span[i] != '"' && !isSpace(span[i]) {
			i++
		}
		if i == start || i >= n || span[i] != '=' {
			return nil, fmt.Errorf("attribute %q is not key=value", nextToken(span[start:]))
		}
		key := span[start:i]
		i++

		var value string
		if i < n && span[i] == '"' {
			end := strings.IndexByte(span[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted value for attribute %q", key)
			}
			value = span[i+1 : i+1+end]
			i += end + 2
		} else {
			vs := i
			for i < n && !isSpace(span[i]) {
				i++
			}
			value = span[vs:i]
		}
		attrs.Set(key, value)
	}
}

// splitTitle splits an #EXTINF payload at the first comma that is not inside
// a quoted attribute value. A quote opens a value only directly after '='.
func splitTitle(payload string) (head, title string, ok bool) {
	inQuote := false
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"' && i > 0 && payload[i-1] == '=':
			inQuote = true
		case c == ',':
			return payload[:i], payload[i+1:], true
		}
	}
	return "", "", false
}

func nextToken(s string) string {
	if i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		return s[:i]
	}
	return s
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r' || c == '\n'
}
