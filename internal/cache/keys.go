package cache

import (
	"sort"
	"strings"
)

// Key identifies one cached resource fetch: resource name plus its
// canonicalized parameters. Two fetches with the same key share cache
// entries and in-flight requests.
type Key string

func NewKey(resource string, params map[string]string) Key {
	if len(params) == 0 {
		return Key(resource)
	}

	names := make([]string, 0, len(params))
	for name, value := range params {
		if value != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return Key(resource)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(resource)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return Key(b.String())
}

// Resource returns the resource name part of the key.
func (k Key) Resource() string {
	if i := strings.IndexByte(string(k), '?'); i >= 0 {
		return string(k[:i])
	}
	return string(k)
}
