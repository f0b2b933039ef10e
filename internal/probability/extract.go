// Package probability locates the ease probability inside an arbitrary JSON feed.
package probability

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// keyMarker is matched against the lowercase form of every object key.
const keyMarker = "ease"

// Match describes where a probability was found.
type Match struct {
	Key   string  `json:"key"`
	Path  string  `json:"path"`
	Value float64 `json:"value"`
}

type node struct {
	value gjson.Result
	path  string
}

// Extract returns the first value labeled "ease" that coerces to a number.
func Extract(payload gjson.Result) (float64, bool) {
	m, ok := Find(payload)
	return m.Value, ok
}

// Find walks payload depth-first. Keys of an object are checked in document
// order before any of its children are visited, and children are visited in
// document order, so the result is stable for a given document.
func Find(payload gjson.Result) (Match, bool) {
	stack := []node{{value: payload}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []node
		var found Match
		var ok bool

		switch {
		case current.value.IsObject():
			current.value.ForEach(func(key, value gjson.Result) bool {
				name := key.String()
				childPath := joinPath(current.path, name)
				if strings.Contains(strings.ToLower(name), keyMarker) {
					if n, coerced := Coerce(value); coerced {
						found = Match{Key: name, Path: childPath, Value: n}
						ok = true
						return false
					}
				}
				if value.IsObject() || value.IsArray() {
					children = append(children, node{value: value, path: childPath})
				}
				return true
			})
		case current.value.IsArray():
			i := 0
			current.value.ForEach(func(_, value gjson.Result) bool {
				if value.IsObject() || value.IsArray() {
					children = append(children, node{value: value, path: joinPath(current.path, strconv.Itoa(i))})
				}
				i++
				return true
			})
		}

		if ok {
			return found, true
		}

		// Push in reverse so the first child is popped first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return Match{}, false
}

// Coerce converts a JSON scalar into a float. Numbers are returned as is;
// strings are trimmed, stripped of trailing percent signs and parsed. Every
// other type fails.
func Coerce(value gjson.Result) (float64, bool) {
	switch value.Type {
	case gjson.Number:
		return value.Num, true
	case gjson.String:
		s := strings.TrimSpace(value.Str)
		s = strings.TrimSpace(strings.TrimRight(s, "%"))
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// joinPath builds a gjson-style display path, escaping path metacharacters.
func joinPath(parent, key string) string {
	key = pathEscaper.Replace(key)
	if parent == "" {
		return key
	}
	return parent + "." + key
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`)
