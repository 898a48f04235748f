package conversation

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const unknownID = "unknown"

// present reports whether a field holds a usable value. Null, false, zero,
// empty strings and empty containers are all treated as missing so that the
// fallback chains skip them.
func present(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True:
		return true
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	default:
		return false
	}
}

// first returns the first present value among the given paths.
func first(obj gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := obj.Get(p); present(v) {
			return v
		}
	}
	return gjson.Result{}
}

// text renders a scalar field as a string. Containers render as raw JSON.
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Null:
		return ""
	case gjson.JSON:
		return r.Raw
	default:
		return r.String()
	}
}

// identifier resolves the first present ID field, else "unknown".
func identifier(obj gjson.Result, paths ...string) string {
	if v := first(obj, paths...); v.Exists() {
		return text(v)
	}
	return unknownID
}

// timestamp resolves the first present timestamp field.
func timestamp(obj gjson.Result, paths ...string) *time.Time {
	v := first(obj, paths...)
	switch v.Type {
	case gjson.Number:
		return ParseTimestamp(v.Num)
	case gjson.String:
		return ParseTimestamp(v.Str)
	default:
		return nil
	}
}

// content resolves message text from a value that may be a string, an
// object carrying "text" or "content", or an array of such blocks.
func content(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.Str
	case v.IsObject():
		return content(first(v, "text", "content"))
	case v.IsArray():
		parts := make([]string, 0)
		v.ForEach(func(_, block gjson.Result) bool {
			if s := content(block); s != "" {
				parts = append(parts, s)
			}
			return true
		})
		return strings.Join(parts, "\n")
	case v.Exists():
		return text(v)
	default:
		return ""
	}
}

// raw returns the decoded object, used as free-form metadata.
func raw(obj gjson.Result) map[string]any {
	if m, ok := obj.Value().(map[string]any); ok {
		return m
	}
	return nil
}

// each calls fn for every object element of an array value.
func each(arr gjson.Result, fn func(gjson.Result)) {
	if !arr.IsArray() {
		return
	}
	arr.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			fn(v)
		}
		return true
	})
}
