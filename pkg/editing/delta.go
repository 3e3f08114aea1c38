package editing

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/spf13/cast"
)

// Record is the caller-owned baseline an edit session diffs against.
// The engine only reads it.
type Record map[string]any

// Values maps each field to its current string value
type Values map[FieldID]string

// Clone returns an independent copy of v
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Strings converts v to a plain string map, the shape stores and the HTTP
// API work with.
func (v Values) Strings() map[string]string {
	out := make(map[string]string, len(v))
	for k, val := range v {
		out[string(k)] = val
	}
	return out
}

// Keys returns the field ids in v, sorted
func (v Values) Keys() []FieldID {
	keys := make([]FieldID, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Stringify normalizes a record value for change detection: nil becomes the
// empty string, numbers their decimal form and booleans "true"/"false".
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// Delta returns the submitted values whose string form differs from the
// baseline. Keys absent from submitted are never included.
func Delta(baseline Record, submitted Values) Values {
	delta := Values{}
	for id, value := range submitted {
		if value != Stringify(baseline[string(id)]) {
			delta[id] = value
		}
	}
	return delta
}
