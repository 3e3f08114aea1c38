package editing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	var nilString *string
	name := "Ann"

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "nil pointer", input: nilString, want: ""},
		{name: "string", input: "Ann", want: "Ann"},
		{name: "string pointer", input: &name, want: "Ann"},
		{name: "zero int", input: 0, want: "0"},
		{name: "int64", input: int64(-12), want: "-12"},
		{name: "float", input: 1.5, want: "1.5"},
		{name: "false", input: false, want: "false"},
		{name: "true", input: true, want: "true"},
		{name: "bytes", input: []byte("raw"), want: "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.input))
		})
	}
}

func TestDelta(t *testing.T) {
	baseline := Record{
		"first_name": "Ann",
		"email":      "a@x.com",
		"age":        0,
		"active":     false,
		"nickname":   nil,
	}

	tests := []struct {
		name      string
		submitted Values
		want      Values
	}{
		{
			name:      "single change",
			submitted: Values{"first_name": "Ann", "email": "b@x.com"},
			want:      Values{"email": "b@x.com"},
		},
		{
			name:      "stringified equals are not changes",
			submitted: Values{"age": "0", "active": "false", "nickname": ""},
			want:      Values{},
		},
		{
			name:      "key missing from baseline compares to empty",
			submitted: Values{"phone": "", "bio": "hello"},
			want:      Values{"bio": "hello"},
		},
		{
			name:      "absent keys are never included",
			submitted: Values{},
			want:      Values{},
		},
		{
			name:      "clearing a value is a change",
			submitted: Values{"first_name": ""},
			want:      Values{"first_name": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Delta(baseline, tt.submitted))
		})
	}
}

func TestDelta_MatchesDefinitionForRandomInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := []string{"a", "b", "c", "d", "e"}
	pool := []any{nil, "", "0", 0, 1, "1", true, "true", false, 2.5, "x"}

	for i := 0; i < 200; i++ {
		baseline := Record{}
		submitted := Values{}
		for _, k := range keys {
			if rng.Intn(3) > 0 {
				baseline[k] = pool[rng.Intn(len(pool))]
			}
			if rng.Intn(3) > 0 {
				submitted[FieldID(k)] = Stringify(pool[rng.Intn(len(pool))])
			}
		}

		delta := Delta(baseline, submitted)

		for k, v := range submitted {
			_, included := delta[k]
			assert.Equal(t, v != Stringify(baseline[string(k)]), included, "case %d key %s", i, k)
		}
		for k := range delta {
			_, submittedKey := submitted[k]
			assert.True(t, submittedKey, "case %d: delta key %s was not submitted", i, k)
		}
	}
}

func TestValues_Helpers(t *testing.T) {
	v := Values{"b": "2", "a": "1"}

	clone := v.Clone()
	clone["a"] = "changed"
	assert.Equal(t, "1", v["a"])

	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, v.Strings())
	assert.Equal(t, []FieldID{"a", "b"}, v.Keys())
}
