package filter

import (
	"errors"
	"testing"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Request
	}{
		{"all fields", `{"code":"x","lang":"go","theme":"nord"}`, Request{"x", "go", "nord"}},
		{"no lang", `{"code":"x","theme":"nord"}`, Request{"x", "text", "nord"}},
		{"no theme", `{"code":"x","lang":"go"}`, Request{"x", "go", ""}},
		{"null theme", `{"code":"x","theme":null}`, Request{"x", "text", ""}},
		{"extra fields", `{"code":"x","lang":"go","theme":"nord","extra":[1,2]}`, Request{"x", "go", "nord"}},
		{"duplicate key last wins", `{"code":"a","code":"b"}`, Request{"b", "text", ""}},
		{"escaped strings", `{"code":"line1\nline2 <","lang":"sh"}`, Request{"line1\nline2 <", "sh", ""}},
		{"surrounding whitespace", "  \n{\"code\":\"\"}\n", Request{"", "text", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeRequest: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	inputs := []string{
		``,
		`   `,
		`{`,
		`"just a string"`,
		`42`,
		`[]`,
		`{}`,
		`{"code":null}`,
		`{"code":"x","lang":true}`,
		`{"code":"x","lang":{"name":"go"}}`,
		`{"code":"x","theme":7}`,
	}

	for _, input := range inputs {
		if _, err := DecodeRequest([]byte(input)); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("DecodeRequest(%q) err = %v, want ErrInvalidRequest", input, err)
		}
	}
}
