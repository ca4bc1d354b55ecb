package filter

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidRequest covers any payload that cannot be turned into a Request.
var ErrInvalidRequest = errors.New("invalid highlight request")

// DefaultLanguage is used when a request's lang is missing or falsy.
const DefaultLanguage = "text"

// Request is one highlight job read from stdin.
type Request struct {
	Code  string
	Lang  string
	Theme string
}

// DecodeRequest parses a JSON object with code, lang and theme fields.
// A missing or falsy lang (null, false, 0, "") becomes DefaultLanguage.
func DecodeRequest(raw []byte) (Request, error) {
	return decodeRequest(raw, DefaultLanguage)
}

func decodeRequest(raw []byte, defaultLang string) (Request, error) {
	if !gjson.ValidBytes(raw) {
		return Request{}, fmt.Errorf("%w: not valid JSON", ErrInvalidRequest)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Request{}, fmt.Errorf("%w: expected an object, got %s", ErrInvalidRequest, root.Type)
	}

	// Walk the object instead of using paths so duplicate keys resolve to
	// the last occurrence, like any JSON.parse.
	var code, lang, theme gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "code":
			code = value
		case "lang":
			lang = value
		case "theme":
			theme = value
		}
		return true
	})

	if code.Type != gjson.String {
		return Request{}, fmt.Errorf("%w: code must be a string", ErrInvalidRequest)
	}
	req := Request{Code: code.Str, Lang: defaultLang}

	switch {
	case falsy(lang):
	case lang.Type == gjson.String:
		req.Lang = lang.Str
	default:
		return Request{}, fmt.Errorf("%w: lang must be a string, got %s", ErrInvalidRequest, lang.Raw)
	}

	switch theme.Type {
	case gjson.Null:
	case gjson.String:
		req.Theme = theme.Str
	default:
		return Request{}, fmt.Errorf("%w: theme must be a string, got %s", ErrInvalidRequest, theme.Raw)
	}

	return req, nil
}

// falsy reports whether v is absent or a JSON value that is false in a
// boolean context.
func falsy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	case gjson.String:
		return v.Str == ""
	}
	return false
}
