package adapter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxOffset bounds (page-1)*limit; larger pages are clamped.
	MaxOffset = math.MaxInt32
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page/limit query values. Missing or malformed values fall
// back to defaults, limit is capped at maxLimit and page so the offset stays
// within MaxOffset.
func ParsePagination(page, limit string, defLimit, maxLimit int) Pagination {
	if defLimit <= 0 {
		defLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	p := Pagination{Page: DefaultPage, Limit: defLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if maxPage := MaxOffset/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

// ConversionError reports a request value that could not be coerced to the type a
// handler needs.
type ConversionError struct {
	Field string
	Want  string
	Got   any
}

func (e *ConversionError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%s: cannot convert missing value to %s", e.Field, e.Want)
	}
	return fmt.Sprintf("%s: cannot convert %T to %s", e.Field, e.Got, e.Want)
}

// BodyString coerces body[key] to a string. Scalars are formatted; a missing or null
// value is a *ConversionError.
func (hc *HandlerContext) BodyString(key string) (string, error) {
	v, ok := hc.Body[key]
	if !ok || v == nil {
		return "", &ConversionError{Field: key, Want: "string"}
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case json.Number:
		return x.String(), nil
	case []any, map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return "", &ConversionError{Field: key, Want: "string", Got: v}
		}
		return string(b), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// StringSlice converts a decoded JSON value to []string. nil passes through.
func StringSlice(field string, v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, &ConversionError{Field: field, Want: "[]string", Got: v}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &ConversionError{Field: field, Want: "[]string", Got: v}
	}
}
