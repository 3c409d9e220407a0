package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxBodyBytes = 1 << 20

// Kind is the JSON type a field must have.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "a number"
	case KindList:
		return "a list"
	default:
		return "a string"
	}
}

// Rule is one semantic check on a field value. Message is reported when Valid
// returns false.
type Rule struct {
	Message string
	Valid   func(v any) bool
}

// Field describes one key of a request object.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	Rules    []Rule
	Items    *Schema // element schema for KindList fields holding objects

	// Normalize rewrites a string value before its rules run.
	Normalize func(string) string
}

// Schema is an ordered table of fields. Violations are reported in field order.
type Schema struct {
	Fields []Field
}

// ValidationError lists every rule a request body broke.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// DecodeAndValidate reads a JSON object from r, checks it against schema and
// decodes it into T. Structural problems (missing keys, wrong JSON types) are
// reported before, and instead of, semantic ones.
func DecodeAndValidate[T any](r io.Reader, schema Schema) (T, error) {
	var out T

	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return out, &ValidationError{Violations: []string{"Request body could not be read"}}
	}
	if len(body) > maxBodyBytes {
		return out, &ValidationError{Violations: []string{"Request body is too large"}}
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return out, &ValidationError{Violations: []string{"Request body must be a JSON object"}}
	}

	if err := schema.Validate(raw); err != nil {
		return out, err
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return out, &ValidationError{Violations: []string{"Request body could not be read"}}
	}
	if err := json.Unmarshal(normalized, &out); err != nil {
		return out, &ValidationError{Violations: []string{"Request body has invalid field types"}}
	}
	return out, nil
}

// Validate checks an already decoded JSON object. String fields with a Normalize
// function are rewritten in place.
func (s Schema) Validate(raw map[string]any) error {
	if violations := s.structural(raw, ""); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	if violations := s.semantic(raw, ""); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func (s Schema) structural(raw map[string]any, prefix string) []string {
	var violations []string
	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			if !f.Optional {
				violations = append(violations, fmt.Sprintf("%s%s is required", prefix, f.Name))
			}
			continue
		}
		if !hasKind(v, f.Kind) {
			violations = append(violations, fmt.Sprintf("%s%s must be %s", prefix, f.Name, f.Kind))
			continue
		}
		if str, ok := v.(string); ok && f.Normalize != nil {
			raw[f.Name] = f.Normalize(str)
		}
		if f.Kind == KindList && f.Items != nil {
			for i, item := range v.([]any) {
				obj, ok := item.(map[string]any)
				itemPrefix := fmt.Sprintf("%s%s[%d].", prefix, f.Name, i)
				if !ok {
					violations = append(violations, fmt.Sprintf("%s%s[%d] must be an object", prefix, f.Name, i))
					continue
				}
				violations = append(violations, f.Items.structural(obj, itemPrefix)...)
			}
		}
	}
	return violations
}

func (s Schema) semantic(raw map[string]any, prefix string) []string {
	var violations []string
	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			continue
		}
		for _, rule := range f.Rules {
			if !rule.Valid(v) {
				violations = append(violations, prefix+rule.Message)
			}
		}
		if f.Kind == KindList && f.Items != nil {
			for i, item := range v.([]any) {
				itemPrefix := fmt.Sprintf("%s%s[%d].", prefix, f.Name, i)
				violations = append(violations, f.Items.semantic(item.(map[string]any), itemPrefix)...)
			}
		}
	}
	return violations
}

func hasKind(v any, k Kind) bool {
	switch k {
	case KindNumber:
		_, ok := v.(json.Number)
		return ok
	case KindList:
		_, ok := v.([]any)
		return ok
	default:
		_, ok := v.(string)
		return ok
	}
}

// Length bounds a string's length in characters, inclusive.
func Length(min, max int, tooShort, tooLong string) []Rule {
	return []Rule{
		{Message: tooShort, Valid: func(v any) bool { return utf8.RuneCountInString(v.(string)) >= min }},
		{Message: tooLong, Valid: func(v any) bool { return utf8.RuneCountInString(v.(string)) <= max }},
	}
}

// Matches requires the whole string to match re.
func Matches(re *regexp.Regexp, message string) Rule {
	return Rule{Message: message, Valid: func(v any) bool { return re.MatchString(v.(string)) }}
}

// NotBlank rejects strings made only of whitespace.
func NotBlank(message string) Rule {
	return Rule{Message: message, Valid: func(v any) bool { return strings.TrimSpace(v.(string)) != "" }}
}

// Range bounds a number, inclusive.
func Range(min, max float64, message string) Rule {
	return Rule{Message: message, Valid: func(v any) bool {
		f, err := v.(json.Number).Float64()
		return err == nil && f >= min && f <= max
	}}
}

// Integer requires a whole number.
func Integer(message string) Rule {
	return Rule{Message: message, Valid: func(v any) bool {
		_, err := v.(json.Number).Int64()
		return err == nil
	}}
}

// Count bounds the number of list elements, inclusive.
func Count(min, max int, message string) Rule {
	return Rule{Message: message, Valid: func(v any) bool {
		n := len(v.([]any))
		return n >= min && n <= max
	}}
}

// OneOf restricts a string to a fixed set of values.
func OneOf(message string, values ...string) Rule {
	return Rule{Message: message, Valid: func(v any) bool {
		for _, allowed := range values {
			if v.(string) == allowed {
				return true
			}
		}
		return false
	}}
}

// TrimSpace and LowerEmail are the normalizers used for names and email addresses.
func TrimSpace(s string) string { return strings.TrimSpace(s) }

func LowerEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func concat(groups ...[]Rule) []Rule {
	var rules []Rule
	for _, g := range groups {
		rules = append(rules, g...)
	}
	return rules
}
