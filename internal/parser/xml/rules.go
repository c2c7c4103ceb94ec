package xml

import (
	"errors"
	"regexp"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/cfdi-processor/internal/decimal"
	"github.com/rezonia/cfdi-processor/internal/model"
)

// Kind is the coercion applied to an attribute's text
type Kind int

const (
	KindText Kind = iota
	KindAmount
	KindDateTime
)

// Value is a coerced attribute; only the field matching the rule's Kind is set
type Value struct {
	Text   string
	Amount decimal.Decimal
	Time   time.Time
}

// Rule maps one attribute onto a field of T
type Rule[T any] struct {
	Attr     string
	Kind     Kind
	Required bool
	Set      func(dst *T, v Value)
}

const (
	required = true
	optional = false
)

// Text builds a rule for a plain text attribute
func Text[T any](attr string, req bool, set func(*T, string)) Rule[T] {
	return Rule[T]{Attr: attr, Kind: KindText, Required: req, Set: func(dst *T, v Value) { set(dst, v.Text) }}
}

// Amount builds a rule for an unsigned decimal attribute
func Amount[T any](attr string, req bool, set func(*T, decimal.Decimal)) Rule[T] {
	return Rule[T]{Attr: attr, Kind: KindAmount, Required: req, Set: func(dst *T, v Value) { set(dst, v.Amount) }}
}

// DateTime builds a rule for a YYYY-MM-DDTHH:MM:SS attribute
func DateTime[T any](attr string, req bool, set func(*T, time.Time)) Rule[T] {
	return Rule[T]{Attr: attr, Kind: KindDateTime, Required: req, Set: func(dst *T, v Value) { set(dst, v.Time) }}
}

var errNotDateTime = errors.New("want YYYY-MM-DDTHH:MM:SS")

// time.Parse tolerates fractional seconds, so the shape is checked first
var dateTimePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}$`)

// ParseDateTime parses the CFDI date-time shape. The result is in UTC.
func ParseDateTime(s string) (time.Time, error) {
	if !dateTimePattern.MatchString(s) {
		return time.Time{}, errNotDateTime
	}
	return time.Parse(model.DateTimeLayout, s)
}

func (k Kind) coerce(raw string) (Value, model.Reason, error) {
	switch k {
	case KindAmount:
		d, err := money.ParseAmount(raw)
		if err != nil {
			return Value{}, model.ReasonNotANumber, err
		}
		return Value{Amount: d}, "", nil
	case KindDateTime:
		t, err := ParseDateTime(raw)
		if err != nil {
			return Value{}, model.ReasonNotADate, err
		}
		return Value{Time: t}, "", nil
	default:
		return Value{Text: raw}, "", nil
	}
}

// apply runs every rule of the table against el, filling dst
func apply[T any](version model.Version, el *etree.Element, element string, rules []Rule[T], dst *T) error {
	for _, r := range rules {
		raw, ok := attr(el, r.Attr)
		if !ok {
			if r.Required {
				return model.NewMissingAttributeError(version, element, r.Attr)
			}
			continue
		}

		v, reason, err := r.Kind.coerce(raw)
		if err != nil {
			return model.NewInvalidValueError(version, element, r.Attr, raw, reason, err)
		}
		r.Set(dst, v)
	}
	return nil
}

// attr looks up an unprefixed attribute by exact name
func attr(el *etree.Element, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == name {
			return a.Value, true
		}
	}
	return "", false
}
