package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies parse failures
type ErrorKind string

const (
	KindMalformedXML             ErrorKind = "malformed_xml"
	KindMissingRootElement       ErrorKind = "missing_root_element"
	KindMissingRequiredChild     ErrorKind = "missing_required_child"
	KindMissingRequiredAttribute ErrorKind = "missing_required_attribute"
	KindInvalidAttributeValue    ErrorKind = "invalid_attribute_value"
)

// Reason explains why an attribute value was rejected
type Reason string

const (
	ReasonNotANumber Reason = "not-a-number"
	ReasonNotADate   Reason = "not-a-date"
)

// ParseError represents parsing errors with document context.
// For KindMissingRequiredChild, Element names the child and Occurrences how
// many were found: zero or several for Emisor and Receptor, several for
// Complemento and TimbreFiscalDigital.
type ParseError struct {
	Kind        ErrorKind
	Version     Version
	Element     string
	Attribute   string
	Reason      Reason
	Value       string
	Occurrences int
	Cause       error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("cfdi")
	if e.Version != "" {
		fmt.Fprintf(&b, " [%s]", e.Version)
	}
	b.WriteString(": ")

	switch e.Kind {
	case KindMalformedXML:
		b.WriteString("malformed XML")
	case KindMissingRootElement:
		switch e.Element {
		case "":
			b.WriteString("no Comprobante root element")
		case "Comprobante":
			b.WriteString("no layout recognizes this Comprobante")
		default:
			fmt.Fprintf(&b, "root element is %s, want Comprobante", e.Element)
		}
	case KindMissingRequiredChild:
		if e.Occurrences > 1 {
			fmt.Fprintf(&b, "duplicate %s element, found %d", e.Element, e.Occurrences)
		} else {
			fmt.Fprintf(&b, "expected exactly one %s element, found %d", e.Element, e.Occurrences)
		}
	case KindMissingRequiredAttribute:
		fmt.Fprintf(&b, "%s: missing required attribute %s", e.Element, e.Attribute)
	case KindInvalidAttributeValue:
		fmt.Fprintf(&b, "%s: attribute %s=%q is %s", e.Element, e.Attribute, e.Value, e.Reason)
	default:
		b.WriteString(string(e.Kind))
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, " (%v)", e.Cause)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewMalformedXMLError wraps a tokenizer failure
func NewMalformedXMLError(cause error) *ParseError {
	return &ParseError{Kind: KindMalformedXML, Cause: cause}
}

// NewMissingRootError reports a document whose root is not a Comprobante.
// found is the root tag, empty when the document has no element at all.
func NewMissingRootError(found string) *ParseError {
	return &ParseError{Kind: KindMissingRootElement, Element: found}
}

// NewMissingChildError reports a mandatory child that is absent or duplicated
func NewMissingChildError(version Version, which string, occurrences int) *ParseError {
	return &ParseError{
		Kind:        KindMissingRequiredChild,
		Version:     version,
		Element:     which,
		Occurrences: occurrences,
	}
}

// NewDuplicateChildError reports an optional child that appears more than once
func NewDuplicateChildError(version Version, which string, occurrences int) *ParseError {
	return NewMissingChildError(version, which, occurrences)
}

// NewMissingAttributeError reports an absent required attribute
func NewMissingAttributeError(version Version, element, attribute string) *ParseError {
	return &ParseError{
		Kind:      KindMissingRequiredAttribute,
		Version:   version,
		Element:   element,
		Attribute: attribute,
	}
}

// NewInvalidValueError reports an attribute that failed coercion
func NewInvalidValueError(version Version, element, attribute, value string, reason Reason, cause error) *ParseError {
	return &ParseError{
		Kind:      KindInvalidAttributeValue,
		Version:   version,
		Element:   element,
		Attribute: attribute,
		Reason:    reason,
		Value:     value,
		Cause:     cause,
	}
}

// IsKind reports whether err is a *ParseError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
