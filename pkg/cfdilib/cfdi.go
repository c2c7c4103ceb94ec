// Package cfdilib provides a public API for reading Mexican CFDI e-invoices.
//
// It exposes the document model, the parser and the summary projection.
//
// Example usage:
//
//	doc, err := cfdilib.Parse(xmlText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	datos := cfdilib.Project(doc)
//	if uuid, ok := datos.UUID().Get(); ok {
//	    fmt.Println(uuid)
//	}
package cfdilib

import (
	"github.com/rezonia/cfdi-processor/internal/model"
	xmlparser "github.com/rezonia/cfdi-processor/internal/parser/xml"
)

// Re-export core types for public API
type (
	Comprobante         = model.Comprobante
	Emisor              = model.Emisor
	Receptor            = model.Receptor
	Conceptos           = model.Conceptos
	Complemento         = model.Complemento
	TimbreFiscalDigital = model.TimbreFiscalDigital
	RawNode             = model.RawNode
	DatosPrincipales    = model.DatosPrincipales
	TipoDeComprobante   = model.TipoDeComprobante
	Version             = model.Version
)

// Re-export layout versions
const (
	VersionLegacy = model.VersionLegacy
	Version40     = model.Version40
)

// Re-export error types
type (
	ParseError      = model.ParseError
	ErrorKind       = model.ErrorKind
	Reason          = model.Reason
	ValidationError = model.ValidationError
)

// Re-export error kinds
const (
	KindMalformedXML             = model.KindMalformedXML
	KindMissingRootElement       = model.KindMissingRootElement
	KindMissingRequiredChild     = model.KindMissingRequiredChild
	KindMissingRequiredAttribute = model.KindMissingRequiredAttribute
	KindInvalidAttributeValue    = model.KindInvalidAttributeValue

	ReasonNotANumber = model.ReasonNotANumber
	ReasonNotADate   = model.ReasonNotADate
)

// Parse decodes a CFDI document from its XML text
func Parse(xmlText string) (*Comprobante, error) {
	return xmlparser.Parse(xmlText)
}

// Project builds the summary of a parsed document
func Project(doc *Comprobante) DatosPrincipales {
	return model.Project(doc)
}

// IsKind reports whether err is a *ParseError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return model.IsKind(err, kind)
}
