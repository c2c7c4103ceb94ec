package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Version identifies the attribute layout a document was read with
type Version string

const (
	// VersionLegacy is the lowercase attribute layout (total, subtotal, formaDePago, ...)
	VersionLegacy Version = "legacy"
	// Version40 is CFDI 4.0 (Total, SubTotal, FormaPago, ...)
	Version40 Version = "4.0"
)

// DateTimeLayout is the only date-time shape accepted for Fecha and FechaTimbrado
const DateTimeLayout = "2006-01-02T15:04:05"

// TipoDeComprobante is the SAT document type code
type TipoDeComprobante string

const (
	TipoIngreso  TipoDeComprobante = "I"
	TipoEgreso   TipoDeComprobante = "E"
	TipoTraslado TipoDeComprobante = "T"
	TipoNomina   TipoDeComprobante = "N"
	TipoPago     TipoDeComprobante = "P"
)

// Known reports whether t is a catalogue code or one of the older long names
func (t TipoDeComprobante) Known() bool {
	switch t {
	case TipoIngreso, TipoEgreso, TipoTraslado, TipoNomina, TipoPago:
		return true
	case "ingreso", "egreso", "traslado":
		return true
	default:
		return false
	}
}

// Comprobante is the root of a CFDI document
type Comprobante struct {
	Version Version `json:"version"`

	Total             decimal.Decimal           `json:"total"`
	SubTotal          decimal.Decimal           `json:"subtotal"`
	Fecha             time.Time                 `json:"fecha"`
	FormaDePago       string                    `json:"forma_de_pago"`
	Descuento         Optional[decimal.Decimal] `json:"descuento"`
	TipoDeComprobante TipoDeComprobante         `json:"tipo_comprobante"`

	Emisor      Emisor                `json:"emisor"`
	Receptor    Receptor              `json:"receptor"`
	Conceptos   Conceptos             `json:"conceptos"`
	Complemento Optional[Complemento] `json:"complemento"`
}

// Emisor is the issuing taxpayer
type Emisor struct {
	Rfc           string `json:"rfc"`
	Nombre        string `json:"nombre"`
	RegimenFiscal string `json:"regimen_fiscal"` // SAT c_RegimenFiscal
}

// Receptor is the receiving taxpayer
type Receptor struct {
	Rfc           string `json:"rfc"`
	Nombre        string `json:"nombre"`
	RegimenFiscal string `json:"regimen_fiscal"`
	UsoCFDI       string `json:"uso_cfdi"` // SAT c_UsoCFDI
}

// RawNode keeps an unmodelled subtree verbatim
type RawNode struct {
	Name string `json:"name"`
	XML  string `json:"xml,omitempty"`
}

// Conceptos holds the line items as an opaque subtree
type Conceptos struct {
	RawNode
	Count int `json:"count"` // Concepto children
}

// Complemento is the optional addendum that carries the tax stamp
type Complemento struct {
	TimbreFiscalDigital Optional[TimbreFiscalDigital] `json:"timbre_fiscal_digital"`

	// Other complement types, not modelled
	Otros []RawNode `json:"otros,omitempty"`
}

func (c Complemento) clone() Complemento {
	if c.Otros != nil {
		c.Otros = append([]RawNode(nil), c.Otros...)
	}
	return c
}

// TimbreFiscalDigital is the stamp issued by the certification provider
type TimbreFiscalDigital struct {
	UUID             string    `json:"uuid"`
	FechaTimbrado    time.Time `json:"fecha_timbrado"`
	NoCertificadoSAT string    `json:"no_certificado_sat"`

	// Stored, not interpreted
	Version       string `json:"version,omitempty"`
	RfcProvCertif string `json:"rfc_prov_certif,omitempty"`
	SelloCFD      string `json:"sello_cfd,omitempty"`
	SelloSAT      string `json:"sello_sat,omitempty"`
}

func timbre(c Complemento) Optional[TimbreFiscalDigital] {
	return c.TimbreFiscalDigital
}

// Timbre returns the stamp, absent when there is no Complemento or it has no stamp
func (c *Comprobante) Timbre() Optional[TimbreFiscalDigital] {
	return AndThen(c.Complemento, timbre)
}

// UUID returns the stamp UUID if the document is stamped
func (c *Comprobante) UUID() Optional[string] {
	return Map(c.Timbre(), func(t TimbreFiscalDigital) string { return t.UUID })
}

// FechaTimbrado returns the stamping time if the document is stamped
func (c *Comprobante) FechaTimbrado() Optional[time.Time] {
	return Map(c.Timbre(), func(t TimbreFiscalDigital) time.Time { return t.FechaTimbrado })
}

// Stamped reports whether a TimbreFiscalDigital was found
func (c *Comprobante) Stamped() bool {
	return c.Timbre().IsPresent()
}

// DatosPrincipales projects the document into its summary
func (c *Comprobante) DatosPrincipales() DatosPrincipales {
	return Project(c)
}
