package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DatosPrincipales is a one-level, read-only summary of a Comprobante.
// It can only be obtained through Project.
type DatosPrincipales struct {
	emisorRfc      string
	emisorNombre   string
	receptorRfc    string
	receptorNombre string
	subTotal       decimal.Decimal
	total          decimal.Decimal
	fecha          time.Time

	complemento Optional[Complemento]
}

// Project copies the main fields of c. The summary does not share
// memory with c.
func Project(c *Comprobante) DatosPrincipales {
	return DatosPrincipales{
		emisorRfc:      c.Emisor.Rfc,
		emisorNombre:   c.Emisor.Nombre,
		receptorRfc:    c.Receptor.Rfc,
		receptorNombre: c.Receptor.Nombre,
		subTotal:       c.SubTotal,
		total:          c.Total,
		fecha:          c.Fecha,
		complemento:    Map(c.Complemento, Complemento.clone),
	}
}

func (d DatosPrincipales) EmisorRfc() string      { return d.emisorRfc }
func (d DatosPrincipales) EmisorNombre() string   { return d.emisorNombre }
func (d DatosPrincipales) ReceptorRfc() string    { return d.receptorRfc }
func (d DatosPrincipales) ReceptorNombre() string { return d.receptorNombre }

func (d DatosPrincipales) SubTotal() decimal.Decimal { return d.subTotal }
func (d DatosPrincipales) Total() decimal.Decimal    { return d.total }
func (d DatosPrincipales) Fecha() time.Time          { return d.fecha }

// UUID returns the stamp UUID, absent when the source had no stamp
func (d DatosPrincipales) UUID() Optional[string] {
	return Map(AndThen(d.complemento, timbre), func(t TimbreFiscalDigital) string {
		return t.UUID
	})
}

// FechaTimbrado returns the stamping time, absent when the source had no stamp
func (d DatosPrincipales) FechaTimbrado() Optional[time.Time] {
	return Map(AndThen(d.complemento, timbre), func(t TimbreFiscalDigital) time.Time {
		return t.FechaTimbrado
	})
}

type datosJSON struct {
	EmisorRfc      string              `json:"emisor_rfc"`
	EmisorNombre   string              `json:"emisor_nombre"`
	ReceptorRfc    string              `json:"receptor_rfc"`
	ReceptorNombre string              `json:"receptor_nombre"`
	SubTotal       decimal.Decimal     `json:"subtotal"`
	Total          decimal.Decimal     `json:"total"`
	Fecha          time.Time           `json:"fecha"`
	UUID           Optional[string]    `json:"uuid"`
	FechaTimbrado  Optional[time.Time] `json:"fecha_timbrado"`
}

// MarshalJSON includes the stamp accessors as nullable fields
func (d DatosPrincipales) MarshalJSON() ([]byte, error) {
	return json.Marshal(datosJSON{
		EmisorRfc:      d.emisorRfc,
		EmisorNombre:   d.emisorNombre,
		ReceptorRfc:    d.receptorRfc,
		ReceptorNombre: d.receptorNombre,
		SubTotal:       d.subTotal,
		Total:          d.total,
		Fecha:          d.fecha,
		UUID:           d.UUID(),
		FechaTimbrado:  d.FechaTimbrado(),
	})
}
