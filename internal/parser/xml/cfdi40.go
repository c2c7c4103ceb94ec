package xml

import (
	"github.com/beevik/etree"

	"github.com/rezonia/cfdi-processor/internal/model"
)

// CFDI40Layout follows the Anexo 20 version 4.0 attribute names.
// FormaPago is optional there (it may be omitted for "P" and "T" documents).
var CFDI40Layout = Layout{
	Version: model.Version40,
	Comprobante: []Rule[model.Comprobante]{
		Amount("Total", required, setTotal),
		Amount("SubTotal", required, setSubTotal),
		DateTime("Fecha", required, setFecha),
		Text("FormaPago", optional, setFormaDePago),
		Text("TipoDeComprobante", required, setTipo),
		Amount("Descuento", optional, setDescuento),
	},
	Emisor: []Rule[model.Emisor]{
		Text("Rfc", required, setEmisorRfc),
		Text("Nombre", required, setEmisorNombre),
		Text("RegimenFiscal", required, setEmisorRegimen),
	},
	Receptor: []Rule[model.Receptor]{
		Text("Rfc", required, setReceptorRfc),
		Text("Nombre", required, setReceptorNombre),
		Text("RegimenFiscalReceptor", required, setReceptorRegimen),
		Text("UsoCFDI", required, setUsoCFDI),
	},
	Timbre: []Rule[model.TimbreFiscalDigital]{
		Text("UUID", required, setUUID),
		DateTime("FechaTimbrado", required, setFechaTimbrado),
		Text("NoCertificadoSAT", required, setNoCertificadoSAT),
		Text("Version", optional, setTimbreVersion),
		Text("RfcProvCertif", optional, setRfcProvCertif),
		Text("SelloCFD", optional, setSelloCFD),
		Text("SelloSAT", optional, setSelloSAT),
	},
}

// CFDI40Adapter parses CFDI 4.0 documents
type CFDI40Adapter struct{}

// NewCFDI40Adapter creates a new CFDI 4.0 adapter
func NewCFDI40Adapter() *CFDI40Adapter {
	return &CFDI40Adapter{}
}

// Version returns the layout version
func (a *CFDI40Adapter) Version() model.Version {
	return model.Version40
}

// CanParse checks the root Version attribute
func (a *CFDI40Adapter) CanParse(root *etree.Element) bool {
	v, ok := attr(root, "Version")
	return ok && v == string(model.Version40)
}

// Decode maps the root element onto a Comprobante
func (a *CFDI40Adapter) Decode(root *etree.Element) (*model.Comprobante, error) {
	return CFDI40Layout.Decode(root)
}
