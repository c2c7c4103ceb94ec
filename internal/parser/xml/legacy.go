package xml

import (
	"github.com/beevik/etree"

	"github.com/rezonia/cfdi-processor/internal/model"
)

// LegacyLayout reads documents that use lowercase attribute names:
//
//	<Comprobante total subtotal fecha formaDePago tipoDeComprobante [descuento]>
//	  <Emisor rfc nombre regimenFiscal/>
//	  <Receptor rfc nombre regimenFiscal usoCFDI/>
//	  <Complemento><TimbreFiscalDigital uuid fechaTimbrado noCertificadoSAT/></Complemento>
var LegacyLayout = Layout{
	Version: model.VersionLegacy,
	Comprobante: []Rule[model.Comprobante]{
		Amount("total", required, setTotal),
		Amount("subtotal", required, setSubTotal),
		DateTime("fecha", required, setFecha),
		Text("formaDePago", required, setFormaDePago),
		Text("tipoDeComprobante", required, setTipo),
		Amount("descuento", optional, setDescuento),
	},
	Emisor: []Rule[model.Emisor]{
		Text("rfc", required, setEmisorRfc),
		Text("nombre", required, setEmisorNombre),
		Text("regimenFiscal", required, setEmisorRegimen),
	},
	Receptor: []Rule[model.Receptor]{
		Text("rfc", required, setReceptorRfc),
		Text("nombre", required, setReceptorNombre),
		Text("regimenFiscal", required, setReceptorRegimen),
		Text("usoCFDI", required, setUsoCFDI),
	},
	Timbre: []Rule[model.TimbreFiscalDigital]{
		Text("uuid", required, setUUID),
		DateTime("fechaTimbrado", required, setFechaTimbrado),
		Text("noCertificadoSAT", required, setNoCertificadoSAT),
		Text("version", optional, setTimbreVersion),
		Text("rfcProvCertif", optional, setRfcProvCertif),
		Text("selloCFD", optional, setSelloCFD),
		Text("selloSAT", optional, setSelloSAT),
	},
}

// LegacyAdapter parses lowercase-attribute documents.
// It accepts any Comprobante root, so it is registered last.
type LegacyAdapter struct{}

// NewLegacyAdapter creates a new legacy adapter
func NewLegacyAdapter() *LegacyAdapter {
	return &LegacyAdapter{}
}

// Version returns the layout version
func (a *LegacyAdapter) Version() model.Version {
	return model.VersionLegacy
}

// CanParse accepts every root
func (a *LegacyAdapter) CanParse(root *etree.Element) bool {
	return true
}

// Decode maps the root element onto a Comprobante
func (a *LegacyAdapter) Decode(root *etree.Element) (*model.Comprobante, error) {
	return LegacyLayout.Decode(root)
}
