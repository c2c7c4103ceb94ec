package xml

import (
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/cfdi-processor/internal/model"
)

// Element local names, shared by every layout
const (
	tagComprobante = "Comprobante"
	tagEmisor      = "Emisor"
	tagReceptor    = "Receptor"
	tagConceptos   = "Conceptos"
	tagConcepto    = "Concepto"
	tagComplemento = "Complemento"
	tagTimbre      = "TimbreFiscalDigital"
)

// Layout is the attribute table of one CFDI dialect
type Layout struct {
	Version     model.Version
	Comprobante []Rule[model.Comprobante]
	Emisor      []Rule[model.Emisor]
	Receptor    []Rule[model.Receptor]
	Timbre      []Rule[model.TimbreFiscalDigital]
}

// Setters shared by the layout tables

func setTotal(c *model.Comprobante, v decimal.Decimal)     { c.Total = v }
func setSubTotal(c *model.Comprobante, v decimal.Decimal)  { c.SubTotal = v }
func setFecha(c *model.Comprobante, v time.Time)           { c.Fecha = v }
func setFormaDePago(c *model.Comprobante, v string)        { c.FormaDePago = v }
func setDescuento(c *model.Comprobante, v decimal.Decimal) { c.Descuento = model.Some(v) }
func setTipo(c *model.Comprobante, v string)               { c.TipoDeComprobante = model.TipoDeComprobante(v) }

func setEmisorRfc(e *model.Emisor, v string)     { e.Rfc = v }
func setEmisorNombre(e *model.Emisor, v string)  { e.Nombre = v }
func setEmisorRegimen(e *model.Emisor, v string) { e.RegimenFiscal = v }

func setReceptorRfc(r *model.Receptor, v string)     { r.Rfc = v }
func setReceptorNombre(r *model.Receptor, v string)  { r.Nombre = v }
func setReceptorRegimen(r *model.Receptor, v string) { r.RegimenFiscal = v }
func setUsoCFDI(r *model.Receptor, v string)         { r.UsoCFDI = v }

func setUUID(t *model.TimbreFiscalDigital, v string)             { t.UUID = v }
func setFechaTimbrado(t *model.TimbreFiscalDigital, v time.Time) { t.FechaTimbrado = v }
func setNoCertificadoSAT(t *model.TimbreFiscalDigital, v string) { t.NoCertificadoSAT = v }
func setTimbreVersion(t *model.TimbreFiscalDigital, v string)    { t.Version = v }
func setRfcProvCertif(t *model.TimbreFiscalDigital, v string)    { t.RfcProvCertif = v }
func setSelloCFD(t *model.TimbreFiscalDigital, v string)         { t.SelloCFD = v }
func setSelloSAT(t *model.TimbreFiscalDigital, v string)         { t.SelloSAT = v }

// Decode maps a Comprobante root element onto the model.
// Nothing is returned unless the whole document decodes.
func (l Layout) Decode(root *etree.Element) (*model.Comprobante, error) {
	c := &model.Comprobante{Version: l.Version}
	if err := apply(l.Version, root, tagComprobante, l.Comprobante, c); err != nil {
		return nil, err
	}

	emisor, err := l.exactlyOne(root, tagEmisor)
	if err != nil {
		return nil, err
	}
	if err := apply(l.Version, emisor, tagEmisor, l.Emisor, &c.Emisor); err != nil {
		return nil, err
	}

	receptor, err := l.exactlyOne(root, tagReceptor)
	if err != nil {
		return nil, err
	}
	if err := apply(l.Version, receptor, tagReceptor, l.Receptor, &c.Receptor); err != nil {
		return nil, err
	}

	if el := firstChild(root, tagConceptos); el != nil {
		raw, err := rawNode(el)
		if err != nil {
			return nil, err
		}
		c.Conceptos = model.Conceptos{
			RawNode: raw,
			Count:   len(children(el, tagConcepto)),
		}
	}

	el, err := l.atMostOne(root, tagComplemento)
	if err != nil {
		return nil, err
	}
	if el != nil {
		comp, err := l.decodeComplemento(el)
		if err != nil {
			return nil, err
		}
		c.Complemento = model.Some(comp)
	}

	return c, nil
}

// decodeComplemento decodes the stamp and passes every other complement through
func (l Layout) decodeComplemento(el *etree.Element) (model.Complemento, error) {
	var comp model.Complemento

	stamp, err := l.atMostOne(el, tagTimbre)
	if err != nil {
		return comp, err
	}
	if stamp != nil {
		var tfd model.TimbreFiscalDigital
		if err := apply(l.Version, stamp, tagTimbre, l.Timbre, &tfd); err != nil {
			return comp, err
		}
		comp.TimbreFiscalDigital = model.Some(tfd)
	}

	for _, child := range el.ChildElements() {
		if child.Tag == tagTimbre {
			continue
		}
		raw, err := rawNode(child)
		if err != nil {
			return model.Complemento{}, err
		}
		comp.Otros = append(comp.Otros, raw)
	}
	return comp, nil
}

// atMostOne returns the optional child, nil when absent
func (l Layout) atMostOne(parent *etree.Element, tag string) (*etree.Element, error) {
	found := children(parent, tag)
	if len(found) > 1 {
		return nil, model.NewDuplicateChildError(l.Version, tag, len(found))
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (l Layout) exactlyOne(parent *etree.Element, tag string) (*etree.Element, error) {
	found := children(parent, tag)
	if len(found) != 1 {
		return nil, model.NewMissingChildError(l.Version, tag, len(found))
	}
	return found[0], nil
}

// children returns the direct child elements with the given local name
func children(parent *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

func firstChild(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// rawNode serializes a subtree verbatim
func rawNode(el *etree.Element) (model.RawNode, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return model.RawNode{}, model.NewMalformedXMLError(err)
	}
	return model.RawNode{Name: el.Tag, XML: s}, nil
}
