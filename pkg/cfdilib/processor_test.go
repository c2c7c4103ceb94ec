package cfdilib_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cfdi-processor/pkg/cfdilib"
)

const unstampedXML = `<Comprobante total="116.00" subtotal="100.00" fecha="2023-05-01T12:00:00" formaDePago="01" tipoDeComprobante="I">
  <Emisor rfc="AAA010101AAA" nombre="Acme" regimenFiscal="601"/>
  <Receptor rfc="BBB010101BBB" nombre="Client" regimenFiscal="605" usoCFDI="G03"/>
</Comprobante>`

const stampedXML = `<Comprobante total="116.00" subtotal="100.00" fecha="2023-05-01T12:00:00" formaDePago="01" tipoDeComprobante="I">
  <Emisor rfc="AAA010101AAA" nombre="Acme" regimenFiscal="601"/>
  <Receptor rfc="BBB010101BBB" nombre="Client" regimenFiscal="605" usoCFDI="G03"/>
  <Complemento>
    <TimbreFiscalDigital uuid="1234-ABCD" fechaTimbrado="2023-05-01T12:05:00" noCertificadoSAT="00001000000123456789"/>
  </Complemento>
</Comprobante>`

func TestParseAndProject(t *testing.T) {
	doc, err := cfdilib.Parse(stampedXML)
	require.NoError(t, err)
	assert.Equal(t, cfdilib.VersionLegacy, doc.Version)

	datos := cfdilib.Project(doc)
	assert.Equal(t, "AAA010101AAA", datos.EmisorRfc())
	assert.Equal(t, "116", datos.Total().String())

	uuid, ok := datos.UUID().Get()
	require.True(t, ok)
	assert.Equal(t, "1234-ABCD", uuid)
}

func TestParse_Error(t *testing.T) {
	_, err := cfdilib.Parse(strings.Replace(unstampedXML, `total="116.00"`, `total="abc"`, 1))
	require.Error(t, err)
	assert.True(t, cfdilib.IsKind(err, cfdilib.KindInvalidAttributeValue))

	var pe *cfdilib.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "total", pe.Attribute)
	assert.Equal(t, cfdilib.ReasonNotANumber, pe.Reason)
}

func TestParse_NotMarkup(t *testing.T) {
	for _, content := range []string{"hello world", unstampedXML + "trailing text"} {
		c, err := cfdilib.Parse(content)
		assert.Nil(t, c)
		assert.True(t, cfdilib.IsKind(err, cfdilib.KindMalformedXML), "got %v", err)
	}
}

func TestNewDefaultProcessor(t *testing.T) {
	p := cfdilib.NewDefaultProcessor()
	require.NotNil(t, p)

	opts := cfdilib.DefaultOptions()
	assert.Equal(t, 4, opts.Concurrency)
	assert.True(t, opts.Validate)
	assert.False(t, opts.Strict)
}

func TestProcessor_Process(t *testing.T) {
	p := cfdilib.NewDefaultProcessor()

	res, err := p.Process(context.Background(), strings.NewReader(unstampedXML))
	require.NoError(t, err)

	assert.Equal(t, "Client", res.Datos.ReceptorNombre())
	require.NotNil(t, res.Valid)
	assert.True(t, *res.Valid)
	assert.Len(t, res.Warnings, 1)
	assert.False(t, res.Datos.UUID().IsPresent())
}

func TestProcessor_NoValidation(t *testing.T) {
	p := cfdilib.NewProcessor(cfdilib.Options{Concurrency: 1})

	res, err := p.Process(context.Background(), strings.NewReader(stampedXML))
	require.NoError(t, err)
	assert.Nil(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestProcessor_Strict(t *testing.T) {
	p := cfdilib.NewProcessor(cfdilib.Options{Validate: true, Strict: true})

	res, err := p.Process(context.Background(), strings.NewReader(unstampedXML))
	require.NoError(t, err)
	require.NotNil(t, res.Valid)
	assert.False(t, *res.Valid)
	assert.Len(t, res.Errors, 1)
}

func TestProcessor_InvalidXML(t *testing.T) {
	_, err := cfdilib.NewDefaultProcessor().Process(context.Background(), strings.NewReader("<Comprobante"))
	require.Error(t, err)
	assert.True(t, cfdilib.IsKind(err, cfdilib.KindMalformedXML))
}

func TestProcessor_ProcessBatch(t *testing.T) {
	p := cfdilib.NewDefaultProcessor()

	inputs := []io.Reader{
		strings.NewReader(unstampedXML),
		strings.NewReader("<Invoice/>"),
		strings.NewReader(stampedXML),
	}

	results, err := p.ProcessBatch(context.Background(), inputs)
	require.Error(t, err)
	assert.True(t, cfdilib.IsKind(err, cfdilib.KindMissingRootElement))

	require.Len(t, results, 3)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	require.NotNil(t, results[2])
	assert.True(t, results[2].Datos.UUID().IsPresent())
}

func TestReExportedTypes(t *testing.T) {
	var doc cfdilib.Comprobante
	doc.Emisor = cfdilib.Emisor{Rfc: "AAA010101AAA"}
	doc.Receptor = cfdilib.Receptor{Rfc: "BBB010101BBB"}

	datos := cfdilib.Project(&doc)
	assert.Equal(t, "AAA010101AAA", datos.EmisorRfc())
	assert.False(t, datos.FechaTimbrado().IsPresent())
}
