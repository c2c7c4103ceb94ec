package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cfdi-processor/internal/model"
)

func sampleResults() []*SummaryResult {
	stamped := (&model.Comprobante{
		Total:    decimal.RequireFromString("2610.00"),
		SubTotal: decimal.RequireFromString("2500.00"),
		Fecha:    time.Date(2024, 2, 10, 9, 30, 15, 0, time.UTC),
		Emisor:   model.Emisor{Rfc: "EKU9003173C9", Nombre: "ESCUELA KEMPER URGATE"},
		Receptor: model.Receptor{Rfc: "URE180429TM6", Nombre: "ROBOTICA, S.A."},
		Complemento: model.Some(model.Complemento{
			TimbreFiscalDigital: model.Some(model.TimbreFiscalDigital{
				UUID:          "6D2E0E62-7B3F-4B2A-9C5E-1A2B3C4D5E6F",
				FechaTimbrado: time.Date(2024, 2, 10, 9, 31, 2, 0, time.UTC),
			}),
		}),
	}).DatosPrincipales()

	return []*SummaryResult{
		{File: "a.xml", Version: "4.0", Summary: &stamped},
		{File: "b.xml", Error: "cfdi: malformed XML"},
	}
}

func TestWriteSummaries_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummaries(&buf, "csv", sampleResults()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "file,version,emisor_rfc"))
	assert.Equal(t,
		`a.xml,4.0,EKU9003173C9,ESCUELA KEMPER URGATE,URE180429TM6,"ROBOTICA, S.A.",2024-02-10T09:30:15,2500.00,2610.00,6D2E0E62-7B3F-4B2A-9C5E-1A2B3C4D5E6F,2024-02-10T09:31:02,`,
		lines[1])
	assert.Equal(t, "b.xml,,,,,,,,,,,cfdi: malformed XML", lines[2])
}

func TestWriteSummaries_CSVQuotesEveryField(t *testing.T) {
	results := sampleResults()
	results[0].File = "q1,2024.xml"
	results[1].File = `say "b".xml`

	var buf bytes.Buffer
	require.NoError(t, writeSummaries(&buf, "csv", results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"q1,2024.xml",4.0,`))
	assert.Equal(t, `"say ""b"".xml",,,,,,,,,,,cfdi: malformed XML`, lines[2])
}

type failingWriter struct {
	after int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteSummaries_CSVWriteError(t *testing.T) {
	for _, after := range []int{0, 1, 2} {
		err := writeSummaries(&failingWriter{after: after}, "csv", sampleResults())
		assert.EqualError(t, err, "disk full", "after %d rows", after)
	}
}

func TestWriteSummaries_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummaries(&buf, "table", sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "2610.00")
	assert.Contains(t, out, "6D2E0E62-7B3F-4B2A-9C5E-1A2B3C4D5E6F")
	assert.Contains(t, out, "ERROR: cfdi: malformed XML")
}

func TestWriteSummaries_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummaries(&buf, "json", sampleResults()))

	assert.Contains(t, buf.String(), `"uuid": "6D2E0E62-7B3F-4B2A-9C5E-1A2B3C4D5E6F"`)
	assert.Contains(t, buf.String(), `"error": "cfdi: malformed XML"`)
}

func TestWriteSummaries_UnknownFormat(t *testing.T) {
	err := writeSummaries(&bytes.Buffer{}, "yaml", nil)
	assert.EqualError(t, err, "unsupported output format: yaml")
}

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\nlines", "\"two\nlines\""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeCSV(tt.in))
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xml", "b.XML", "notes.txt", filepath.Join("sub", "c.xml")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<Comprobante/>"), 0o644))
	}

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.xml"),
		filepath.Join(dir, "b.XML"),
		filepath.Join(dir, "sub", "c.xml"),
	}, files)

	files, err = collectFiles([]string{filepath.Join(dir, "*.xml")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.xml")}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.xml")})
	assert.Error(t, err)
}
