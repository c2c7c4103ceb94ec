// Package processor runs documents through parse, projection and validation.
package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezonia/cfdi-processor/internal/logger"
	"github.com/rezonia/cfdi-processor/internal/model"
	xmlparser "github.com/rezonia/cfdi-processor/internal/parser/xml"
	"github.com/rezonia/cfdi-processor/internal/validator"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format is the sniffed input format
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// DetectFormat sniffs the first non-blank byte
func DetectFormat(data []byte) Format {
	data = bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if len(data) > 0 && data[0] == '<' {
		return FormatXML
	}
	return FormatUnknown
}

// Result is the outcome for one document
type Result struct {
	Source      string
	Version     model.Version
	Comprobante *model.Comprobante
	Datos       *model.DatosPrincipales
	Validation  *validator.Result
	Duration    time.Duration
	Error       error
}

// Input names a document for batch processing
type Input struct {
	Source string
	Data   []byte
}

// Pipeline orchestrates the processing
type Pipeline struct {
	registry    *xmlparser.Registry
	log         *logger.Logger
	concurrency int
	validate    bool
	strict      bool
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithRegistry replaces the default layout registry
func WithRegistry(r *xmlparser.Registry) PipelineOption {
	return func(p *Pipeline) {
		p.registry = r
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = l
	}
}

// WithConcurrency bounds the number of documents processed at once by ProcessBatch
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithValidation runs the validator on every parsed document
func WithValidation(strict bool) PipelineOption {
	return func(p *Pipeline) {
		p.validate = true
		p.strict = strict
	}
}

// NewPipeline creates a new processing pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		registry:    xmlparser.NewRegistry(),
		log:         logger.Nop(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DetectVersion reports which layout would decode data, without decoding it
func (p *Pipeline) DetectVersion(data []byte) (model.Version, error) {
	return p.registry.DetectVersion(bytes.TrimPrefix(data, utf8BOM))
}

// ProcessXML reads r fully and processes it
func (p *Pipeline) ProcessXML(ctx context.Context, r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{Error: fmt.Errorf("read input: %w", err)}
	}
	return p.ProcessXMLBytes(ctx, data)
}

// ProcessXMLBytes parses, projects and optionally validates one document
func (p *Pipeline) ProcessXMLBytes(ctx context.Context, data []byte) *Result {
	return p.process(ctx, Input{Data: data})
}

// ProcessFile reads and processes the file at path
func (p *Pipeline) ProcessFile(ctx context.Context, path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Source: path, Error: fmt.Errorf("read %s: %w", path, err)}
	}
	return p.process(ctx, Input{Source: path, Data: data})
}

// ProcessFiles processes every path concurrently, keeping input order
func (p *Pipeline) ProcessFiles(ctx context.Context, paths []string) []*Result {
	results := make([]*Result, len(paths))
	p.each(ctx, len(paths), func(ctx context.Context, i int) {
		results[i] = p.ProcessFile(ctx, paths[i])
	})
	return results
}

// ProcessBatch processes inputs concurrently, keeping input order.
// A failing document never stops the others; each Result carries its own error.
func (p *Pipeline) ProcessBatch(ctx context.Context, inputs []Input) []*Result {
	results := make([]*Result, len(inputs))
	p.each(ctx, len(inputs), func(ctx context.Context, i int) {
		results[i] = p.process(ctx, inputs[i])
	})
	return results
}

func (p *Pipeline) each(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) process(ctx context.Context, in Input) *Result {
	start := time.Now()
	result := &Result{Source: in.Source}
	defer func() {
		result.Duration = time.Since(start)
		p.logResult(result)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	doc, err := p.registry.Parse(bytes.TrimPrefix(in.Data, utf8BOM))
	if err != nil {
		result.Error = err
		return result
	}

	datos := doc.DatosPrincipales()
	result.Version = doc.Version
	result.Comprobante = doc
	result.Datos = &datos

	if p.validate {
		result.Validation = validator.Validate(doc, validator.Options{Strict: p.strict})
	}
	return result
}

func (p *Pipeline) logResult(r *Result) {
	if r.Error != nil {
		ev := p.log.Warn().Str("source", r.Source).Err(r.Error)
		var pe *model.ParseError
		if errors.As(r.Error, &pe) {
			ev = ev.Str("kind", string(pe.Kind))
		}
		ev.Msg("document rejected")
		return
	}

	ev := p.log.Debug().
		Str("source", r.Source).
		Str("version", string(r.Version)).
		Dur("duration", r.Duration)
	if uuid, ok := r.Comprobante.UUID().Get(); ok {
		ev = ev.Str("uuid", uuid)
	}
	if r.Validation != nil {
		ev = ev.Bool("valid", r.Validation.Valid)
	}
	ev.Msg("document processed")
}
