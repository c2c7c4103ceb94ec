package cfdilib

import (
	"context"
	"fmt"
	"io"

	"github.com/rezonia/cfdi-processor/internal/processor"
)

// Options configures a Processor
type Options struct {
	Concurrency int  // documents processed at once by ProcessBatch (default: 4)
	Validate    bool // run sanity checks after parsing
	Strict      bool // treat validation warnings as errors
}

// DefaultOptions returns default processor options
func DefaultOptions() Options {
	return Options{
		Concurrency: 4,
		Validate:    true,
	}
}

// Result is a parsed document with its summary and validation findings
type Result struct {
	Comprobante *Comprobante
	Datos       DatosPrincipales
	Version     Version

	// nil when validation is disabled
	Valid    *bool
	Errors   []string
	Warnings []string
}

// Processor wraps the internal processing pipeline
type Processor struct {
	pipeline *processor.Pipeline
	options  Options
}

// NewProcessor creates a processor with the given options
func NewProcessor(opts Options) *Processor {
	popts := []processor.PipelineOption{processor.WithConcurrency(opts.Concurrency)}
	if opts.Validate {
		popts = append(popts, processor.WithValidation(opts.Strict))
	}
	return &Processor{
		pipeline: processor.NewPipeline(popts...),
		options:  opts,
	}
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultOptions())
}

// Process reads one document from r
func (p *Processor) Process(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return toResult(p.pipeline.ProcessXMLBytes(ctx, data))
}

// ProcessBatch processes inputs concurrently. Results keep input order;
// a failed input leaves a nil entry and the first error is returned.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []io.Reader) ([]*Result, error) {
	batch := make([]processor.Input, len(inputs))
	for i, r := range inputs {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input %d: %w", i, err)
		}
		batch[i] = processor.Input{Source: fmt.Sprintf("input-%d", i), Data: data}
	}

	results := make([]*Result, len(inputs))
	var firstErr error
	for i, pr := range p.pipeline.ProcessBatch(ctx, batch) {
		res, err := toResult(pr)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results[i] = res
	}
	return results, firstErr
}

func toResult(pr *processor.Result) (*Result, error) {
	if pr.Error != nil {
		return nil, pr.Error
	}
	res := &Result{
		Comprobante: pr.Comprobante,
		Datos:       *pr.Datos,
		Version:     pr.Version,
	}
	if pr.Validation != nil {
		valid := pr.Validation.Valid
		res.Valid = &valid
		res.Errors, res.Warnings = pr.Validation.Messages()
	}
	return res, nil
}
