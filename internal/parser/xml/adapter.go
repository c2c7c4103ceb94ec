// Package xml decodes CFDI documents into the model.
//
// Decoding is a pure function of the input: no I/O, no shared mutable
// state, so a Registry can be used from many goroutines at once.
package xml

import (
	"errors"

	"github.com/beevik/etree"

	"github.com/rezonia/cfdi-processor/internal/model"
)

// Adapter decodes one CFDI attribute layout
type Adapter interface {
	// Decode maps a Comprobante root element onto the model
	Decode(root *etree.Element) (*model.Comprobante, error)

	// CanParse returns true if adapter can handle this root
	CanParse(root *etree.Element) bool

	// Version returns the layout version
	Version() model.Version
}

// Registry holds all registered adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates registry with all adapters
// Order matters: the legacy adapter accepts anything and must stay last
func NewRegistry() *Registry {
	return &Registry{
		adapters: []Adapter{
			NewCFDI40Adapter(), // Version="4.0"
			NewLegacyAdapter(), // fallback
		},
	}
}

// Parse parses a CFDI document from text
func Parse(xmlText string) (*model.Comprobante, error) {
	return NewRegistry().Parse([]byte(xmlText))
}

// Parse reads the document and decodes it with the matching adapter
func (r *Registry) Parse(content []byte) (*model.Comprobante, error) {
	root, err := readRoot(content)
	if err != nil {
		return nil, err
	}
	adapter, err := r.Detect(root)
	if err != nil {
		return nil, err
	}
	return adapter.Decode(root)
}

// Detect identifies the layout of a Comprobante root
func (r *Registry) Detect(root *etree.Element) (Adapter, error) {
	for _, a := range r.adapters {
		if a.CanParse(root) {
			return a, nil
		}
	}
	return nil, model.NewMissingRootError(root.Tag)
}

// DetectVersion reads content far enough to tell its layout
func (r *Registry) DetectVersion(content []byte) (model.Version, error) {
	root, err := readRoot(content)
	if err != nil {
		return "", err
	}
	adapter, err := r.Detect(root)
	if err != nil {
		return "", err
	}
	return adapter.Version(), nil
}

// RegisterAdapter adds a custom adapter to the registry
func (r *Registry) RegisterAdapter(a Adapter) {
	// Add at the beginning so custom adapters take priority
	r.adapters = append([]Adapter{a}, r.adapters...)
}

// GetAdapter returns adapter for a specific version
func (r *Registry) GetAdapter(version model.Version) Adapter {
	for _, a := range r.adapters {
		if a.Version() == version {
			return a
		}
	}
	return nil
}

var (
	errTextOutsideRoot = errors.New("text outside the root element")
	errMultipleRoots   = errors.New("more than one top-level element")
)

// readRoot tokenizes content and returns its Comprobante root
func readRoot(content []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, model.NewMalformedXMLError(err)
	}
	if err := checkProlog(doc); err != nil {
		return nil, model.NewMalformedXMLError(err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewMissingRootError("")
	}
	if root.Tag != tagComprobante {
		return nil, model.NewMissingRootError(root.Tag)
	}
	return root, nil
}

// checkProlog rejects what etree tolerates at document level but XML does not:
// character data outside the root and more than one root element
func checkProlog(doc *etree.Document) error {
	elements := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if !t.IsWhitespace() {
				return errTextOutsideRoot
			}
		case *etree.Element:
			elements++
		}
	}
	if elements > 1 {
		return errMultipleRoots
	}
	return nil
}
