package server

import (
	"github.com/rezonia/cfdi-processor/internal/model"
)

// ParseResponse is the response for the parse endpoint
type ParseResponse struct {
	Version     string             `json:"version"`
	Comprobante *model.Comprobante `json:"comprobante"`
}

// ValidationResponse is the response for validate endpoint
type ValidationResponse struct {
	Valid    bool                   `json:"valid"`
	Version  string                 `json:"version"`
	UUID     model.Optional[string] `json:"uuid"`
	Errors   []string               `json:"errors,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

// InfoResponse is the response for info endpoint
type InfoResponse struct {
	Format  string                 `json:"format"`
	Size    int                    `json:"size"`
	Version string                 `json:"version,omitempty"`
	Stamped bool                   `json:"stamped"`
	UUID    model.Optional[string] `json:"uuid"`
	Error   string                 `json:"error,omitempty"`
}

// ErrorResponse is the standard error response. Parse failures carry the
// structured fields of the underlying model.ParseError.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Element   string `json:"element,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
