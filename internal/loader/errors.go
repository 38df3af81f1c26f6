package loader

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error code constants.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeUnsupported = "E008" // Unsupported file extension
	ErrCodeDecode      = "E009" // YAML/JSON decode failed
	ErrCodeCUELoad     = "E004" // CUE load failed
	ErrCodeCUEBuild    = "E006" // CUE build failed
	ErrCodeInvalid     = "E010" // Decoded value has the wrong shape
	ErrCodeQuery       = "E020" // Query document failed to parse
)

// LoadError describes a file that could not be loaded.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// formatCUEError converts a CUE error to a LoadError carrying the position
// of the first error.
func formatCUEError(path, code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error(), Path: path}
	}

	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error(), Path: path}
	if positions := errors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
