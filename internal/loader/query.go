package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/esdsl/internal/ir"
	"github.com/roach88/esdsl/internal/query"
)

// LoadQuery reads a query file and parses it into a request.
// A bare clause is wrapped in a request with default paging.
func LoadQuery(path string) (*query.Request, error) {
	doc, err := loadObject(path)
	if err != nil {
		return nil, err
	}

	var req *query.Request
	if _, ok := doc["query"]; ok {
		req, err = query.ParseRequest(doc)
	} else {
		var clause query.Clause
		clause, err = query.Parse(doc)
		req = query.NewRequest(clause)
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeQuery, Message: err.Error(), Path: path}
	}
	return req, nil
}

// loadObject decodes a query file into a normalized object.
func loadObject(path string) (map[string]any, error) {
	var (
		raw any
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		raw, err = decodeYAMLFile(path)
	case ".json":
		raw, err = decodeJSONFile(path)
	case ".cue":
		raw, err = decodeCUEFile(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported query file extension %q (want .yaml, .yml, .json or .cue)", ext),
			Path:    path,
		}
	}
	if err != nil {
		return nil, err
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeInvalid,
			Message: fmt.Sprintf("query file must contain an object, got %T", raw),
			Path:    path,
		}
	}
	return obj, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "file not found", Path: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("read file: %v", err), Path: path}
	}
	return data, nil
}

func decodeYAMLFile(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return decodeYAML(path, data)
}

func decodeYAML(path string, data []byte) (any, error) {
	var raw any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("failed to parse YAML: %v", err), Path: path}
	}
	v, err := ir.Normalize(raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), Path: path}
	}
	return v, nil
}

func decodeJSONFile(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := ir.DecodeJSON(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("failed to parse JSON: %v", err), Path: path}
	}
	return v, nil
}

// decodeCUEFile evaluates a single CUE file. The result must be concrete;
// definitions and hidden fields are dropped by the JSON export.
func decodeCUEFile(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(path, ErrCodeCUEBuild, err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(path, ErrCodeCUEBuild, err)
	}

	exported, err := value.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(path, ErrCodeCUELoad, err)
	}
	v, err := ir.DecodeJSON(exported)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error(), Path: path}
	}
	return v, nil
}
