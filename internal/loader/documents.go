package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/esdsl/internal/ir"
)

// LoadDocuments reads a document file into a list of objects.
//
// .yaml, .yml and .json files hold a list of objects (a single object is
// accepted as a list of one). .jsonl and .ndjson files hold one object per
// line; blank lines are skipped.
func LoadDocuments(path string) ([]map[string]any, error) {
	var (
		raw any
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		raw, err = decodeYAMLFile(path)
	case ".json":
		raw, err = decodeJSONFile(path)
	case ".jsonl", ".ndjson":
		return decodeJSONLinesFile(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported document file extension %q (want .yaml, .yml, .json, .jsonl or .ndjson)", ext),
			Path:    path,
		}
	}
	if err != nil {
		return nil, err
	}

	switch v := raw.(type) {
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		docs := make([]map[string]any, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, &LoadError{
					Code:    ErrCodeInvalid,
					Message: fmt.Sprintf("document [%d] must be an object, got %T", i, elem),
					Path:    path,
				}
			}
			docs[i] = obj
		}
		return docs, nil
	case nil:
		return []map[string]any{}, nil
	default:
		return nil, &LoadError{
			Code:    ErrCodeInvalid,
			Message: fmt.Sprintf("document file must contain a list of objects, got %T", raw),
			Path:    path,
		}
	}
}

func decodeJSONLinesFile(path string) ([]map[string]any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	docs := []map[string]any{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		obj, err := ir.DecodeJSONObject(text)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeDecode,
				Message: fmt.Sprintf("line %d: %v", line, err),
				Path:    path,
			}
		}
		docs = append(docs, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("read lines: %v", err), Path: path}
	}
	return docs, nil
}
