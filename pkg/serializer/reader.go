package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// StdinPath names standard input in ReadFile.
const StdinPath = "-"

// ReadRecords decodes raw records from r. A top-level array yields one
// record per element; any other value is a single record. YAML streams may
// hold several documents. JSON numbers are kept as json.Number so integers
// survive without float rounding.
func ReadRecords(r io.Reader, format Format) ([]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var values []any
	switch format {
	case FormatJSON:
		values, err = decodeJSON(data)
	case FormatYAML:
		values, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q cannot be read", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var records []any
	for _, v := range values {
		if list, ok := v.([]any); ok {
			records = append(records, list...)
			continue
		}
		records = append(records, v)
	}
	return records, nil
}

// ReadFile reads records from path, or from stdin when path is StdinPath.
// The format is inferred from the extension unless format is set.
func ReadFile(path string, format Format) ([]any, error) {
	if path == StdinPath {
		if format == "" {
			format = FormatJSON
		}
		return ReadRecords(os.Stdin, format)
	}

	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return ReadRecords(file, format)
}

func decodeJSON(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("empty input")
	}
	return out, nil
}

func decodeYAML(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var out []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("empty input")
	}
	return out, nil
}
