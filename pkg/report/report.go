// Package report serializes crawl results to their output formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/endmap/endmap/pkg/endpoint"
)

// ErrUnknownFormat is returned for formats the writer does not support.
// Callers treat it as fatal; no output file is created.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
var Formats = []string{"json", "txt", "csv"}

// Supported reports whether format names a known output format.
func Supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Render writes endpoints to w in the given format.
func Render(w io.Writer, endpoints []endpoint.Endpoint, format string) error {
	switch format {
	case "json":
		return renderJSON(w, endpoints)
	case "txt":
		return renderTXT(w, endpoints)
	case "csv":
		return renderCSV(w, endpoints)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile renders endpoints to path. The format is checked before the
// file is touched so a bad format never leaves an empty file behind.
func WriteFile(path string, endpoints []endpoint.Endpoint, format string) error {
	if !Supported(format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Render(f, endpoints, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderJSON(w io.Writer, endpoints []endpoint.Endpoint) error {
	if endpoints == nil {
		endpoints = []endpoint.Endpoint{}
	}
	data, err := json.MarshalIndent(endpoints, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal endpoints: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func renderTXT(w io.Writer, endpoints []endpoint.Endpoint) error {
	for _, e := range endpoints {
		if _, err := fmt.Fprintln(w, e.URL); err != nil {
			return err
		}
	}
	return nil
}

func renderCSV(w io.Writer, endpoints []endpoint.Endpoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"URL", "Method", "Body Params", "Extra Headers"}); err != nil {
		return err
	}
	for _, e := range endpoints {
		body, err := jsonCell(e.BodyParams)
		if err != nil {
			return err
		}
		headers, err := jsonCell(e.ExtraHeaders)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{e.URL, e.Method, body, headers}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonCell renders a nested field as JSON text, empty when unset.
func jsonCell(v any) (string, error) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			return "", nil
		}
	case map[string]string:
		if len(t) == 0 {
			return "", nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal cell: %w", err)
	}
	return string(data), nil
}
