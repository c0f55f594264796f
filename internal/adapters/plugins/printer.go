// Package plugins writes the plugin enumeration module required by the query engine entry.
package plugins

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"text/template"

	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PluginPrinter = (*Printer)(nil)

var moduleTemplate = template.Must(template.New("plugins").Funcs(template.FuncMap{
	"quote": quote,
}).Parse(`/* eslint-disable */
// Generated by qeb. Do not edit.
module.exports = [
{{- range . }}
  { name: {{ quote . }}, module: require({{ quote . }}) },
{{- end }}
]
`))

// Printer implements ports.PluginPrinter.
type Printer struct {
	logger ports.Logger
}

// NewPrinter creates a new Printer.
func NewPrinter(logger ports.Logger) *Printer {
	return &Printer{logger: logger}
}

// Render returns the enumeration module source for plugins, in order.
func Render(plugins []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := moduleTemplate.Execute(&buf, plugins); err != nil {
		return nil, zerr.Wrap(err, "failed to render plugin module")
	}
	return buf.Bytes(), nil
}

// Print writes the enumeration module below root. An unchanged module is not
// rewritten so engine caches keyed on file times stay warm.
func (p *Printer) Print(ctx context.Context, root string, plugins []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	source, err := Render(plugins)
	if err != nil {
		return errors.Join(domain.ErrPluginEnumerationFailed, err)
	}

	path := domain.PluginsPath(root)
	existing, err := os.ReadFile(path) //nolint:gosec // path is derived from the project root
	if err == nil && bytes.Equal(existing, source) {
		return nil
	}

	if err := writeFile(path, source); err != nil {
		return errors.Join(domain.ErrPluginEnumerationFailed, err)
	}

	p.logger.Info("enumerated query engine plugins")
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache directory"), "path", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".plugins-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary plugin module")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write plugin module")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write plugin module")
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to set plugin module permissions")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write plugin module"), "path", path)
	}
	return nil
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
