package bindgen

import (
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-pdk/abi"
	"github.com/wippyai/wasm-pdk/errors"
)

// ManifestEntry describes one generated export for tooling that loads
// the compiled plugin.
type ManifestEntry struct {
	Export   string   `yaml:"export"`
	Function string   `yaml:"function"`
	Params   []string `yaml:"params,omitempty"`
	Result   string   `yaml:"result,omitempty"`
}

// Manifest is the full export listing written next to the generated
// source.
type Manifest struct {
	Module  string          `yaml:"module"`
	Exports []ManifestEntry `yaml:"exports"`
}

// BuildManifest summarizes valid descriptors into a manifest.
func BuildManifest(module string, descs []ExportDescriptor) Manifest {
	m := Manifest{Module: module, Exports: make([]ManifestEntry, 0, len(descs))}
	for i := range descs {
		d := &descs[i]
		entry := ManifestEntry{
			Export:   d.WasmExportName(),
			Function: d.QualifiedName(),
		}
		for _, p := range d.Params {
			entry.Params = append(entry.Params, p.Type.Kind.String())
		}
		if d.Result.Kind != abi.KindVoid {
			entry.Result = d.Result.Kind.String()
		}
		m.Exports = append(m.Exports, entry)
	}
	return m
}

// Encode renders the manifest as YAML.
func (m Manifest) Encode() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Cause(err).
			Detail("encoding export manifest").
			Build()
	}
	return data, nil
}
