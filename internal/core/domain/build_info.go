package domain

import "time"

// BuildInfo is the cache record of the last successful build for one engine.
type BuildInfo struct {
	Name        string     `json:"name,omitzero"`
	Engine      EngineKind `json:"engine,omitzero"`
	Fingerprint string     `json:"fingerprint,omitzero"`
	Inputs      []string   `json:"inputs,omitzero"`
	InputHash   string     `json:"input_hash,omitzero"`
	OutputHash  string     `json:"output_hash,omitzero"`
	Assets      []string   `json:"assets,omitzero"`
	Timestamp   time.Time  `json:"timestamp,omitzero"`
}
