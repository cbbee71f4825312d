// Package config reads the small, static configuration every rank and the
// coordinator must agree on before a table can be constructed.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the run-wide agreement on table shape: how many ranks will
// participate and how many slots each of them owns. Every rank process and
// the coordinator read the same manifest file so that construction-time
// capacity agreement (every rank supplying the same C) is guaranteed by the
// deployment rather than by a runtime handshake.
type Manifest struct {
	// Ranks is the fixed number of processes in the collective, N.
	Ranks int `yaml:"ranks"`
	// Capacity is the fixed per-rank slot count, C.
	Capacity int `yaml:"capacity"`
	// BatchFraction overrides the default 1% write-batching fraction used
	// to derive batch_size = max(1, Capacity/BatchFraction). Zero means
	// use the default of 100.
	BatchFraction int `yaml:"batch_fraction,omitempty"`
}

// LoadManifest reads and validates a cluster manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parsing manifest %s: %w", path, err)
	}
	if m.Ranks <= 0 {
		return nil, fmt.Errorf("config: manifest %s: ranks must be > 0, got %d", path, m.Ranks)
	}
	if m.Capacity <= 0 {
		return nil, fmt.Errorf("config: manifest %s: capacity must be > 0, got %d", path, m.Capacity)
	}
	if m.BatchFraction < 0 {
		return nil, fmt.Errorf("config: manifest %s: batch_fraction must be >= 0, got %d", path, m.BatchFraction)
	}
	return &m, nil
}

// BatchSize derives the write-batching target from the manifest, mirroring
// internal/dht.New's default when BatchFraction is unset.
func (m *Manifest) BatchSize() int {
	fraction := m.BatchFraction
	if fraction == 0 {
		fraction = 100
	}
	size := m.Capacity / fraction
	if size < 1 {
		size = 1
	}
	return size
}
