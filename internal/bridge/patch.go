package bridge

import (
	"fmt"
	"slices"
)

// Section names one part of a native configuration.
type Section string

// Patch is one named mutation of a native configuration of type T.
type Patch[T any] struct {
	Name   string
	Reads  []Section
	Writes []Section
	Apply  func(cfg T) error
}

// Pipeline applies patches in their declared order.
type Pipeline[T any] struct {
	patches []Patch[T]
}

// NewPipeline creates a pipeline from patches in application order.
func NewPipeline[T any](patches ...Patch[T]) *Pipeline[T] {
	return &Pipeline[T]{patches: patches}
}

// Add appends a patch.
func (p *Pipeline[T]) Add(patch Patch[T]) *Pipeline[T] {
	p.patches = append(p.patches, patch)
	return p
}

// Names returns the patch names in application order.
func (p *Pipeline[T]) Names() []string {
	names := make([]string, len(p.patches))
	for i, patch := range p.patches {
		names[i] = patch.Name
	}
	return names
}

// Validate rejects duplicate patch names and any patch that reads a
// section written by a patch scheduled after it.
func (p *Pipeline[T]) Validate() error {
	seen := make(map[string]bool, len(p.patches))
	for i, patch := range p.patches {
		if seen[patch.Name] {
			return fmt.Errorf("%w: patch %q appears twice", ErrPatchOrder, patch.Name)
		}
		seen[patch.Name] = true

		for _, later := range p.patches[i+1:] {
			for _, r := range patch.Reads {
				if slices.Contains(later.Writes, r) {
					return fmt.Errorf("%w: %q reads %q which %q writes later", ErrPatchOrder, patch.Name, r, later.Name)
				}
			}
		}
	}
	return nil
}

// Apply validates the pipeline and runs every patch against cfg. It stops
// at the first failing patch.
func (p *Pipeline[T]) Apply(cfg T) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, patch := range p.patches {
		if err := patch.Apply(cfg); err != nil {
			return fmt.Errorf("patch %s: %w", patch.Name, err)
		}
	}
	return nil
}
