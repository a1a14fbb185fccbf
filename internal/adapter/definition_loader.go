// Package adapter contains the infrastructure ports of the options chooser:
// definition files and the installer's global storage.
package adapter

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// DefinitionLoader reads group definitions from their on-disk form so the
// domain layer never touches files directly.
type DefinitionLoader interface {
	// Load parses one definitions file. Top-level groups without a source
	// tag are tagged with the file path.
	Load(ctx context.Context, path m.Path) ([]m.GroupDefinition, error)

	// LoadAll loads several files concurrently. The result holds one entry
	// per path, in argument order.
	LoadAll(ctx context.Context, paths []m.Path) ([][]m.GroupDefinition, error)
}

// LocalDefinitionLoader loads definitions from the local filesystem.
type LocalDefinitionLoader struct {
	limit int
}

// NewLocalDefinitionLoader returns a loader reading at most limit files at
// once. A limit below one means no limit.
func NewLocalDefinitionLoader(limit int) *LocalDefinitionLoader {
	return &LocalDefinitionLoader{limit: limit}
}

// Load reads and decodes path.
func (l *LocalDefinitionLoader) Load(ctx context.Context, path m.Path) ([]m.GroupDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read definitions %s: %w", path, err)
	}

	groups, err := ParseDefinitions(data, string(path))
	if err != nil {
		return nil, fmt.Errorf("parse definitions %s: %w", path, err)
	}

	return groups, nil
}

// LoadAll loads every path, failing on the first error.
func (l *LocalDefinitionLoader) LoadAll(ctx context.Context, paths []m.Path) ([][]m.GroupDefinition, error) {
	results := make([][]m.GroupDefinition, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		group.SetLimit(l.limit)
	}

	for i, path := range paths {
		group.Go(func() error {
			groups, err := l.Load(groupCtx, path)
			if err != nil {
				return err
			}

			results[i] = groups

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// ParseDefinitions decodes a YAML definitions document. Top-level groups
// without a source are tagged with source.
func ParseDefinitions(data []byte, source string) ([]m.GroupDefinition, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	groups, err := DecodeDefinitions(doc)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		if groups[i].Source == "" && !groups[i].IsZero() {
			groups[i].Source = source
		}
	}

	return groups, nil
}
