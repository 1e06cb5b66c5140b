// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"sync"

	"github.com/idxlab/searchsync/pkg/entity"
)

// Model is a built, immutable index declaration for one entity type. The
// wire documents are compiled once, on first use, and cached; recompiling a
// model always yields byte-identical documents.
type Model struct {
	entity         *entity.Type
	name           string
	root           *mappingLevel
	analyzer       string
	searchAnalyzer string
	numPartitions  *int
	typeSets       []TypeSet
	analyzers      []*CustomAnalyzer
	synonyms       []SynonymMapping
	vectors        []*VectorDefinition

	compileOnce sync.Once
	definitions []Definition
	compileErr  error
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) EntityName() string {
	return m.entity.Name()
}

// Definitions compiles the model into its desired index definitions: the
// search index first, then one vector index per vector declaration.
func (m *Model) Definitions() ([]Definition, error) {
	m.compileOnce.Do(func() {
		doc, err := compileSearchDefinition(m)
		if err != nil {
			m.compileErr = err
			return
		}
		defs := make([]Definition, 0, 1+len(m.vectors))
		defs = append(defs, Definition{
			Name:     m.name,
			Type:     IndexTypeSearch,
			Document: doc,
		})
		for _, v := range m.vectors {
			defs = append(defs, Definition{
				Name:     v.Name,
				Type:     IndexTypeVectorSearch,
				Document: compileVector(v),
			})
		}
		m.definitions = defs
	})
	return m.definitions, m.compileErr
}

// SearchDefinition returns the compiled search index definition alone.
func (m *Model) SearchDefinition() (Definition, error) {
	defs, err := m.Definitions()
	if err != nil {
		return Definition{}, err
	}
	return defs[0], nil
}

// ResolveVectorIndex picks the vector index to query for the member at the
// (possibly dotted) path. With a name it must match one of the path's
// declared indexes; without one the path must have exactly one candidate.
// Resolution is deterministic and side-effect free.
func (m *Model) ResolveVectorIndex(path, name string) (*VectorDefinition, error) {
	wirePath, err := m.entity.WirePath(path)
	if err != nil {
		return nil, err
	}

	var candidates []*VectorDefinition
	for _, v := range m.vectors {
		if v.Path == wirePath {
			candidates = append(candidates, v)
		}
	}

	if name != "" {
		for _, v := range candidates {
			if v.Name == name {
				return v, nil
			}
		}
		return nil, ErrVectorIndexNotFound{Path: wirePath, Name: name}
	}

	switch len(candidates) {
	case 0:
		return nil, ErrNoVectorIndexes{Path: wirePath}
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, v := range candidates {
			names[i] = v.Name
		}
		return nil, ErrMultipleVectorIndexes{Path: wirePath, Names: names}
	}
}
