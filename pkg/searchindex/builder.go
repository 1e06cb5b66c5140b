// SPDX-License-Identifier: Apache-2.0

// Package searchindex declares, compiles and reconciles managed search and
// vector index definitions for document-shaped entity models.
package searchindex

import (
	"errors"

	"github.com/idxlab/searchsync/pkg/entity"
)

// DefaultIndexName is the name the managed service gives an index created
// without an explicit one.
const DefaultIndexName = "default"

// Builder accumulates a search index declaration for one entity type. All
// validation against the entity model happens eagerly as calls are made;
// accumulated errors are returned together by Build. A Builder is not safe
// for concurrent use and must not be reused after Build.
type Builder struct {
	scope

	name           string
	analyzer       string
	searchAnalyzer string
	numPartitions  *int
	typeSets       []TypeSet
	analyzers      []*CustomAnalyzer
	synonyms       []SynonymMapping
	vectors        []*VectorDefinition

	errs []error
}

// TypeSet is a named, ordered list of field types applied to every
// dynamically discovered field at levels configured with DynamicTypeSet.
type TypeSet struct {
	Name  string
	Types []FieldType
}

// scope is one nesting level of the declaration: the root of the Builder, or
// the child context handed to Embed/EmbedArray callbacks. Each scope owns its
// level outright, so no child context outlives its callback.
type scope struct {
	b      *Builder
	entity *entity.Type
	level  *mappingLevel
}

type mappingLevel struct {
	dynamic     Dynamic
	nodes       []*fieldNode
	byName      map[string]*fieldNode
	storedAll   bool
	storedPaths []storedSourcePath
}

type storedSourcePath struct {
	path    string
	include bool
}

// fieldNode is one indexed path segment: a leaf with zero or more types, an
// embedding with a child level, or both when a field fans out to a scalar
// and an embedded shape.
type fieldNode struct {
	name     string
	types    []FieldType
	excluded bool
}

func newMappingLevel() *mappingLevel {
	return &mappingLevel{byName: make(map[string]*fieldNode)}
}

func (l *mappingLevel) node(name string) *fieldNode {
	if n, ok := l.byName[name]; ok {
		return n
	}
	n := &fieldNode{name: name}
	l.nodes = append(l.nodes, n)
	l.byName[name] = n
	return n
}

// NewBuilder starts a search index declaration for the given entity type.
// An empty name declares the service's default index.
func NewBuilder(et *entity.Type, name string) *Builder {
	if name == "" {
		name = DefaultIndexName
	}
	b := &Builder{name: name}
	b.scope = scope{b: b, entity: et, level: newMappingLevel()}
	return b
}

func (s *scope) fail(err error) {
	s.b.errs = append(s.b.errs, err)
}

// Field indexes a member with the given type. Calling Field again for the
// same member appends another type, producing a multi-typed field rather
// than overwriting the previous declaration.
func (s *scope) Field(member string, ft FieldType) *scope {
	m, err := s.entity.Member(member)
	if err != nil {
		s.fail(err)
		return s
	}
	node := s.level.node(m.WireName)
	node.types = append(node.types, ft)
	return s
}

// IndexAsString, IndexAsBoolean and friends are shorthand for Field with a
// zero-configured type.
func (s *scope) IndexAsString(member string) *scope  { return s.Field(member, &StringField{}) }
func (s *scope) IndexAsBoolean(member string) *scope { return s.Field(member, &BooleanField{}) }
func (s *scope) IndexAsNumber(member string) *scope  { return s.Field(member, &NumberField{}) }
func (s *scope) IndexAsDate(member string) *scope    { return s.Field(member, &DateField{}) }
func (s *scope) IndexAsToken(member string) *scope   { return s.Field(member, &TokenField{}) }

// Embed declares a nested mapping for a singular document navigation. The
// callback receives the child scope and may use the full per-level surface.
func (s *scope) Embed(member string, fn func(*scope)) *scope {
	return s.embed(member, false, fn)
}

// EmbedArray declares a nested mapping for a collection navigation.
func (s *scope) EmbedArray(member string, fn func(*scope)) *scope {
	return s.embed(member, true, fn)
}

func (s *scope) embed(member string, collection bool, fn func(*scope)) *scope {
	m, target, err := s.entity.Navigation(member, collection)
	if err != nil {
		s.fail(err)
		return s
	}

	child := newMappingLevel()
	node := s.level.node(m.WireName)
	if collection {
		node.types = append(node.types, &embeddedDocumentsField{level: child})
	} else {
		node.types = append(node.types, &documentField{level: child})
	}

	if fn != nil {
		fn(&scope{b: s.b, entity: target, level: child})
	}
	return s
}

// IsDynamic turns dynamic mapping on at this level.
func (s *scope) IsDynamic() *scope {
	return s.SetDynamic(DynamicOn())
}

func (s *scope) SetDynamic(d Dynamic) *scope {
	s.level.dynamic = d
	return s
}

// Exclude keeps a member out of dynamic mapping at this level. An excluded
// member with no declared types compiles to an empty type array.
func (s *scope) Exclude(member string) *scope {
	m, err := s.entity.Member(member)
	if err != nil {
		s.fail(err)
		return s
	}
	s.level.node(m.WireName).excluded = true
	return s
}

// StoreAllSource stores the entire level's original fields verbatim.
func (s *scope) StoreAllSource() *scope {
	if len(s.level.storedPaths) > 0 {
		s.fail(ErrStoredSourceConflict{Entity: s.entity.Name()})
		return s
	}
	s.level.storedAll = true
	return s
}

// StoreSourceFor includes the member at the (possibly dotted) path in this
// level's stored source.
func (s *scope) StoreSourceFor(path string) *scope {
	return s.storeSource(path, true)
}

// OmitSourceFor excludes the member at the (possibly dotted) path from this
// level's stored source. Includes and excludes are mutually exclusive within
// one level.
func (s *scope) OmitSourceFor(path string) *scope {
	return s.storeSource(path, false)
}

func (s *scope) storeSource(path string, include bool) *scope {
	wirePath, err := s.entity.WirePath(path)
	if err != nil {
		s.fail(err)
		return s
	}
	if s.level.storedAll {
		s.fail(ErrStoredSourceConflict{Entity: s.entity.Name()})
		return s
	}
	for _, existing := range s.level.storedPaths {
		if existing.include != include {
			s.fail(ErrStoredSourceConflict{Entity: s.entity.Name()})
			return s
		}
	}
	s.level.storedPaths = append(s.level.storedPaths, storedSourcePath{path: wirePath, include: include})
	return s
}

// HasAnalyzer sets the index-wide default analyzer.
func (b *Builder) HasAnalyzer(name string) *Builder {
	b.analyzer = name
	return b
}

// HasSearchAnalyzer sets the index-wide query-time analyzer.
func (b *Builder) HasSearchAnalyzer(name string) *Builder {
	b.searchAnalyzer = name
	return b
}

// HasPartitions splits the index into n partitions.
func (b *Builder) HasPartitions(n int) *Builder {
	b.numPartitions = Ptr(n)
	return b
}

// AddTypeSet registers a named type set; types keep declaration order.
func (b *Builder) AddTypeSet(name string, types ...FieldType) *Builder {
	b.typeSets = append(b.typeSets, TypeSet{Name: name, Types: types})
	return b
}

// AddCustomAnalyzer registers a custom analysis pipeline. The pipeline is
// validated when the definition is compiled, once the full analyzer set is
// assembled.
func (b *Builder) AddCustomAnalyzer(a *CustomAnalyzer) *Builder {
	b.analyzers = append(b.analyzers, a)
	return b
}

// AddSynonyms registers a synonym mapping backed by the given collection.
func (b *Builder) AddSynonyms(name, analyzer, collection string) *Builder {
	b.synonyms = append(b.synonyms, SynonymMapping{
		Name:             name,
		SourceCollection: collection,
		Analyzer:         analyzer,
	})
	return b
}

// Build validates nothing further: it returns the model together with every
// error the declaration calls accumulated, joined.
func (b *Builder) Build() (*Model, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return &Model{
		entity:         b.entity,
		name:           b.name,
		root:           b.level,
		analyzer:       b.analyzer,
		searchAnalyzer: b.searchAnalyzer,
		numPartitions:  b.numPartitions,
		typeSets:       b.typeSets,
		analyzers:      b.analyzers,
		synonyms:       b.synonyms,
		vectors:        b.vectors,
	}, nil
}
