// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// compileSearchDefinition renders the canonical wire document for the model's
// search index. The emitted key order is part of the contract: analyzer,
// searchAnalyzer, mappings, typeSets, analyzers, storedSource, synonyms,
// numPartitions; optional keys are absent when unset.
func compileSearchDefinition(m *Model) (bson.D, error) {
	doc := bson.D{}
	if m.analyzer != "" {
		doc = append(doc, bson.E{Key: "analyzer", Value: m.analyzer})
	}
	if m.searchAnalyzer != "" {
		doc = append(doc, bson.E{Key: "searchAnalyzer", Value: m.searchAnalyzer})
	}

	mappings, storedSource, err := compileLevel(m.root)
	if err != nil {
		return nil, err
	}
	doc = append(doc, bson.E{Key: "mappings", Value: mappings})

	if len(m.typeSets) > 0 {
		typeSets := make(bson.A, 0, len(m.typeSets))
		for _, ts := range m.typeSets {
			types := make(bson.A, 0, len(ts.Types))
			for _, ft := range ts.Types {
				compiled, err := compileType(ft)
				if err != nil {
					return nil, err
				}
				types = append(types, compiled)
			}
			typeSets = append(typeSets, bson.D{
				{Key: "name", Value: ts.Name},
				{Key: "types", Value: types},
			})
		}
		doc = append(doc, bson.E{Key: "typeSets", Value: typeSets})
	}

	if len(m.analyzers) > 0 {
		analyzers := make(bson.A, 0, len(m.analyzers))
		for _, a := range m.analyzers {
			compiled, err := a.compile()
			if err != nil {
				return nil, err
			}
			analyzers = append(analyzers, compiled)
		}
		doc = append(doc, bson.E{Key: "analyzers", Value: analyzers})
	}

	if storedSource != nil {
		doc = append(doc, bson.E{Key: "storedSource", Value: storedSource})
	}

	if len(m.synonyms) > 0 {
		synonyms := make(bson.A, 0, len(m.synonyms))
		for _, s := range m.synonyms {
			synonyms = append(synonyms, s.compile())
		}
		doc = append(doc, bson.E{Key: "synonyms", Value: synonyms})
	}

	if m.numPartitions != nil {
		doc = append(doc, bson.E{Key: "numPartitions", Value: *m.numPartitions})
	}
	return doc, nil
}

// compileLevel renders one document level as its mappings object (dynamic
// then fields) plus the level's aggregated stored-source value, nil when the
// level declares none.
func compileLevel(l *mappingLevel) (bson.D, any, error) {
	var dynamic any
	if l.dynamic.TypeSet != "" {
		dynamic = bson.D{{Key: "typeSet", Value: l.dynamic.TypeSet}}
	} else {
		dynamic = l.dynamic.On
	}

	fields := bson.D{}
	for _, node := range l.nodes {
		compiled, err := compileNode(node)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, bson.E{Key: node.name, Value: compiled})
	}

	mappings := bson.D{
		{Key: "dynamic", Value: dynamic},
		{Key: "fields", Value: fields},
	}

	storedSource, err := aggregateStoredSource(l)
	if err != nil {
		return nil, nil, err
	}
	return mappings, storedSource, nil
}

// compileNode emits a single type object for one declared type, an array of
// type objects in declaration order for several, and an empty array for an
// excluded leaf with none.
func compileNode(node *fieldNode) (any, error) {
	compiled := make(bson.A, 0, len(node.types))
	for _, ft := range node.types {
		typeDoc, err := compileType(ft)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, typeDoc)
	}
	if len(compiled) == 1 {
		return compiled[0], nil
	}
	return compiled, nil
}

func compileType(ft FieldType) (bson.D, error) {
	doc := bson.D{{Key: "type", Value: ft.fieldTypeName()}}

	switch t := ft.(type) {
	case *StringField:
		if t.Analyzer != "" {
			doc = append(doc, bson.E{Key: "analyzer", Value: t.Analyzer})
		}
		if t.SearchAnalyzer != "" {
			doc = append(doc, bson.E{Key: "searchAnalyzer", Value: t.SearchAnalyzer})
		}
		if t.Similarity != "" {
			doc = append(doc, bson.E{Key: "similarity", Value: t.Similarity})
		}
		if t.IgnoreAbove != nil {
			doc = append(doc, bson.E{Key: "ignoreAbove", Value: *t.IgnoreAbove})
		}
		if t.IndexOptions != "" {
			doc = append(doc, bson.E{Key: "indexOptions", Value: string(t.IndexOptions)})
		}
		if t.Store != nil {
			doc = append(doc, bson.E{Key: "store", Value: *t.Store})
		}
		if t.Norms != "" {
			doc = append(doc, bson.E{Key: "norms", Value: string(t.Norms)})
		}
		multi, err := compileMulti(t.Multi)
		if err != nil {
			return nil, err
		}
		if multi != nil {
			doc = append(doc, bson.E{Key: "multi", Value: multi})
		}

	case *TokenField:
		if t.Normalizer != "" {
			doc = append(doc, bson.E{Key: "normalizer", Value: t.Normalizer})
		}

	case *AutocompleteField:
		if t.Analyzer != "" {
			doc = append(doc, bson.E{Key: "analyzer", Value: t.Analyzer})
		}
		if t.Similarity != "" {
			doc = append(doc, bson.E{Key: "similarity", Value: t.Similarity})
		}
		if t.MinGrams != nil {
			doc = append(doc, bson.E{Key: "minGrams", Value: *t.MinGrams})
		}
		if t.MaxGrams != nil {
			doc = append(doc, bson.E{Key: "maxGrams", Value: *t.MaxGrams})
		}
		if t.FoldDiacritics != nil {
			doc = append(doc, bson.E{Key: "foldDiacritics", Value: *t.FoldDiacritics})
		}
		if t.Tokenization != "" {
			doc = append(doc, bson.E{Key: "tokenization", Value: string(t.Tokenization)})
		}
		multi, err := compileMulti(t.Multi)
		if err != nil {
			return nil, err
		}
		if multi != nil {
			doc = append(doc, bson.E{Key: "multi", Value: multi})
		}

	case *NumberField:
		if t.Representation != "" {
			doc = append(doc, bson.E{Key: "representation", Value: string(t.Representation)})
		}
		if t.IndexIntegers != nil {
			doc = append(doc, bson.E{Key: "indexIntegers", Value: *t.IndexIntegers})
		}
		if t.IndexDoubles != nil {
			doc = append(doc, bson.E{Key: "indexDoubles", Value: *t.IndexDoubles})
		}

	case *BooleanField, *DateField, *ObjectIDField, *UUIDField:
		// type tag only

	case *GeoField:
		if t.IndexShapes != nil {
			doc = append(doc, bson.E{Key: "indexShapes", Value: *t.IndexShapes})
		}

	case *documentField:
		return compileEmbedded(doc, t.level)

	case *embeddedDocumentsField:
		return compileEmbedded(doc, t.level)

	default:
		// sealed interface: reaching this is an upstream invariant violation
		return nil, fmt.Errorf("unexpected field type %T", ft)
	}

	return doc, nil
}

// compileEmbedded recurses into a nested document level: type, dynamic,
// fields, then the level's own storedSource when it declares one.
func compileEmbedded(doc bson.D, level *mappingLevel) (bson.D, error) {
	mappings, storedSource, err := compileLevel(level)
	if err != nil {
		return nil, err
	}
	doc = append(doc, mappings...)
	if storedSource != nil {
		doc = append(doc, bson.E{Key: "storedSource", Value: storedSource})
	}
	return doc, nil
}

// compileMulti renders alternates as a map keyed by alternate name, each
// value a full type object, in declaration order.
func compileMulti(alternates []AlternateAnalyzer) (bson.D, error) {
	if len(alternates) == 0 {
		return nil, nil
	}
	multi := make(bson.D, 0, len(alternates))
	for _, alt := range alternates {
		compiled, err := compileType(alt.Type)
		if err != nil {
			return nil, err
		}
		multi = append(multi, bson.E{Key: alt.Name, Value: compiled})
	}
	return multi, nil
}
