// SPDX-License-Identifier: Apache-2.0

// Package mongodb implements the searchindex store contract on top of the
// driver's search index commands ($listSearchIndexes/createSearchIndexes).
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idxlab/searchsync/pkg/searchindex"
)

type Store struct {
	indexes mongo.SearchIndexView
}

func NewStore(collection *mongo.Collection) *Store {
	return &Store{indexes: collection.SearchIndexes()}
}

func (s *Store) ListSearchIndexes(ctx context.Context) ([]searchindex.IndexRecord, error) {
	return s.list(ctx, searchindex.IndexTypeSearch)
}

func (s *Store) ListVectorIndexes(ctx context.Context) ([]searchindex.IndexRecord, error) {
	return s.list(ctx, searchindex.IndexTypeVectorSearch)
}

func (s *Store) CreateSearchIndex(ctx context.Context, name string, definition bson.D) error {
	return s.create(ctx, name, searchindex.IndexTypeSearch, definition)
}

func (s *Store) CreateVectorIndex(ctx context.Context, name string, definition bson.D) error {
	return s.create(ctx, name, searchindex.IndexTypeVectorSearch, definition)
}

func (s *Store) list(ctx context.Context, indexType searchindex.IndexType) ([]searchindex.IndexRecord, error) {
	cursor, err := s.indexes.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing %s indexes: %w", indexType, err)
	}
	defer cursor.Close(ctx)

	var docs []indexDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding %s index list: %w", indexType, err)
	}

	records := make([]searchindex.IndexRecord, 0, len(docs))
	for _, doc := range docs {
		record := doc.toRecord()
		if record.Type == indexType {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *Store) create(ctx context.Context, name string, indexType searchindex.IndexType, definition bson.D) error {
	model := mongo.SearchIndexModel{
		Definition: definition,
		Options:    options.SearchIndexes().SetName(name).SetType(string(indexType)),
	}
	if _, err := s.indexes.CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating %s index %q: %w", indexType, name, err)
	}
	return nil
}

// indexDocument is the raw shape returned by $listSearchIndexes.
type indexDocument struct {
	Name             string   `bson:"name"`
	Type             string   `bson:"type"`
	Status           string   `bson:"status"`
	Queryable        bool     `bson:"queryable"`
	StatusDetail     bson.Raw `bson:"statusDetail"`
	LatestVersion    int64    `bson:"latestVersion"`
	LatestDefinition bson.Raw `bson:"latestDefinition"`
}

func (d indexDocument) toRecord() searchindex.IndexRecord {
	// older servers omit the type tag for plain search indexes
	indexType := searchindex.IndexType(d.Type)
	if indexType == "" {
		indexType = searchindex.IndexTypeSearch
	}

	detail := ""
	if len(d.StatusDetail) > 0 {
		detail = d.StatusDetail.String()
	}

	return searchindex.IndexRecord{
		Name:             d.Name,
		Type:             indexType,
		Status:           searchindex.IndexStatus(d.Status),
		Queryable:        d.Queryable,
		StatusDetail:     detail,
		LatestVersion:    d.LatestVersion,
		LatestDefinition: d.LatestDefinition,
	}
}
