// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/idxlab/searchsync/pkg/searchindex"
)

type Store struct {
	ListSearchIndexesFn func(ctx context.Context) ([]searchindex.IndexRecord, error)
	CreateSearchIndexFn func(ctx context.Context, name string, definition bson.D) error
	ListVectorIndexesFn func(ctx context.Context) ([]searchindex.IndexRecord, error)
	CreateVectorIndexFn func(ctx context.Context, name string, definition bson.D) error
}

func (m *Store) ListSearchIndexes(ctx context.Context) ([]searchindex.IndexRecord, error) {
	return m.ListSearchIndexesFn(ctx)
}

func (m *Store) CreateSearchIndex(ctx context.Context, name string, definition bson.D) error {
	return m.CreateSearchIndexFn(ctx, name, definition)
}

func (m *Store) ListVectorIndexes(ctx context.Context) ([]searchindex.IndexRecord, error) {
	return m.ListVectorIndexesFn(ctx)
}

func (m *Store) CreateVectorIndex(ctx context.Context, name string, definition bson.D) error {
	return m.CreateVectorIndexFn(ctx, name, definition)
}
