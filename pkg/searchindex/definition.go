// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

type IndexType string

const (
	IndexTypeSearch       IndexType = "search"
	IndexTypeVectorSearch IndexType = "vectorSearch"
)

// IndexStatus is the build status the managed service reports for an index.
type IndexStatus string

const (
	IndexStatusBuilding     IndexStatus = "BUILDING"
	IndexStatusPending      IndexStatus = "PENDING"
	IndexStatusReady        IndexStatus = "READY"
	IndexStatusFailed       IndexStatus = "FAILED"
	IndexStatusDeleting     IndexStatus = "DELETING"
	IndexStatusStale        IndexStatus = "STALE"
	IndexStatusDoesNotExist IndexStatus = "DOES_NOT_EXIST"
)

// Definition is one desired index: the compiled wire document under its
// name. Definitions are recomputed from the model on each reconciliation
// pass and never mutated.
type Definition struct {
	Name     string
	Type     IndexType
	Document bson.D
}

// JSON renders the wire document with its key order preserved.
func (d Definition) JSON() ([]byte, error) {
	return bson.MarshalExtJSON(d.Document, false, false)
}

// IndexRecord is the remote, read-only view of an index as reported by the
// document store.
type IndexRecord struct {
	Name             string
	Type             IndexType
	Status           IndexStatus
	Queryable        bool
	StatusDetail     string
	LatestVersion    int64
	LatestDefinition bson.Raw
}

// Store is the narrow document-store contract this package consumes: list
// existing indexes with status, and submit new definitions. Everything else
// about the document store is out of scope.
type Store interface {
	ListSearchIndexes(ctx context.Context) ([]IndexRecord, error)
	CreateSearchIndex(ctx context.Context, name string, definition bson.D) error
	ListVectorIndexes(ctx context.Context) ([]IndexRecord, error)
	CreateVectorIndex(ctx context.Context, name string, definition bson.D) error
}
