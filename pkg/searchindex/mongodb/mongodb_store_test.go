// SPDX-License-Identifier: Apache-2.0

package mongodb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/idxlab/searchsync/pkg/searchindex"
)

func TestIndexDocument_ToRecord(t *testing.T) {
	t.Parallel()

	detail, err := bson.Marshal(bson.D{{Key: "message", Value: "quota exceeded"}})
	require.NoError(t, err)
	definition, err := bson.Marshal(bson.D{
		{Key: "mappings", Value: bson.D{{Key: "dynamic", Value: true}}},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  indexDocument

		wantRecord searchindex.IndexRecord
	}{
		{
			name: "ready search index",
			doc: indexDocument{
				Name:             "pets",
				Type:             "search",
				Status:           "READY",
				Queryable:        true,
				LatestVersion:    3,
				LatestDefinition: definition,
			},
			wantRecord: searchindex.IndexRecord{
				Name:             "pets",
				Type:             searchindex.IndexTypeSearch,
				Status:           searchindex.IndexStatusReady,
				Queryable:        true,
				LatestVersion:    3,
				LatestDefinition: definition,
			},
		},
		{
			name: "missing type defaults to search",
			doc: indexDocument{
				Name:   "legacy",
				Status: "BUILDING",
			},
			wantRecord: searchindex.IndexRecord{
				Name:   "legacy",
				Type:   searchindex.IndexTypeSearch,
				Status: searchindex.IndexStatusBuilding,
			},
		},
		{
			name: "failed vector index carries status detail",
			doc: indexDocument{
				Name:         "pets_vector",
				Type:         "vectorSearch",
				Status:       "FAILED",
				StatusDetail: detail,
			},
			wantRecord: searchindex.IndexRecord{
				Name:         "pets_vector",
				Type:         searchindex.IndexTypeVectorSearch,
				Status:       searchindex.IndexStatusFailed,
				StatusDetail: bson.Raw(detail).String(),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantRecord, tc.doc.toRecord())
		})
	}
}
