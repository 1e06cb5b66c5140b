// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/idxlab/searchsync/pkg/entity"
)

var errTest = errors.New("oh noes")

type testOwner struct {
	Name string
	City string
}

type testVisit struct {
	Date  time.Time
	Notes string
}

type testPet struct {
	Name    string
	Breed   string
	Current bool
	Age     int
	Tags    []string
	Floats  []float32
	Owner   testOwner
	Visits  []testVisit
	Ignored string `bson:"-"`

	hidden string //nolint:unused // exercises the unexported-member path
}

func testPetType() *entity.Type {
	return entity.TypeOf[testPet]()
}

// mockStore counts calls so tests can script per-call behaviour; nil
// functions behave as an empty, accepting store.
type mockStore struct {
	listSearchFn   func(ctx context.Context, i uint) ([]IndexRecord, error)
	createSearchFn func(ctx context.Context, name string, definition bson.D) error
	listVectorFn   func(ctx context.Context, i uint) ([]IndexRecord, error)
	createVectorFn func(ctx context.Context, name string, definition bson.D) error

	mu              sync.Mutex
	listSearchCalls uint
	listVectorCalls uint
	created         []string
}

func (m *mockStore) ListSearchIndexes(ctx context.Context) ([]IndexRecord, error) {
	m.mu.Lock()
	m.listSearchCalls++
	i := m.listSearchCalls
	m.mu.Unlock()
	if m.listSearchFn == nil {
		return nil, nil
	}
	return m.listSearchFn(ctx, i)
}

func (m *mockStore) CreateSearchIndex(ctx context.Context, name string, definition bson.D) error {
	m.recordCreate(name)
	if m.createSearchFn == nil {
		return nil
	}
	return m.createSearchFn(ctx, name, definition)
}

func (m *mockStore) ListVectorIndexes(ctx context.Context) ([]IndexRecord, error) {
	m.mu.Lock()
	m.listVectorCalls++
	i := m.listVectorCalls
	m.mu.Unlock()
	if m.listVectorFn == nil {
		return nil, nil
	}
	return m.listVectorFn(ctx, i)
}

func (m *mockStore) CreateVectorIndex(ctx context.Context, name string, definition bson.D) error {
	m.recordCreate(name)
	if m.createVectorFn == nil {
		return nil
	}
	return m.createVectorFn(ctx, name, definition)
}

func (m *mockStore) recordCreate(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, name)
}

func (m *mockStore) createdNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.created...)
}

func compileJSON(b *Builder) (string, error) {
	model, err := b.Build()
	if err != nil {
		return "", err
	}
	def, err := model.SearchDefinition()
	if err != nil {
		return "", err
	}
	docBytes, err := def.JSON()
	if err != nil {
		return "", err
	}
	return string(docBytes), nil
}
