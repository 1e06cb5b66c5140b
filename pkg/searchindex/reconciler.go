// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/idxlab/searchsync/internal/backoff"
	"github.com/idxlab/searchsync/internal/json"
	loglib "github.com/idxlab/searchsync/pkg/log"
)

const defaultPollInterval = 5 * time.Second

// Reconciler diffs desired index definitions against the document store's
// eventually consistent state: it creates missing indexes and polls the
// remaining ones to readiness. All state is scoped to one invocation; the
// reconciler itself is safe for concurrent use.
type Reconciler struct {
	store           Store
	logger          loglib.Logger
	clock           clockwork.Clock
	pollInterval    time.Duration
	backoffProvider backoff.Provider
}

type ReconcilerOption func(*Reconciler)

func NewReconciler(store Store, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:           store,
		logger:          loglib.NewNoopLogger(),
		clock:           clockwork.NewRealClock(),
		pollInterval:    defaultPollInterval,
		backoffProvider: backoff.NewProvider(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithLogger(logger loglib.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = logger.WithFields(loglib.Fields{
			loglib.ModuleField: "searchindex_reconciler",
		})
	}
}

func WithClock(clock clockwork.Clock) ReconcilerOption {
	return func(r *Reconciler) {
		r.clock = clock
	}
}

func WithPollInterval(interval time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		r.pollInterval = interval
	}
}

// WithCreateBackoff retries failed index submissions with the given policy.
// The default is a single attempt: remote failures surface immediately and
// retry policy stays with the caller.
func WithCreateBackoff(cfg *backoff.Config) ReconcilerOption {
	return func(r *Reconciler) {
		r.backoffProvider = backoff.NewProvider(cfg)
	}
}

// WithBackoffProvider replaces the submission backoff source wholesale.
// WithCreateBackoff covers the config-driven policies.
func WithBackoffProvider(provider backoff.Provider) ReconcilerOption {
	return func(r *Reconciler) {
		r.backoffProvider = provider
	}
}

// EnsureDefinitions fetches the remote index list and submits every desired
// definition whose name is absent. Submissions for independent names fan out
// concurrently; all failures are reported together and nothing is rolled
// back, since remote index creation is not transactional. Re-running with
// the same desired set once all indexes exist is a no-op.
func (r *Reconciler) EnsureDefinitions(ctx context.Context, desired []Definition) error {
	if len(desired) == 0 {
		return nil
	}

	existing, err := r.existingNames(ctx, desired)
	if err != nil {
		return err
	}

	var (
		mu         sync.Mutex
		createErrs []error
	)
	group, ctx := errgroup.WithContext(ctx)

	submitted := make(map[string]struct{}, len(desired))
	for _, def := range desired {
		if _, ok := existing[def.Name]; ok {
			r.logger.Debug("index already exists", loglib.Fields{"index": def.Name})
			continue
		}
		if _, ok := submitted[def.Name]; ok {
			continue
		}
		submitted[def.Name] = struct{}{}

		group.Go(func() error {
			if err := r.create(ctx, def); err != nil {
				mu.Lock()
				createErrs = append(createErrs, fmt.Errorf("creating index %q: %w", def.Name, err))
				mu.Unlock()
				return nil
			}
			r.logger.Info("index created", loglib.Fields{
				"index":      def.Name,
				"index_type": string(def.Type),
			})
			return nil
		})
	}

	//nolint:errcheck // goroutines record their errors in createErrs
	group.Wait()
	return errors.Join(createErrs...)
}

func (r *Reconciler) create(ctx context.Context, def Definition) error {
	r.logDefinition(def)

	bo := r.backoffProvider(ctx)
	submit := func() error {
		switch def.Type {
		case IndexTypeVectorSearch:
			return r.store.CreateVectorIndex(ctx, def.Name, def.Document)
		default:
			return r.store.CreateSearchIndex(ctx, def.Name, def.Document)
		}
	}
	return bo.RetryNotify(submit, func(err error, d time.Duration) {
		r.logger.Warn(err, "index creation failed, retrying", loglib.Fields{
			"index":   def.Name,
			"backoff": d,
		})
	})
}

// WaitUntilReady polls the remote index list until every named index reports
// ready and queryable. A FAILED status is terminal for that index; the wait
// keeps polling the remaining names and reports all failures together.
// BUILDING is tolerated indefinitely: bound the wait through ctx.
func (r *Reconciler) WaitUntilReady(ctx context.Context, names []string) error {
	pending := make(map[string]struct{}, len(names))
	for _, name := range names {
		pending[name] = struct{}{}
	}

	var failures []error
	for {
		records, err := r.listAll(ctx)
		if err != nil {
			return err
		}

		byName := make(map[string]IndexRecord, len(records))
		for _, rec := range records {
			byName[rec.Name] = rec
		}

		for name := range pending {
			rec, ok := byName[name]
			if !ok {
				// not visible yet; the remote list is eventually consistent
				continue
			}
			switch {
			case rec.Status == IndexStatusFailed:
				failures = append(failures, ErrIndexBuildFailed{
					Index:  name,
					Status: rec.Status,
					Reason: rec.StatusDetail,
				})
				delete(pending, name)
			case rec.Status == IndexStatusReady && rec.Queryable:
				r.logger.Debug("index ready", loglib.Fields{"index": name})
				delete(pending, name)
			}
		}

		if len(pending) == 0 {
			return errors.Join(failures...)
		}

		r.logger.Debug("waiting for indexes to become queryable", loglib.Fields{
			"pending": len(pending),
		})

		select {
		case <-ctx.Done():
			failures = append(failures, fmt.Errorf("waiting for indexes: %w", ctx.Err()))
			return errors.Join(failures...)
		case <-r.clock.After(r.pollInterval):
		}
	}
}

// Reconcile is the combined pass: ensure all of the model's definitions
// exist, then wait for them to become queryable.
func (r *Reconciler) Reconcile(ctx context.Context, m *Model) error {
	defs, err := m.Definitions()
	if err != nil {
		return err
	}
	if err := r.EnsureDefinitions(ctx, defs); err != nil {
		return err
	}
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return r.WaitUntilReady(ctx, names)
}

func (r *Reconciler) existingNames(ctx context.Context, desired []Definition) (map[string]struct{}, error) {
	var wantSearch, wantVector bool
	for _, def := range desired {
		switch def.Type {
		case IndexTypeVectorSearch:
			wantVector = true
		default:
			wantSearch = true
		}
	}

	existing := make(map[string]struct{})
	if wantSearch {
		records, err := r.store.ListSearchIndexes(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing search indexes: %w", err)
		}
		for _, rec := range records {
			existing[rec.Name] = struct{}{}
		}
	}
	if wantVector {
		records, err := r.store.ListVectorIndexes(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing vector indexes: %w", err)
		}
		for _, rec := range records {
			existing[rec.Name] = struct{}{}
		}
	}
	return existing, nil
}

func (r *Reconciler) listAll(ctx context.Context) ([]IndexRecord, error) {
	searchRecords, err := r.store.ListSearchIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing search indexes: %w", err)
	}
	vectorRecords, err := r.store.ListVectorIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vector indexes: %w", err)
	}
	return append(searchRecords, vectorRecords...), nil
}

func (r *Reconciler) logDefinition(def Definition) {
	docBytes, err := def.JSON()
	if err != nil {
		docBytes, _ = json.Marshal(map[string]string{"marshal_error": err.Error()})
	}
	r.logger.Debug("submitting index definition", loglib.Fields{
		"index":      def.Name,
		"index_type": string(def.Type),
		"definition": docBytes,
	})
}
