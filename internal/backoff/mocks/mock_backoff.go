// SPDX-License-Identifier: Apache-2.0

package mocks

import "github.com/idxlab/searchsync/internal/backoff"

type Backoff struct {
	RetryFn       func(backoff.Operation) error
	RetryNotifyFn func(backoff.Operation, backoff.Notify) error
}

func (m *Backoff) Retry(op backoff.Operation) error {
	return m.RetryFn(op)
}

func (m *Backoff) RetryNotify(op backoff.Operation, not backoff.Notify) error {
	return m.RetryNotifyFn(op, not)
}
