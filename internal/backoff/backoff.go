// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backoff retries an operation following a configured policy until it
// succeeds, is cancelled, or the policy gives up.
type Backoff interface {
	Retry(Operation) error
	RetryNotify(Operation, Notify) error
}

type (
	Operation func() error
	Notify    func(error, time.Duration)
)

type Config struct {
	Exponential *ExponentialConfig
	Constant    *ConstantConfig
}

type ExponentialConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint
}

type ConstantConfig struct {
	Interval   time.Duration
	MaxRetries uint
}

// ErrPermanent marks an error as non retriable regardless of the policy.
var ErrPermanent = errors.New("permanent error, do not retry")

type Provider func(ctx context.Context) Backoff

// NewProvider returns a backoff provider based on the config on input. If no
// valid policy is configured, the returned provider performs a single attempt
// with no retries.
func NewProvider(cfg *Config) Provider {
	switch {
	case cfg == nil:
		return func(ctx context.Context) Backoff {
			return &policyBackoff{inner: &backoff.StopBackOff{}}
		}
	case cfg.Constant != nil:
		return func(ctx context.Context) Backoff {
			return NewConstantBackoff(ctx, cfg.Constant)
		}
	case cfg.Exponential != nil:
		return func(ctx context.Context) Backoff {
			return NewExponentialBackoff(ctx, cfg.Exponential)
		}
	default:
		return func(ctx context.Context) Backoff {
			return &policyBackoff{inner: &backoff.StopBackOff{}}
		}
	}
}

// policyBackoff adapts a cenkalti backoff policy to the Backoff interface.
type policyBackoff struct {
	inner backoff.BackOff
}

func NewExponentialBackoff(ctx context.Context, cfg *ExponentialConfig) Backoff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialInterval
	exp.MaxElapsedTime = cfg.MaxInterval

	return &policyBackoff{
		inner: withRetriesAndContext(ctx, exp, cfg.MaxRetries),
	}
}

func NewConstantBackoff(ctx context.Context, cfg *ConstantConfig) Backoff {
	return &policyBackoff{
		inner: withRetriesAndContext(ctx, backoff.NewConstantBackOff(cfg.Interval), cfg.MaxRetries),
	}
}

func (pb *policyBackoff) Retry(op Operation) error {
	return pb.RetryNotify(op, nil)
}

func (pb *policyBackoff) RetryNotify(op Operation, notify Notify) error {
	boOp := func() error {
		err := op()
		if errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(boOp, pb.inner, backoff.Notify(notify))
}

func withRetriesAndContext(ctx context.Context, bo backoff.BackOff, maxRetries uint) backoff.BackOff {
	if maxRetries > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(maxRetries))
	}
	return backoff.WithContext(bo, ctx)
}
