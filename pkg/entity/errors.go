// SPDX-License-Identifier: Apache-2.0

package entity

import "fmt"

// Model configuration errors are always recoverable by fixing the entity
// model or the index declaration, never by retrying.

type ErrMemberNotFound struct {
	Entity string
	Member string
}

func (e ErrMemberNotFound) Error() string {
	return fmt.Sprintf("entity type %q has no member named %q", e.Entity, e.Member)
}

func (e ErrMemberNotFound) ModelConfigError() {}

type ErrMemberNotPersisted struct {
	Entity string
	Member string
}

func (e ErrMemberNotPersisted) Error() string {
	return fmt.Sprintf("member %q of entity type %q is not persisted and cannot be indexed", e.Member, e.Entity)
}

func (e ErrMemberNotPersisted) ModelConfigError() {}

type ErrInvalidEmbedTarget struct {
	Entity string
	Member string
}

func (e ErrInvalidEmbedTarget) Error() string {
	return fmt.Sprintf("member %q of entity type %q is not a navigation to an embedded document type", e.Member, e.Entity)
}

func (e ErrInvalidEmbedTarget) ModelConfigError() {}

type ErrEmbedCardinality struct {
	Entity         string
	Member         string
	WantCollection bool
}

func (e ErrEmbedCardinality) Error() string {
	if e.WantCollection {
		return fmt.Sprintf("member %q of entity type %q is not a collection; use Embed instead of EmbedArray", e.Member, e.Entity)
	}
	return fmt.Sprintf("member %q of entity type %q is a collection; use EmbedArray instead of Embed", e.Member, e.Entity)
}

func (e ErrEmbedCardinality) ModelConfigError() {}
