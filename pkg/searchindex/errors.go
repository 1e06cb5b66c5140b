// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStoredSourceConflict is raised when one mapping level declares both
// included and excluded stored-source paths. Include and exclude are mutually
// exclusive per level.
type ErrStoredSourceConflict struct {
	Entity string
	Scope  string
}

func (e ErrStoredSourceConflict) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = "root"
	}
	return fmt.Sprintf("entity type %q declares both stored-source includes and excludes at %s level", e.Entity, scope)
}

func (e ErrStoredSourceConflict) ModelConfigError() {}

// ErrMissingTokenizer is raised at definition compile time: a custom analyzer
// is only valid once it carries exactly one tokenizer.
type ErrMissingTokenizer struct {
	Analyzer string
}

func (e ErrMissingTokenizer) Error() string {
	return fmt.Sprintf("custom analyzer %q has no tokenizer configured", e.Analyzer)
}

// ErrIndexBuildFailed is terminal for the named index: the remote service
// reported the build as failed and polling it further cannot help.
type ErrIndexBuildFailed struct {
	Index  string
	Status IndexStatus
	Reason string
}

func (e ErrIndexBuildFailed) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("index %q failed to build (status %s)", e.Index, e.Status)
	}
	return fmt.Sprintf("index %q failed to build (status %s): %s", e.Index, e.Status, e.Reason)
}

type ErrNoVectorIndexes struct {
	Path string
}

func (e ErrNoVectorIndexes) Error() string {
	return fmt.Sprintf("no vector indexes defined for path %q", e.Path)
}

type ErrMultipleVectorIndexes struct {
	Path  string
	Names []string
}

func (e ErrMultipleVectorIndexes) Error() string {
	return fmt.Sprintf("multiple vector indexes defined for path %q (%s); specify one by name", e.Path, strings.Join(e.Names, ", "))
}

type ErrVectorIndexNotFound struct {
	Path string
	Name string
}

func (e ErrVectorIndexNotFound) Error() string {
	return fmt.Sprintf("vector index %q not defined in model for path %q", e.Name, e.Path)
}

// IsModelConfigError reports whether err is a local model configuration
// problem, as opposed to a remote service one. Callers use it to tell "fix
// your model" apart from "service is unavailable or still building".
func IsModelConfigError(err error) bool {
	var mce interface{ ModelConfigError() }
	return errors.As(err, &mce)
}
