// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// aggregateStoredSource produces one level's stored-source value: true when
// the whole level is stored, an include or exclude object with sorted dotted
// paths otherwise, nil when the level declares nothing. Includes and
// excludes mixed within one level are a configuration error; the builder
// rejects them eagerly, this check covers trees assembled another way.
func aggregateStoredSource(l *mappingLevel) (any, error) {
	if l.storedAll {
		if len(l.storedPaths) > 0 {
			return nil, ErrStoredSourceConflict{}
		}
		return true, nil
	}
	if len(l.storedPaths) == 0 {
		return nil, nil
	}

	includes := make([]string, 0, len(l.storedPaths))
	excludes := make([]string, 0, len(l.storedPaths))
	for _, p := range l.storedPaths {
		if p.include {
			includes = append(includes, p.path)
		} else {
			excludes = append(excludes, p.path)
		}
	}
	if len(includes) > 0 && len(excludes) > 0 {
		return nil, ErrStoredSourceConflict{}
	}

	if len(includes) > 0 {
		sort.Strings(includes)
		return bson.D{{Key: "include", Value: stringArray(includes)}}, nil
	}
	sort.Strings(excludes)
	return bson.D{{Key: "exclude", Value: stringArray(excludes)}}, nil
}
