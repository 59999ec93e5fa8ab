package store

import "github.com/johanaerens/assetmanagement/models"

// Resolve finds the candidate whose id equals id. It reports false when id is
// nil, the candidates are not loaded yet, or nothing matches.
func Resolve[T models.Entity](id *int64, candidates []T) (T, bool) {
	var zero T
	if id == nil {
		return zero, false
	}
	for _, c := range candidates {
		if cid := c.EntityID(); cid != nil && *cid == *id {
			return c, true
		}
	}
	return zero, false
}
