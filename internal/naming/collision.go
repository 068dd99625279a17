package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks output paths claimed by source files and resolves
// duplicates by inserting ".dupN" before the extension. Workers claim paths
// concurrently, so all methods are goroutine-safe.
//
// Silent overwrites are impossible: a path is owned by the first (source,
// path) claim, and every later claimant gets a distinct variant.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path → source path that owns it
	counters map[string]int    // base output path → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final output path for source, handling collisions.
// If requestedOutput is unclaimed (or already owned by source), it is returned
// as-is. Otherwise a ".dupN" variant is generated.
func (cr *CollisionResolver) Resolve(source, requestedOutput string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requestedOutput]
	if !exists || owner == source {
		cr.owners[requestedOutput] = source
		return requestedOutput
	}

	dir := filepath.Dir(requestedOutput)
	base := filepath.Base(requestedOutput)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[requestedOutput]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s.dup%d%s", stem, counter, ext))
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == source {
			cr.counters[requestedOutput] = counter + 1
			cr.owners[candidate] = source
			return candidate
		}
		counter++
	}
}
