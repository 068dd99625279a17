// Package naming builds deterministic output artifact paths and guarantees
// they never collide within a run.
package naming

import (
	"path/filepath"
)

// ArtifactPath builds the canonical output path for one (source, operation)
// pair. ext is the target extension without dot.
//
//	Conversion:   <destDir>/<stem>.<ext>
//	Augmentation: <destDir>/<stem>.<tag>.<ext>
//
// Two distinct source items with the same stem (same base name in different
// subdirectories) request the same path; the [CollisionResolver] is what keeps
// them from overwriting each other.
func ArtifactPath(destDir, stem, tag, ext string) string {
	name := stem
	if tag != "" {
		name += "." + tag
	}
	return filepath.Join(destDir, name+"."+ext)
}
