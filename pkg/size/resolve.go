// Package size resolves per-version size histories to a single size.
//
// A [History] is what the bundlephobia package-history endpoint returns for
// one package: every published version mapped to its minified and gzipped
// size, or to an empty object when the version was never measured.
//
// [Resolve] picks the representative version with [Latest], the highest
// stable semantic version that has size data, and returns its sizes.
// Missing histories, unparsable versions and partial records all degrade to
// "unresolved" (ok == false); nothing in this package panics or returns an
// error for bad upstream data.
package size

import (
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Resolved is the size of a package, or the summed size of a group.
type Resolved struct {
	Min  int64 `json:"min"`
	Gzip int64 `json:"gzip"`
}

// Add returns the element-wise sum of r and o.
func (r Resolved) Add(o Resolved) Resolved {
	return Resolved{Min: r.Min + o.Min, Gzip: r.Gzip + o.Gzip}
}

// Latest returns the highest stable version in h whose record is not empty.
// Versions that are not valid semver, and prereleases, are skipped.
func Latest(h History) (string, bool) {
	var (
		best    string
		bestVer *semver.Version
	)
	// Sorted keys keep the choice deterministic when two keys differ only in build metadata.
	for _, version := range slices.Sorted(maps.Keys(h)) {
		if h[version].Empty() {
			continue
		}
		v, ok := parseStable(version)
		if !ok {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = version, v
		}
	}
	return best, bestVer != nil
}

func parseStable(version string) (*semver.Version, bool) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil || v.Prerelease() != "" {
		return nil, false
	}
	return v, true
}

// Resolve returns the sizes of the version selected by [Latest].
func Resolve(h History) (Resolved, bool) {
	if h == nil {
		return Resolved{}, false
	}
	version, ok := Latest(h)
	if !ok {
		return Resolved{}, false
	}
	rec, ok := h[version]
	if !ok || !rec.Complete() {
		return Resolved{}, false
	}
	return Resolved{Min: *rec.Size, Gzip: *rec.Gzip}, true
}
