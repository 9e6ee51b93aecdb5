// Package testutil provides golden-file comparison helpers shared by this
// core's package tests, adapted from AILANG's testutil/golden.go (same
// JSON-golden-file idiom, generalized from AILANG program fixtures to
// diagnostic/type-lattice fixtures) and using google/go-cmp for diffs
// instead of a hand-rolled line-by-line comparison.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens controls whether CompareWithGolden (re)writes golden files
// instead of comparing against them. Set via UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenMeta records the platform a golden file was captured on, purely for
// human debugging — it is never compared.
type GoldenMeta struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GoldenFile is a golden fixture's on-disk shape: captured data plus the
// metadata it was captured under.
type GoldenFile struct {
	Meta GoldenMeta  `json:"meta"`
	Data interface{} `json:"data"`
}

// GoldenPath returns the conventional path for a feature/name golden fixture.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.json")
}

// CompareWithGolden compares actual (round-tripped through JSON, so map and
// struct field ordering doesn't spuriously fail the comparison) against the
// feature/name golden fixture, writing it instead when UpdateGoldens is set.
func CompareWithGolden(t *testing.T, feature, name string, actual interface{}) {
	t.Helper()

	path := GoldenPath(feature, name)
	normalized, err := roundTrip(actual)
	if err != nil {
		t.Fatalf("testutil: marshal actual: %v", err)
	}

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("testutil: create golden dir: %v", err)
		}
		out := GoldenFile{
			Meta: GoldenMeta{GoVersion: runtime.Version(), OS: runtime.GOOS, Arch: runtime.GOARCH},
			Data: normalized,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			t.Fatalf("testutil: marshal golden: %v", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("testutil: write golden: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s (run with UPDATE_GOLDENS=true to create)", path)
		}
		t.Fatalf("testutil: read golden: %v", err)
	}
	var golden GoldenFile
	if err := json.Unmarshal(raw, &golden); err != nil {
		t.Fatalf("testutil: unmarshal golden: %v", err)
	}

	if diff := cmp.Diff(golden.Data, normalized); diff != "" {
		t.Errorf("golden mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
	}
}

// roundTrip marshals then unmarshals v into a generic interface{}, so two
// logically-equal values with different concrete Go types (e.g. a struct
// versus the map it decodes to from the golden file) compare equal.
func roundTrip(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
