package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"github.com/ironsheep/aigis-cutter/internal/imaging"
)

// ErrNoInputs is returned by CollectInputs when nothing usable was found.
var ErrNoInputs = errors.New("no input images found")

// ErrOutputExists is returned when the timestamped output directory is
// already present.
var ErrOutputExists = errors.New("output directory already exists")

// outputDirPrefix names the directories written by earlier runs.
const outputDirPrefix = "AigisCutter_"

// CollectInputs expands args into a list of image files. Each argument may
// be a file, a directory (walked recursively) or a glob pattern. The result
// is naturally ordered ("shot2" before "shot10") with duplicates removed.
// Output directories of earlier runs found while walking or globbing are
// not descended into.
//
// Missing paths and files that fail to decode are skipped silently. A
// malformed glob pattern is an error.
func CollectInputs(args []string) ([]string, error) {
	var out []string
	add := func(p string) {
		fi, err := os.Stat(p)
		if err != nil {
			return
		}
		if !fi.IsDir() {
			if imaging.IsImagePath(p) {
				out = append(out, p)
			}
			return
		}
		filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != p && isOutputDir(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if imaging.IsImagePath(path) {
				out = append(out, path)
			}
			return nil
		})
	}

	for _, a := range args {
		if strings.ContainsAny(a, "*?[]") {
			matches, err := filepath.Glob(a)
			if err != nil {
				return nil, fmt.Errorf("input pattern %q: %w", a, err)
			}
			for _, m := range matches {
				if fi, err := os.Stat(m); err == nil && fi.IsDir() && isOutputDir(fi.Name()) {
					continue
				}
				add(m)
			}
			continue
		}
		add(a)
	}

	sort.SliceStable(out, func(i, j int) bool { return natural.Less(out[i], out[j]) })

	seen := make(map[string]bool, len(out))
	kept := out[:0]
	for _, p := range out {
		key := filepath.Clean(p)
		if seen[key] || !decodable(p) {
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return nil, ErrNoInputs
	}
	return kept, nil
}

func isOutputDir(name string) bool {
	return strings.HasPrefix(name, outputDirPrefix)
}

func decodable(path string) bool {
	_, _, err := imaging.Probe(path)
	return err == nil
}

// OutputDirName returns "<dir of firstInput>/AigisCutter_yyyyMMdd_HHmmss".
func OutputDirName(firstInput string, now time.Time) string {
	return filepath.Join(filepath.Dir(firstInput), outputDirPrefix+now.Format("20060102_150405"))
}

// PrepareOutputDir creates the output directory for a run started at now.
// An existing directory is an error rather than being reused.
func PrepareOutputDir(firstInput string, now time.Time) (string, error) {
	dir := OutputDirName(firstInput, now)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("%s: %w", dir, ErrOutputExists)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// outputName maps an input path to "<basename>.png".
func outputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}
