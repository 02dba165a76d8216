// Package compare checks two histogram stores for numerical equivalence.
package compare

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/decibelcooper/dqmplot/internal/store"
)

// ErrInvalidTolerance is returned for a negative tolerance.
var ErrInvalidTolerance = errors.New("compare: tolerance must be non-negative")

// KindPolicy decides what happens to a common path whose entries have
// different or unsupported kinds.
type KindPolicy int

const (
	// SkipKindMismatch ignores the path: it counts neither as passed nor
	// as compared.
	SkipKindMismatch KindPolicy = iota
	// FailKindMismatch aborts the comparison with a *KindMismatchError.
	FailKindMismatch
)

func ParseKindPolicy(s string) (KindPolicy, error) {
	switch s {
	case "", "skip":
		return SkipKindMismatch, nil
	case "error":
		return FailKindMismatch, nil
	}
	return 0, fmt.Errorf("compare: invalid kind policy %q (want skip or error)", s)
}

func (p KindPolicy) String() string {
	if p == FailKindMismatch {
		return "error"
	}
	return "skip"
}

// Order is the order of the mismatch list.
type Order int

const (
	// Sorted lists mismatching paths in lexical order.
	Sorted Order = iota
	// Unordered keeps the iteration order of the common path set, which
	// differs between runs.
	Unordered
)

// Options configure a comparison.
type Options struct {
	// Folder restricts the comparison to paths containing it. Empty
	// compares every common path.
	Folder    string
	Tolerance float64
	Kinds     KindPolicy
	Order     Order
}

// KindMismatchError reports a common path whose entries cannot be compared.
type KindMismatchError struct {
	Path string
	A, B store.Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("compare: %q has kind %v in the first store and %v in the second", e.Path, e.A, e.B)
}

// Tally counts compared histograms of one kind.
type Tally struct {
	Passed int
	Total  int
}

// StructuralMismatch lists the paths present in only one of the stores.
type StructuralMismatch struct {
	OnlyInA []string
	OnlyInB []string
}

// Result is the outcome of a comparison.
type Result struct {
	Count1D Tally
	Count2D Tally
	Profile Tally

	// Mismatches holds the paths of differing histograms.
	Mismatches []string
	// Skipped holds common paths with different or unsupported kinds.
	Skipped []string
	// Structural is nil when both stores hold the same paths.
	Structural *StructuralMismatch
}

const (
	Passed = "PASSED"
	Failed = "FAILED"
)

// Verdict returns PASSED when no histogram differs.
func (r *Result) Verdict() string {
	if len(r.Mismatches) == 0 {
		return Passed
	}
	return Failed
}

// Check compares the histograms common to a and b.
func Check(a, b store.Store, opts Options) (*Result, error) {
	if opts.Tolerance < 0 || math.IsNaN(opts.Tolerance) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTolerance, opts.Tolerance)
	}

	pathsA, err := dataPaths(a)
	if err != nil {
		return nil, fmt.Errorf("could not list first store: %w", err)
	}
	pathsB, err := dataPaths(b)
	if err != nil {
		return nil, fmt.Errorf("could not list second store: %w", err)
	}

	res := &Result{}
	onlyA, onlyB := difference(pathsA, pathsB), difference(pathsB, pathsA)
	if len(onlyA) > 0 || len(onlyB) > 0 {
		res.Structural = &StructuralMismatch{OnlyInA: onlyA, OnlyInB: onlyB}
	}

	common := make(map[string]struct{})
	for p := range pathsA {
		if _, ok := pathsB[p]; !ok {
			continue
		}
		if opts.Folder != "" && !strings.Contains(p, opts.Folder) {
			continue
		}
		common[p] = struct{}{}
	}

	var paths []string
	switch opts.Order {
	case Unordered:
		for p := range common {
			paths = append(paths, p)
		}
	default:
		paths = sortedKeys(common)
	}

	for _, p := range paths {
		ea, err := a.Get(p)
		if err != nil {
			return nil, err
		}
		eb, err := b.Get(p)
		if err != nil {
			return nil, err
		}

		ka, kb := store.Classify(ea), store.Classify(eb)
		if ka != kb || ka == store.Unsupported {
			if opts.Kinds == FailKindMismatch {
				return nil, &KindMismatchError{Path: p, A: ka, B: kb}
			}
			res.Skipped = append(res.Skipped, p)
			continue
		}

		var tally *Tally
		same := Close(ea.Values, eb.Values, opts.Tolerance)
		switch ka {
		case store.Count1D:
			tally = &res.Count1D
		case store.Count2D:
			tally = &res.Count2D
		case store.Profile:
			tally = &res.Profile
			same = same && Close(ea.Errors, eb.Errors, opts.Tolerance)
		}

		tally.Total++
		if same {
			tally.Passed++
		} else {
			res.Mismatches = append(res.Mismatches, p)
		}
	}

	return res, nil
}

// Close reports whether a and b have the same length and every pair of
// elements differs by at most tol. NaN is never close to anything.
func Close(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if !(math.Abs(a[i]-b[i]) <= tol) {
			return false
		}
	}
	return true
}

func dataPaths(st store.Store) (map[string]struct{}, error) {
	keys, err := st.Keys()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if store.IsMetadata(k) {
			continue
		}
		set[k] = struct{}{}
	}
	return set, nil
}

// difference returns the sorted elements of a missing from b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
