// Package professor links free-text instructor names from historical
// offerings to curated professor directory records. Matching runs an ordered
// strategy pipeline; the first hit wins and there is no scoring across
// strategies. An unmatched name is a normal outcome, not an error.
package professor

import (
	"context"
	"strings"

	"github.com/smartadvisors/course-advisor-go/internal/storage"
)

// Strategy identifies which pipeline step resolved an instructor name.
type Strategy string

const (
	// StrategyExact is a case-insensitive exact match of the raw name.
	StrategyExact Strategy = "exact"

	// StrategySwap matches "Last, First" reassembled as "First Last".
	StrategySwap Strategy = "swap"

	// StrategyFuzzy matches the presumed surname as a substring.
	StrategyFuzzy Strategy = "fuzzy"

	// StrategyUnresolved means no strategy succeeded.
	StrategyUnresolved Strategy = "unresolved"
)

// Directory is the lookup surface the resolver needs. Both lookups are
// case-insensitive, return zero or one record, and must be deterministic
// under a fixed directory ordering.
type Directory interface {
	GetProfessorByName(ctx context.Context, name string) (*storage.Professor, error)
	SearchProfessorBySubstring(ctx context.Context, needle string) (*storage.Professor, error)
}

// Resolver resolves raw instructor names against a professor directory.
type Resolver struct {
	directory Directory
}

// NewResolver creates a resolver backed by the given directory.
func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve runs the strategy pipeline for a raw instructor name:
// exact match, then comma-swap match, then fuzzy surname substring match.
// A nil record with StrategyUnresolved (and nil error) means the name could
// not be linked; callers proceed with fallback data. A non-nil error is a
// storage failure only.
func (r *Resolver) Resolve(ctx context.Context, rawName string) (*storage.Professor, Strategy, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return nil, StrategyUnresolved, nil
	}

	// 1. Exact match on the raw form.
	prof, err := r.directory.GetProfessorByName(ctx, name)
	if err != nil {
		return nil, StrategyUnresolved, err
	}
	if prof != nil {
		return prof, StrategyExact, nil
	}

	// 2. Swap match: "Smith, John" -> "John Smith".
	if swapped, ok := swapCommaName(name); ok {
		prof, err = r.directory.GetProfessorByName(ctx, swapped)
		if err != nil {
			return nil, StrategyUnresolved, err
		}
		if prof != nil {
			return prof, StrategySwap, nil
		}
	}

	// 3. Fuzzy surname substring match.
	if surname := presumedSurname(name); surname != "" {
		prof, err = r.directory.SearchProfessorBySubstring(ctx, surname)
		if err != nil {
			return nil, StrategyUnresolved, err
		}
		if prof != nil {
			return prof, StrategyFuzzy, nil
		}
	}

	return nil, StrategyUnresolved, nil
}

// swapCommaName reassembles "Last, First ..." as "First ... Last".
// Splits on the first comma only; reports false when no comma is present
// or either side trims to empty.
func swapCommaName(name string) (string, bool) {
	last, first, found := strings.Cut(name, ",")
	if !found {
		return "", false
	}
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if last == "" || first == "" {
		return "", false
	}
	return first + " " + last, true
}

// presumedSurname extracts the surname to fuzzy-match on: the segment before
// the first comma when one is present, otherwise the final
// whitespace-delimited token.
func presumedSurname(name string) string {
	if before, _, found := strings.Cut(name, ","); found {
		return strings.TrimSpace(before)
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
