package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/eclipse-cli/internal/domain"
)

// ErrUnknownPhase is returned when user input does not name exactly one phase.
var ErrUnknownPhase = errors.New("unknown phase")

// LookupPhase resolves user input to a phase of cycle. It accepts a 1-based
// position, a case-insensitive name, or an unambiguous fuzzy match.
func LookupPhase(cycle domain.Cycle, input string) (domain.PhaseIndex, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownPhase)
	}

	if n, err := strconv.Atoi(query); err == nil {
		if n < 1 || n > domain.PhaseCount {
			return 0, fmt.Errorf("%w: position %d is outside 1-%d", ErrUnknownPhase, n, domain.PhaseCount)
		}
		return domain.PhaseIndex(n - 1), nil
	}

	names := cycle.Names()
	for i, name := range names {
		if strings.EqualFold(name, query) {
			return domain.PhaseIndex(i), nil
		}
	}

	matches := fuzzy.Find(query, names)
	switch {
	case len(matches) == 0:
		return 0, fmt.Errorf("%w: %q (choose from %s)", ErrUnknownPhase, query, strings.Join(names, ", "))
	case len(matches) > 1 && matches[0].Score == matches[1].Score:
		return 0, fmt.Errorf("%w: %q matches both %s and %s", ErrUnknownPhase, query, matches[0].Str, matches[1].Str)
	}
	return domain.PhaseIndex(matches[0].Index), nil
}
