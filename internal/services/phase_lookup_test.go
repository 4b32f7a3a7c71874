package services

import (
	"errors"
	"testing"

	"github.com/xvierd/eclipse-cli/internal/domain"
)

func TestLookupPhase(t *testing.T) {
	tests := []struct {
		input string
		want  domain.PhaseIndex
	}{
		{"1", domain.PhasePreClones},
		{"4", domain.PhaseShield},
		{"Clones", domain.PhaseClones},
		{"clones", domain.PhaseClones},
		{"  post-clones ", domain.PhasePostClones},
		{"post", domain.PhasePostClones},
		{"shi", domain.PhaseShield},
		{"pre", domain.PhasePreClones},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := LookupPhase(domain.EclipseCycle, tt.input)
			if err != nil {
				t.Fatalf("LookupPhase(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("LookupPhase(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestLookupPhase_Errors(t *testing.T) {
	for _, input := range []string{"", "   ", "0", "5", "-1", "zzz"} {
		t.Run(input, func(t *testing.T) {
			_, err := LookupPhase(domain.EclipseCycle, input)
			if !errors.Is(err, ErrUnknownPhase) {
				t.Errorf("LookupPhase(%q) error = %v, want ErrUnknownPhase", input, err)
			}
		})
	}
}
