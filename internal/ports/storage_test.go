package ports

import (
	"context"
	"testing"
	"time"

	"github.com/xvierd/eclipse-cli/internal/domain"
)

// Mock implementations for testing interfaces.

type mockSelectionRepository struct {
	selections []*domain.Selection
}

func (m *mockSelectionRepository) Save(ctx context.Context, selection *domain.Selection) error {
	m.selections = append(m.selections, selection)
	return nil
}

func (m *mockSelectionRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Selection, error) {
	var result []*domain.Selection
	for i := len(m.selections) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.selections[i])
	}
	return result, nil
}

func (m *mockSelectionRepository) CountByPhase(ctx context.Context) ([]domain.PhaseTally, error) {
	counts := make(map[domain.PhaseIndex]int)
	for _, s := range m.selections {
		counts[s.Phase]++
	}
	var result []domain.PhaseTally
	for i := domain.PhaseIndex(0); i < domain.PhaseCount; i++ {
		if counts[i] > 0 {
			result = append(result, domain.PhaseTally{Phase: i, PhaseName: domain.EclipseCycle.Name(i), Count: counts[i]})
		}
	}
	return result, nil
}

var _ SelectionRepository = (*mockSelectionRepository)(nil)

func TestMockSelectionRepository(t *testing.T) {
	repo := &mockSelectionRepository{}
	ctx := context.Background()
	at := time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC)

	for i, phase := range []domain.PhaseIndex{domain.PhaseClones, domain.PhaseShield, domain.PhaseClones} {
		sel, err := domain.NewSelection(domain.EclipseCycle, phase, at.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("NewSelection() error = %v", err)
		}
		if err := repo.Save(ctx, sel); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	t.Run("recent is newest first", func(t *testing.T) {
		recent, err := repo.FindRecent(ctx, 2)
		if err != nil {
			t.Fatalf("FindRecent() error = %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("FindRecent() returned %d, want 2", len(recent))
		}
		if recent[0].Phase != domain.PhaseClones || recent[1].Phase != domain.PhaseShield {
			t.Errorf("FindRecent() order = %v, %v", recent[0].PhaseName, recent[1].PhaseName)
		}
	})

	t.Run("count by phase", func(t *testing.T) {
		tallies, err := repo.CountByPhase(ctx)
		if err != nil {
			t.Fatalf("CountByPhase() error = %v", err)
		}
		if len(tallies) != 2 || tallies[0].Count != 2 || tallies[1].Count != 1 {
			t.Errorf("CountByPhase() = %+v", tallies)
		}
	})
}
