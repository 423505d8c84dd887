package reporting

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinops/registry/internal/platform/errs"
)

// ReportRepository keeps generated snapshots for later retrieval.
type ReportRepository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
}

// ReportRepoMem is the process-lifetime report store.
type ReportRepoMem struct {
	byID map[uuid.UUID]*Report
}

func NewReportRepoMem() *ReportRepoMem {
	return &ReportRepoMem{byID: make(map[uuid.UUID]*Report)}
}

func (r *ReportRepoMem) Create(_ context.Context, rep *Report) error {
	r.byID[rep.ID] = rep
	return nil
}

func (r *ReportRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Report, error) {
	rep, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", id, errs.ErrNotFound)
	}
	return rep, nil
}
