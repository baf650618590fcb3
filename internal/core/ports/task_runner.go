package ports

import (
	"context"
	"io"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// TaskRunner executes one named pipeline task.
//
//go:generate mockgen -source=task_runner.go -destination=mocks/mock_task_runner.go -package=mocks
type TaskRunner interface {
	// Run executes the task with cfg. Progress lines go to out.
	Run(ctx context.Context, cfg *domain.Config, out io.Writer) (*domain.TaskReport, error)
}
