package strategy

import (
	"context"

	"golang-lanka-watch/internal/entity"
)

// Task run outcome labels carried in execution results.
const (
	SUCCESS = "SUCCESS"
	FAILED  = "FAILED"
	SKIPPED = "SKIPPED"
)

// Task defines the interface for scheduled collection and maintenance jobs.
type Task interface {
	Execute(ctx context.Context) (string, error)
	GetType() entity.TaskType
}
