package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
	"github.com/supergeri/workout-content-transformation-sub001/internal/session"
)

// DataSource abstracts the session layer for MCP tools. Both
// *session.Manager (local, in-process) and HTTPClient (remote via REST API)
// satisfy this interface.
type DataSource interface {
	CreateSession(ctx context.Context, doc *models.WorkoutStructure) (session.Snapshot, error)
	GetSnapshot(ctx context.Context, id uuid.UUID) (session.Snapshot, error)
	ApplyCommand(ctx context.Context, id uuid.UUID, cmd session.Command) (session.Snapshot, error)
	ProjectWorkout(ctx context.Context, id uuid.UUID, device models.Device) (*models.WorkoutStructure, error)
	Sessions(ctx context.Context) ([]session.Snapshot, error)
}

// Compile-time check: *session.Manager satisfies DataSource.
var _ DataSource = (*session.Manager)(nil)
