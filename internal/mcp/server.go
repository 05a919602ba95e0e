package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Planmap", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Planmap workout editing server. Load a workout into a session, rearrange its blocks, exercises, and supersets, reconcile exercise-name validation results, and project confirmed canonical names for device export. Structural commands on stale indices are safe: they no-op and report a diagnostic."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolCreateSession, Handler: h.createSession},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetValidationState, Handler: h.getValidationState},
		server.ServerTool{Tool: toolMoveBlock, Handler: h.moveBlock},
		server.ServerTool{Tool: toolMoveExercise, Handler: h.moveExercise},
		server.ServerTool{Tool: toolAddExercise, Handler: h.addExercise},
		server.ServerTool{Tool: toolDeleteExercise, Handler: h.deleteExercise},
		server.ServerTool{Tool: toolAddSuperset, Handler: h.addSuperset},
		server.ServerTool{Tool: toolDeleteSuperset, Handler: h.deleteSuperset},
		server.ServerTool{Tool: toolLoadValidation, Handler: h.loadValidation},
		server.ServerTool{Tool: toolApplyMapping, Handler: h.applyMapping},
		server.ServerTool{Tool: toolAcceptMapping, Handler: h.acceptMapping},
		server.ServerTool{Tool: toolConfirmAll, Handler: h.confirmAll},
		server.ServerTool{Tool: toolProjectWorkout, Handler: h.projectWorkout},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resSessions, Handler: h.sessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
