package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/supergeri/workout-content-transformation-sub001/internal/editor"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
	"github.com/supergeri/workout-content-transformation-sub001/internal/session"
)

// sessionID extracts and parses the required session_id argument.
func sessionID(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString("session_id")
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("session_id parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("session_id is not a valid UUID")
	}
	return id, nil
}

// optionalIndex reads an optional non-negative index argument; absent maps to
// nil.
func optionalIndex(req mcp.CallToolRequest, key string) *int {
	v := req.GetInt(key, -1)
	if v < 0 {
		return nil
	}
	return &v
}

// --- Tool definitions ---

var toolCreateSession = mcp.NewTool("create_workout_session",
	mcp.WithDescription("Open an editing session around a workout document. Missing ids are assigned and display positions normalized. Returns the session snapshot including its id."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("The workout document as a JSON object (title, settings, blocks)")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch a session's current snapshot: the workout document, validation buckets, confirmed mappings, and export readiness flags."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

var toolGetValidationState = mcp.NewTool("get_validation_state",
	mcp.WithDescription("Fetch only the validation state of a session: the three mapping buckets, the confirmed set, can_proceed and final_can_export."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

var toolMoveBlock = mcp.NewTool("move_block",
	mcp.WithDescription("Move a workout block to a new index. Equal indices are a no-op."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("source_index", mcp.Required(), mcp.Description("Index of the block to move")),
	mcp.WithNumber("target_index", mcp.Required(), mcp.Description("Index the block should end up at")),
)

var toolMoveExercise = mcp.NewTool("move_exercise",
	mcp.WithDescription("Move an exercise between or within containers (a block's flat list or one of its supersets). Stale indices no-op with a diagnostic."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("source_block", mcp.Required(), mcp.Description("Block index the exercise is in")),
	mcp.WithNumber("source_exercise", mcp.Required(), mcp.Description("Exercise index within its container")),
	mcp.WithNumber("source_superset", mcp.Description("Superset index when the exercise lives in a superset; omit for the block's flat list")),
	mcp.WithNumber("target_block", mcp.Required(), mcp.Description("Block index to move into")),
	mcp.WithNumber("target_index", mcp.Required(), mcp.Description("Raw insertion index within the target container; clamped into range")),
	mcp.WithNumber("target_superset", mcp.Description("Superset index to move into; omit for the block's flat list")),
)

var toolAddExercise = mcp.NewTool("add_exercise",
	mcp.WithDescription("Append an exercise to a block's flat list or to one of its supersets. A flat exercise added to a superset-only block lands after the supersets in display order."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("block_index", mcp.Required(), mcp.Description("Block to add into")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("The exercise as a JSON object (name plus prescription fields)")),
	mcp.WithNumber("superset_index", mcp.Description("Superset to add into; omit for the block's flat list")),
)

var toolDeleteExercise = mcp.NewTool("delete_exercise",
	mcp.WithDescription("Delete the exercise at the given position from a block's flat list or from one of its supersets."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("block_index", mcp.Required(), mcp.Description("Block the exercise is in")),
	mcp.WithNumber("exercise_index", mcp.Required(), mcp.Description("Exercise index within its container")),
	mcp.WithNumber("superset_index", mcp.Description("Superset the exercise lives in; omit for the block's flat list")),
)

var toolAddSuperset = mcp.NewTool("add_superset",
	mcp.WithDescription("Append an empty superset to a block."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("block_index", mcp.Required(), mcp.Description("Block to add into")),
)

var toolDeleteSuperset = mcp.NewTool("delete_superset",
	mcp.WithDescription("Delete a superset and everything in it. Its exercises are discarded, not promoted to the block."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("block_index", mcp.Required(), mcp.Description("Block the superset is in")),
	mcp.WithNumber("superset_index", mcp.Required(), mcp.Description("Superset to delete")),
)

var toolLoadValidation = mcp.NewTool("load_validation",
	mcp.WithDescription("Load a fresh validation response from the mapping service into the session. Replaces all classification state and resets the confirmed set."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithString("validation", mcp.Required(), mcp.Description("The ValidationResponse as a JSON object (validated_exercises, needs_review, unmapped_exercises)")),
)

var toolApplyMapping = mcp.NewTool("apply_mapping",
	mcp.WithDescription("Record a user-chosen canonical name for an exercise awaiting review or unmapped. Moves it to the validated bucket, confirmed, at confidence 0.95."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithString("name", mcp.Required(), mcp.Description("The exercise's original name")),
	mcp.WithString("mapped_to", mcp.Required(), mcp.Description("The canonical device-exercise name to map it to")),
)

var toolAcceptMapping = mcp.NewTool("accept_mapping",
	mcp.WithDescription("Confirm the suggestion an exercise already carries without changing it, moving it to the validated bucket."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithString("name", mcp.Required(), mcp.Description("The exercise's original name")),
)

var toolConfirmAll = mcp.NewTool("confirm_all",
	mcp.WithDescription("Confirm every unconfirmed real rename across the needs-review and validated buckets in one step."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

var toolProjectWorkout = mcp.NewTool("project_workout",
	mcp.WithDescription("Produce the export document: confirmed canonical names substituted into the workout. Garmin targets keep the original name as a note annotation."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithString("device", mcp.Required(), mcp.Description("Export target"), mcp.Enum("garmin", "zwift", "apple")),
)

// --- Tool handlers ---

func (h *handlers) createSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("workout")
	if err != nil {
		return mcp.NewToolResultError("workout parameter is required"), nil
	}

	var doc models.WorkoutStructure
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return mcp.NewToolResultError("workout is not valid JSON: " + err.Error()), nil
	}

	snap, err := h.ds.CreateSession(ctx, &doc)
	if err != nil {
		h.log.Error("mcp create_workout_session", "error", err)
		return mcp.NewToolResultError("create failed: " + err.Error()), nil
	}
	return h.snapshotResult(snap)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}

	snap, err := h.ds.GetSnapshot(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("lookup failed: " + err.Error()), nil
	}
	return h.snapshotResult(snap)
}

func (h *handlers) getValidationState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}

	snap, err := h.ds.GetSnapshot(ctx, id)
	if err != nil {
		h.log.Error("mcp get_validation_state", "error", err)
		return mcp.NewToolResultError("lookup failed: " + err.Error()), nil
	}

	state := map[string]any{
		"validation":       snap.Validation,
		"confirmed":        snap.Confirmed,
		"can_proceed":      snap.CanProceed,
		"final_can_export": snap.FinalCanExport,
	}
	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) moveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	src, err := req.RequireInt("source_index")
	if err != nil {
		return mcp.NewToolResultError("source_index parameter is required"), nil
	}
	tgt, err := req.RequireInt("target_index")
	if err != nil {
		return mcp.NewToolResultError("target_index parameter is required"), nil
	}

	return h.apply(ctx, id, "move_block", session.Command{
		Op:          session.OpMoveBlock,
		SourceIndex: src,
		TargetIndex: tgt,
	})
}

func (h *handlers) moveExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	srcBlock, err := req.RequireInt("source_block")
	if err != nil {
		return mcp.NewToolResultError("source_block parameter is required"), nil
	}
	srcExercise, err := req.RequireInt("source_exercise")
	if err != nil {
		return mcp.NewToolResultError("source_exercise parameter is required"), nil
	}
	tgtBlock, err := req.RequireInt("target_block")
	if err != nil {
		return mcp.NewToolResultError("target_block parameter is required"), nil
	}
	tgtIndex, err := req.RequireInt("target_index")
	if err != nil {
		return mcp.NewToolResultError("target_index parameter is required"), nil
	}

	return h.apply(ctx, id, "move_exercise", session.Command{
		Op: session.OpMoveExercise,
		Source: &editor.Source{
			Block:    srcBlock,
			Exercise: srcExercise,
			Superset: optionalIndex(req, "source_superset"),
		},
		Target: &editor.Target{
			Block:    tgtBlock,
			Index:    tgtIndex,
			Superset: optionalIndex(req, "target_superset"),
		},
	})
}

func (h *handlers) addExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	blockIndex, err := req.RequireInt("block_index")
	if err != nil {
		return mcp.NewToolResultError("block_index parameter is required"), nil
	}
	raw, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	var ex models.Exercise
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return mcp.NewToolResultError("exercise is not valid JSON: " + err.Error()), nil
	}
	if ex.Name == "" {
		return mcp.NewToolResultError("exercise.name is required"), nil
	}

	return h.apply(ctx, id, "add_exercise", session.Command{
		Op:            session.OpAddExercise,
		BlockIndex:    blockIndex,
		SupersetIndex: optionalIndex(req, "superset_index"),
		Exercise:      &ex,
	})
}

func (h *handlers) deleteExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	blockIndex, err := req.RequireInt("block_index")
	if err != nil {
		return mcp.NewToolResultError("block_index parameter is required"), nil
	}
	exerciseIndex, err := req.RequireInt("exercise_index")
	if err != nil {
		return mcp.NewToolResultError("exercise_index parameter is required"), nil
	}

	return h.apply(ctx, id, "delete_exercise", session.Command{
		Op:            session.OpDeleteExercise,
		BlockIndex:    blockIndex,
		ExerciseIndex: exerciseIndex,
		SupersetIndex: optionalIndex(req, "superset_index"),
	})
}

func (h *handlers) addSuperset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	blockIndex, err := req.RequireInt("block_index")
	if err != nil {
		return mcp.NewToolResultError("block_index parameter is required"), nil
	}

	return h.apply(ctx, id, "add_superset", session.Command{
		Op:         session.OpAddSuperset,
		BlockIndex: blockIndex,
	})
}

func (h *handlers) deleteSuperset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	blockIndex, err := req.RequireInt("block_index")
	if err != nil {
		return mcp.NewToolResultError("block_index parameter is required"), nil
	}
	supersetIndex, err := req.RequireInt("superset_index")
	if err != nil {
		return mcp.NewToolResultError("superset_index parameter is required"), nil
	}

	return h.apply(ctx, id, "delete_superset", session.Command{
		Op:            session.OpDeleteSuperset,
		BlockIndex:    blockIndex,
		SupersetIndex: &supersetIndex,
	})
}

func (h *handlers) loadValidation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	raw, err := req.RequireString("validation")
	if err != nil {
		return mcp.NewToolResultError("validation parameter is required"), nil
	}

	var resp models.ValidationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return mcp.NewToolResultError("validation is not valid JSON: " + err.Error()), nil
	}

	return h.apply(ctx, id, "load_validation", session.Command{
		Op:         session.OpLoadValidation,
		Validation: &resp,
	})
}

func (h *handlers) applyMapping(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	mappedTo, err := req.RequireString("mapped_to")
	if err != nil {
		return mcp.NewToolResultError("mapped_to parameter is required"), nil
	}

	return h.apply(ctx, id, "apply_mapping", session.Command{
		Op:       session.OpApplyMapping,
		Name:     name,
		MappedTo: mappedTo,
	})
}

func (h *handlers) acceptMapping(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	return h.apply(ctx, id, "accept_mapping", session.Command{
		Op:   session.OpAcceptMapping,
		Name: name,
	})
}

func (h *handlers) confirmAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	return h.apply(ctx, id, "confirm_all", session.Command{Op: session.OpConfirmAll})
}

func (h *handlers) projectWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	device, err := req.RequireString("device")
	if err != nil {
		return mcp.NewToolResultError("device parameter is required"), nil
	}

	doc, err := h.ds.ProjectWorkout(ctx, id, models.Device(device))
	if err != nil {
		h.log.Error("mcp project_workout", "error", err)
		return mcp.NewToolResultError("projection failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(doc)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) apply(ctx context.Context, id uuid.UUID, tool string, cmd session.Command) (*mcp.CallToolResult, error) {
	snap, err := h.ds.ApplyCommand(ctx, id, cmd)
	if err != nil {
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError("command failed: " + err.Error()), nil
	}
	return h.snapshotResult(snap)
}

func (h *handlers) snapshotResult(snap session.Snapshot) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
