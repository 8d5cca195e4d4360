package access

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
)

// CheckSequentialLevelAccess evaluates only the category-scoped sequential rules for a
// level. Like EvaluateAccess it never fails; errors deny with reason "error".
func (e *Engine) CheckSequentialLevelAccess(ctx context.Context, userID, pathID, levelID uint) (d access.Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("panic during sequential access check",
				"panic", r,
				"user_id", userID,
				"path_id", pathID,
				"level_id", levelID,
				"stack", string(debug.Stack()),
			)
			d = access.Deny(access.ReasonError)
		}
	}()

	path, err := e.loadPath(ctx, pathID)
	if err != nil {
		e.logger.Errorw("sequential access check failed, denying", "error", err, "user_id", userID, "path_id", pathID)
		return access.Deny(access.ReasonError)
	}

	outcome, err := e.sequentialOutcome(ctx, userID, path, levelID, e.now())
	if err != nil {
		e.logger.Errorw("sequential access check failed, denying",
			"error", err,
			"user_id", userID,
			"path_id", pathID,
			"level_id", levelID,
		)
		return access.Deny(access.ReasonError)
	}
	return outcome.Decision()
}

// sequentialOutcome implements the unlock algorithm. Missing category access and
// out-of-sequence levels are soft outcomes; everything else decides.
func (e *Engine) sequentialOutcome(ctx context.Context, userID uint, path *catalog.Path, levelID uint, now time.Time) (access.Outcome, error) {
	if path == nil {
		return access.Continue(access.ReasonNoAccess), nil
	}

	ca, err := e.src.CategoryAccess.GetByUserAndCategory(ctx, userID, path.CategoryID())
	if err != nil {
		return access.Outcome{}, fmt.Errorf("get category access: %w", err)
	}
	if ca == nil || !ca.IsActiveAt(now) {
		return access.Continue(access.ReasonNoCategoryAccess), nil
	}

	if ca.AccessType() == categoryaccess.AccessTypeAdmin {
		return access.Decisive(access.FullAccess(access.SourceCategoryAdmin)), nil
	}

	if ca.HasUnlocked(path.ID(), levelID) {
		return access.Decisive(access.Grant(access.AccessTypeUnlocked, access.SourceCategoryUnlock, true, true, false)), nil
	}

	if catalog.IsFirstLevelOf(path, levelID) {
		return access.Decisive(access.Grant(access.AccessTypeFree, access.SourceFreeFirstLesson, true, true, false)), nil
	}

	current, ok := path.Level(levelID)
	if !ok {
		return access.Continue(access.ReasonLevelNotUnlocked), nil
	}
	previous := catalog.PreviousLevel(path.Levels(), current)
	if previous == nil {
		return access.Continue(access.ReasonLevelNotUnlocked), nil
	}

	completed, err := e.src.Progress.IsCompleted(ctx, userID, previous.ID())
	if err != nil {
		return access.Outcome{}, fmt.Errorf("get level progress: %w", err)
	}
	if !completed {
		return access.Decisive(access.Deny(access.ReasonPreviousLevelNotCompleted)), nil
	}
	return access.Decisive(access.Grant(access.AccessTypeSequentialUnlock, access.SourceSequentialUnlock, true, true, false)), nil
}
