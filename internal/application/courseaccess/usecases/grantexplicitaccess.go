package usecases

import (
	"context"
	"fmt"

	"genesiscode/internal/application/courseaccess/dto"
	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/domain/user"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

// GrantExplicitAccessUseCase upserts the explicit grant of a (user, path, level, exercise) scope.
type GrantExplicitAccessUseCase struct {
	grantRepo   courseaccess.Repository
	userRepo    user.Repository
	catalogRepo catalog.Repository
	invalidator access.CacheInvalidator
	logger      logger.Interface
}

func NewGrantExplicitAccessUseCase(
	grantRepo courseaccess.Repository,
	userRepo user.Repository,
	catalogRepo catalog.Repository,
	invalidator access.CacheInvalidator,
	logger logger.Interface,
) *GrantExplicitAccessUseCase {
	return &GrantExplicitAccessUseCase{
		grantRepo:   grantRepo,
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (uc *GrantExplicitAccessUseCase) Execute(ctx context.Context, cmd dto.GrantExplicitAccessCommand) (*dto.GrantResponse, error) {
	uc.logger.Infow("executing grant explicit access use case",
		"user_id", cmd.UserID,
		"path_id", cmd.PathID,
		"level_id", cmd.LevelID,
		"exercise_id", cmd.ExerciseID,
		"access_type", cmd.AccessType,
	)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, cmd); err != nil {
		return nil, err
	}

	accessType := courseaccess.AccessType(cmd.AccessType)
	source := courseaccess.Source(cmd.Source)
	if source == "" {
		source = courseaccess.SourceAdmin
	}
	caps := capabilitiesFor(accessType, cmd)
	scope := courseaccess.Scope{
		UserID:     cmd.UserID,
		PathID:     cmd.PathID,
		LevelID:    cmd.LevelID,
		ExerciseID: cmd.ExerciseID,
	}

	grant, err := uc.upsert(ctx, scope, accessType, source, caps, cmd)
	if err != nil {
		return nil, err
	}

	if err := uc.invalidator.InvalidateUser(ctx, cmd.UserID); err != nil {
		uc.logger.Warnw("grant saved but cached decisions were not invalidated",
			"user_id", cmd.UserID, "error", err)
	}

	uc.logger.Infow("explicit access granted",
		"grant_id", grant.ID(),
		"user_id", cmd.UserID,
		"path_id", cmd.PathID,
	)
	return dto.ToGrantResponse(grant), nil
}

// upsert updates the grant stored for the scope in place, or creates it. A concurrent
// create that loses on the unique index retries as an update.
func (uc *GrantExplicitAccessUseCase) upsert(ctx context.Context, scope courseaccess.Scope,
	accessType courseaccess.AccessType, source courseaccess.Source, caps courseaccess.Capabilities,
	cmd dto.GrantExplicitAccessCommand) (*courseaccess.Grant, error) {
	existing, err := uc.grantRepo.GetByScope(ctx, scope)
	if err != nil {
		uc.logger.Errorw("failed to look up existing grant", "error", err)
		return nil, fmt.Errorf("failed to look up existing grant: %w", err)
	}

	if existing == nil {
		grant, err := courseaccess.NewGrant(scope, accessType, source, caps, cmd.ExpiresAt)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		for k, v := range cmd.Metadata {
			grant.SetMetadata(k, v)
		}
		err = uc.grantRepo.Create(ctx, grant)
		if err == nil {
			return grant, nil
		}
		if !errors.IsDuplicateError(err) {
			uc.logger.Errorw("failed to create grant", "error", err)
			return nil, fmt.Errorf("failed to create grant: %w", err)
		}
		existing, err = uc.grantRepo.GetByScope(ctx, scope)
		if err != nil || existing == nil {
			return nil, fmt.Errorf("failed to reload grant after concurrent create: %w", err)
		}
	}

	if err := existing.Apply(accessType, source, caps, cmd.ExpiresAt); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	for k, v := range cmd.Metadata {
		existing.SetMetadata(k, v)
	}
	if err := uc.grantRepo.Update(ctx, existing); err != nil {
		uc.logger.Errorw("failed to update grant", "grant_id", existing.ID(), "error", err)
		return nil, fmt.Errorf("failed to update grant: %w", err)
	}
	return existing, nil
}

func (uc *GrantExplicitAccessUseCase) checkReferences(ctx context.Context, cmd dto.GrantExplicitAccessCommand) error {
	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return errors.NewNotFoundError("user not found")
	}

	path, err := uc.catalogRepo.GetPath(ctx, cmd.PathID)
	if err != nil {
		return fmt.Errorf("failed to get path: %w", err)
	}
	if path == nil {
		return errors.NewNotFoundError("path not found")
	}
	if cmd.LevelID != 0 {
		if _, ok := path.Level(cmd.LevelID); !ok {
			return errors.NewValidationError(fmt.Sprintf("level %d does not belong to path %d", cmd.LevelID, cmd.PathID))
		}
	}
	return nil
}

func capabilitiesFor(accessType courseaccess.AccessType, cmd dto.GrantExplicitAccessCommand) courseaccess.Capabilities {
	caps := accessType.DefaultCapabilities()
	if cmd.CanView != nil {
		caps.CanView = *cmd.CanView
	}
	if cmd.CanInteract != nil {
		caps.CanInteract = *cmd.CanInteract
	}
	if cmd.CanDownload != nil {
		caps.CanDownload = *cmd.CanDownload
	}
	return caps
}
