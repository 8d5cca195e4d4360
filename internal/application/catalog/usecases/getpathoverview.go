package usecases

import (
	"context"
	"fmt"

	"genesiscode/internal/application/catalog/dto"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/shared/errors"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/services/markdown"
)

// GetPathOverviewUseCase returns the public overview of a path. Viewing it is always
// free; gating applies to levels only.
type GetPathOverviewUseCase struct {
	catalogRepo catalog.Repository
	renderer    markdown.Renderer
	logger      logger.Interface
}

func NewGetPathOverviewUseCase(catalogRepo catalog.Repository, renderer markdown.Renderer, logger logger.Interface) *GetPathOverviewUseCase {
	return &GetPathOverviewUseCase{
		catalogRepo: catalogRepo,
		renderer:    renderer,
		logger:      logger,
	}
}

func (uc *GetPathOverviewUseCase) Execute(ctx context.Context, pathID uint) (*dto.PathOverviewDTO, error) {
	path, err := uc.catalogRepo.GetPath(ctx, pathID)
	if err != nil {
		return nil, fmt.Errorf("failed to get path: %w", err)
	}
	if path == nil {
		return nil, errors.NewNotFoundError("path not found")
	}

	description, err := uc.renderer.Render(path.Description())
	if err != nil {
		// Show the overview without a description rather than failing the page.
		uc.logger.Warnw("failed to render path description", "path_id", pathID, "error", err)
		description = ""
	}

	first := catalog.FirstLevel(path.Levels())
	levels := make([]dto.LevelDTO, 0, len(path.Levels()))
	for _, l := range catalog.SortedLevels(path.Levels()) {
		levels = append(levels, dto.LevelDTO{
			ID:    l.ID(),
			Order: l.Order(),
			Title: l.Title(),
			Free:  first != nil && first.ID() == l.ID(),
		})
	}

	return &dto.PathOverviewDTO{
		ID:              path.ID(),
		CategoryID:      path.CategoryID(),
		Title:           path.Title(),
		DescriptionHTML: description,
		Levels:          levels,
	}, nil
}
