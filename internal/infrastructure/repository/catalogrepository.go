package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/infrastructure/persistence/mappers"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/db"
	"genesiscode/internal/shared/logger"
)

// CatalogRepositoryImpl implements catalog.Repository. Paths are always loaded with
// their levels in (level_order, id) order.
type CatalogRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCatalogRepository(db *gorm.DB, logger logger.Interface) catalog.Repository {
	return &CatalogRepositoryImpl{db: db, logger: logger}
}

func preloadLevels(tx *gorm.DB) *gorm.DB {
	return tx.Order("level_order ASC, id ASC")
}

func (r *CatalogRepositoryImpl) GetPath(ctx context.Context, pathID uint) (*catalog.Path, error) {
	var model models.PathModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Levels", preloadLevels).
		First(&model, pathID).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get path: %w", err)
	}
	return mappers.PathToEntity(&model)
}

func (r *CatalogRepositoryImpl) GetCategory(ctx context.Context, categoryID uint) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, categoryID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return mappers.CategoryToEntity(&model)
}

func (r *CatalogRepositoryImpl) GetLevel(ctx context.Context, levelID uint) (*catalog.Level, error) {
	var model models.LevelModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, levelID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return mappers.LevelToEntity(model)
}

func (r *CatalogRepositoryImpl) ListPathsByCategory(ctx context.Context, categoryID uint) ([]*catalog.Path, error) {
	var list []models.PathModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Levels", preloadLevels).
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list paths", "category_id", categoryID, "error", err)
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	return mappers.PathsToEntities(list)
}

func (r *CatalogRepositoryImpl) CreateCategory(ctx context.Context, c *catalog.Category) error {
	model := &models.CategoryModel{Name: c.Name(), Slug: c.Slug(), CreatedAt: c.CreatedAt()}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return c.SetID(model.ID)
}

func (r *CatalogRepositoryImpl) CreatePath(ctx context.Context, p *catalog.Path) error {
	model := &models.PathModel{
		CategoryID:  p.CategoryID(),
		Title:       p.Title(),
		Description: p.Description(),
		CreatedAt:   p.CreatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Omit("Levels").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create path: %w", err)
	}
	return p.SetID(model.ID)
}

func (r *CatalogRepositoryImpl) CreateLevel(ctx context.Context, l *catalog.Level) error {
	model := &models.LevelModel{
		PathID:     l.PathID(),
		LevelOrder: l.Order(),
		Title:      l.Title(),
		CreatedAt:  l.CreatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create level: %w", err)
	}
	return l.SetID(model.ID)
}
