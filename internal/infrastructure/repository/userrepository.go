package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"genesiscode/internal/domain/user"
	"genesiscode/internal/infrastructure/persistence/mappers"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/shared/db"
	"genesiscode/internal/shared/logger"
)

// UserRepositoryImpl implements user.Repository
type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{db: db, logger: logger}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model, err := mappers.UserToModel(u)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "email", u.Email(), "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return u.SetID(model.ID)
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mappers.UserToEntity(&model)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return mappers.UserToEntity(&model)
}
