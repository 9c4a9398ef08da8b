package postgres

import (
	"context"
	"time"

	"lingo/internal/domain/entity"
	domainerrors "lingo/internal/domain/errors"
	"lingo/internal/domain/repository"
	"lingo/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// loginAttemptRepository implements the domain's LoginAttemptRepository interface using GORM.
type loginAttemptRepository struct {
	db *gorm.DB
}

// NewLoginAttemptRepository is the constructor for loginAttemptRepository.
func NewLoginAttemptRepository(db *gorm.DB) repository.LoginAttemptRepository {
	return &loginAttemptRepository{db: db}
}

// Create appends one attempt record.
func (repo *loginAttemptRepository) Create(ctx context.Context, attempt *entity.LoginAttempt) error {
	attemptM := fromLoginAttemptDomain(attempt)

	if err := repo.db.WithContext(ctx).Create(attemptM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to record login attempt")
	}

	attempt.ID = attemptM.ID

	return nil
}

// CountRecentFailures counts failed attempts from an IP within the trailing window.
func (repo *loginAttemptRepository) CountRecentFailures(ctx context.Context, ipAddress string, window time.Duration) (int, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.LoginAttemptModel{}).
		Where("ip_address = ? AND successful = ? AND attempted_at > ?", ipAddress, false, time.Now().Add(-window)).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count recent login failures")
	}

	return int(count), nil
}

// FindByUserID returns the most recent attempts targeting a user, newest first.
func (repo *loginAttemptRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.LoginAttempt, error) {
	var attemptMs []model.LoginAttemptModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("attempted_at DESC").
		Limit(limit).
		Find(&attemptMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list login attempts")
	}

	attempts := make([]*entity.LoginAttempt, 0, len(attemptMs))
	for i := range attemptMs {
		attempts = append(attempts, toLoginAttemptDomain(&attemptMs[i]))
	}

	return attempts, nil
}

// toLoginAttemptDomain converts a GORM LoginAttemptModel to a domain entity.
func toLoginAttemptDomain(data *model.LoginAttemptModel) *entity.LoginAttempt {
	if data == nil {
		return nil
	}

	attempt := &entity.LoginAttempt{
		ID:          data.ID,
		Provider:    entity.ProviderType(data.Provider),
		IPAddress:   data.IPAddress,
		UserAgent:   data.UserAgent,
		Successful:  data.Successful,
		AttemptedAt: data.AttemptedAt,
	}
	if data.UserID != nil {
		attempt.UserID = *data.UserID
	}

	return attempt
}

// fromLoginAttemptDomain converts a domain entity to a GORM LoginAttemptModel.
func fromLoginAttemptDomain(data *entity.LoginAttempt) *model.LoginAttemptModel {
	if data == nil {
		return nil
	}

	attemptM := &model.LoginAttemptModel{
		ID:          data.ID,
		Provider:    data.Provider.String(),
		IPAddress:   data.IPAddress,
		UserAgent:   data.UserAgent,
		Successful:  data.Successful,
		AttemptedAt: data.AttemptedAt,
	}
	if data.UserID != uuid.Nil {
		userID := data.UserID
		attemptM.UserID = &userID
	}

	return attemptM
}
