package postgres

import (
	"context"

	"lingo/internal/domain/entity"
	domainerrors "lingo/internal/domain/errors"
	"lingo/internal/domain/repository"
	"lingo/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// identityRepository implements the domain's IdentityRepository interface using GORM.
type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository is the constructor for identityRepository.
func NewIdentityRepository(db *gorm.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

// Create persists a new sign-in method for a user.
func (repo *identityRepository) Create(ctx context.Context, identity *entity.FederatedIdentity) error {
	identityM := fromIdentityDomain(identity)

	if err := repo.db.WithContext(ctx).Create(identityM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("sign-in method already linked")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("user does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create identity")
	}

	identity.ID = identityM.ID
	identity.CreatedAt = identityM.CreatedAt

	return nil
}

// FindByProviderUserID retrieves a federated identity by provider and external user ID.
func (repo *identityRepository) FindByProviderUserID(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.FederatedIdentity, error) {
	var identityM model.FederatedIdentityModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider.String(), providerUserID).
		First(&identityM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, errors.Wrap(err, "failed to find identity by provider user id")
	}

	return toIdentityDomain(&identityM), nil
}

// FindLocalByUserID retrieves the password identity of a user.
func (repo *identityRepository) FindLocalByUserID(ctx context.Context, userID uuid.UUID) (*entity.FederatedIdentity, error) {
	var identityM model.FederatedIdentityModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, entity.ProviderTypeLocal.String()).
		First(&identityM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, errors.Wrap(err, "failed to find local identity")
	}

	return toIdentityDomain(&identityM), nil
}

// ListByUserID retrieves every sign-in method linked to a user.
func (repo *identityRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.FederatedIdentity, error) {
	var identityMs []model.FederatedIdentityModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&identityMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list identities")
	}

	identities := make([]*entity.FederatedIdentity, 0, len(identityMs))
	for i := range identityMs {
		identities = append(identities, toIdentityDomain(&identityMs[i]))
	}

	return identities, nil
}

// toIdentityDomain converts a GORM FederatedIdentityModel to a domain entity.
func toIdentityDomain(data *model.FederatedIdentityModel) *entity.FederatedIdentity {
	if data == nil {
		return nil
	}

	return &entity.FederatedIdentity{
		ID:             data.ID,
		UserID:         data.UserID,
		Provider:       entity.ProviderType(data.Provider),
		ProviderUserID: data.ProviderUserID,
		PasswordHash:   data.PasswordHash,
		CreatedAt:      data.CreatedAt,
	}
}

// fromIdentityDomain converts a domain entity to a GORM FederatedIdentityModel.
func fromIdentityDomain(data *entity.FederatedIdentity) *model.FederatedIdentityModel {
	if data == nil {
		return nil
	}

	return &model.FederatedIdentityModel{
		ID:             data.ID,
		UserID:         data.UserID,
		Provider:       data.Provider.String(),
		ProviderUserID: data.ProviderUserID,
		PasswordHash:   data.PasswordHash,
	}
}
