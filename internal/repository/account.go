package repository

import (
	"context"
	"strings"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
	GetByAPIKey(ctx context.Context, key string) (*models.Account, error)
	UpdateProfile(ctx context.Context, account *models.Account) error
	TouchLastActive(ctx context.Context, id uint) error
	Top(ctx context.Context, limit int) ([]*models.Account, error)
	ResolveHandles(ctx context.Context, handles []string) ([]*models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.LastActiveAt = now
	err := r.db.WithContext(ctx).Create(account).Error
	if isDuplicate(err) {
		return models.NewConflictError("handle is already taken")
	}
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, translateNotFound(err, "account", id)
	}
	return &account, nil
}

func (r *accountRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("handle_lower = ?", strings.ToLower(handle)).
		First(&account).Error
	if err != nil {
		return nil, translateNotFound(err, "account", handle)
	}
	return &account, nil
}

func (r *accountRepository) GetByAPIKey(ctx context.Context, key string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("api_key = ?", key).First(&account).Error
	if err != nil {
		return nil, translateNotFound(err, "account", "by key")
	}
	return &account, nil
}

func (r *accountRepository) UpdateProfile(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Model(account).
		Select("DisplayName", "Bio", "AvatarURL", "IsClaimed", "HandleLower", "Handle").
		Updates(account).Error
}

func (r *accountRepository) TouchLastActive(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("last_active_at", time.Now()).Error
}

func (r *accountRepository) Top(ctx context.Context, limit int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Order("follower_count DESC, post_count DESC").
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

// ResolveHandles returns the accounts whose handles match (case-insensitively)
// any of the given handles. Unknown handles are silently skipped.
func (r *accountRepository) ResolveHandles(ctx context.Context, handles []string) ([]*models.Account, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(handles))
	for _, h := range handles {
		lowered = append(lowered, strings.ToLower(h))
	}
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Where("handle_lower IN ?", lowered).
		Find(&accounts).Error
	return accounts, err
}
