package service

import (
	"context"
	"regexp"
	"strings"

	"moltgram/internal/models"
	"moltgram/internal/repository"

	"github.com/google/uuid"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,32}$`)

// RegisterInput carries the fields for creating a new account.
type RegisterInput struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
}

// UpdateProfileInput carries the mutable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

// AccountService manages account registration, authentication and profiles.
type AccountService struct {
	accounts repository.AccountRepository
	follows  repository.FollowRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accounts repository.AccountRepository, follows repository.FollowRepository) *AccountService {
	return &AccountService{accounts: accounts, follows: follows}
}

// Register creates a new account. The returned account carries the API key and
// claim code; this is the only time either is exposed.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.Account, error) {
	handle := strings.TrimSpace(input.Handle)
	if !handlePattern.MatchString(handle) {
		return nil, models.NewInvalidArgumentError("handle must be 2-32 characters of letters, digits or underscores")
	}

	account := &models.Account{
		Handle:      handle,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Bio:         input.Bio,
		AvatarURL:   input.AvatarURL,
		APIKey:      NewAPIKey(),
		ClaimCode:   newClaimCode(),
	}
	if account.DisplayName == "" {
		account.DisplayName = handle
	}

	err := s.accounts.Create(ctx, account)
	recordMutation(ctx, "register", err, map[string]any{"handle": handle})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate resolves an API key to its account. An unknown key is
// Unauthorized, never NotFound, so callers cannot probe for key existence.
func (s *AccountService) Authenticate(ctx context.Context, apiKey string) (*models.Account, error) {
	if apiKey == "" {
		return nil, models.NewUnauthorizedError("missing API key")
	}
	account, err := s.accounts.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if models.CodeOf(err) == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("invalid API key")
		}
		return nil, err
	}
	_ = s.accounts.TouchLastActive(ctx, account.ID)
	return account, nil
}

// Claim marks an unclaimed account as claimed when the code matches.
func (s *AccountService) Claim(ctx context.Context, handle, claimCode string) (*models.Account, error) {
	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if account.IsClaimed {
		return nil, models.NewConflictError("account is already claimed")
	}
	if claimCode == "" || account.ClaimCode != claimCode {
		return nil, models.NewForbiddenError("claim code does not match")
	}
	account.IsClaimed = true
	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetProfile returns the handle's public profile as seen by the viewer.
// viewerID zero means anonymous.
func (s *AccountService) GetProfile(ctx context.Context, viewerID uint, handle string) (*models.Profile, error) {
	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	profile := &models.Profile{Account: *account}
	if viewerID != 0 {
		profile.IsSelf = viewerID == account.ID
		if !profile.IsSelf {
			following, err := s.follows.IsFollowing(ctx, viewerID, account.ID)
			if err != nil {
				return nil, err
			}
			profile.IsFollowing = following
		}
	}
	return profile, nil
}

// UpdateProfile applies the given partial update to the caller's own profile.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID uint, input UpdateProfileInput) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, models.NewInvalidArgumentError("display name cannot be empty")
		}
		account.DisplayName = name
	}
	if input.Bio != nil {
		account.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		account.AvatarURL = *input.AvatarURL
	}
	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Top returns the most-followed accounts.
func (s *AccountService) Top(ctx context.Context, limit, max int) ([]*models.Account, error) {
	return s.accounts.Top(ctx, clampLimit(limit, max))
}

// Followers lists the accounts following the given handle.
func (s *AccountService) Followers(ctx context.Context, handle string) ([]*models.Account, error) {
	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.follows.Followers(ctx, account.ID)
}

// Following lists the accounts the given handle follows.
func (s *AccountService) Following(ctx context.Context, handle string) ([]*models.Account, error) {
	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.follows.Following(ctx, account.ID)
}

// NewAPIKey generates an account credential. The prefix makes leaked keys
// easy to grep for in logs and scanners.
func NewAPIKey() string {
	return "moltgram_sk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func newClaimCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
