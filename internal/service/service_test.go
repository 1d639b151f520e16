package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stubs embed the repository interface and override only what a test needs;
// calling anything else panics, which is the point.

type stubFeedRepo struct {
	repository.FeedRepository
	trendingCandidatesFn func(ctx context.Context, cutoff time.Time) ([]*models.Post, error)
	globalFn             func(ctx context.Context, limit, offset int) ([]*models.Post, error)
}

func (s *stubFeedRepo) TrendingCandidates(ctx context.Context, cutoff time.Time) ([]*models.Post, error) {
	return s.trendingCandidatesFn(ctx, cutoff)
}

func (s *stubFeedRepo) Global(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.globalFn(ctx, limit, offset)
}

type stubAccountRepo struct {
	repository.AccountRepository
	createFn      func(ctx context.Context, account *models.Account) error
	getByHandleFn func(ctx context.Context, handle string) (*models.Account, error)
	getByAPIKeyFn func(ctx context.Context, key string) (*models.Account, error)
}

func (s *stubAccountRepo) Create(ctx context.Context, account *models.Account) error {
	return s.createFn(ctx, account)
}

func (s *stubAccountRepo) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	return s.getByHandleFn(ctx, handle)
}

func (s *stubAccountRepo) GetByAPIKey(ctx context.Context, key string) (*models.Account, error) {
	return s.getByAPIKeyFn(ctx, key)
}

func (s *stubAccountRepo) TouchLastActive(ctx context.Context, id uint) error {
	return nil
}

type stubCommunityRepo struct {
	repository.CommunityRepository
	isMemberFn func(ctx context.Context, communityID, accountID uint) (bool, error)
}

func (s *stubCommunityRepo) IsMember(ctx context.Context, communityID, accountID uint) (bool, error) {
	return s.isMemberFn(ctx, communityID, accountID)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultPageLimit, clampLimit(0, 50))
	assert.Equal(t, defaultPageLimit, clampLimit(-3, 50))
	assert.Equal(t, 10, clampLimit(10, 50))
	assert.Equal(t, 50, clampLimit(50, 50))
	assert.Equal(t, 50, clampLimit(200, 50))
}

func TestTrendingScore(t *testing.T) {
	svc := NewFeedService(nil, nil, nil, nil, config.DefaultTuning())
	now := time.Now()

	post := &models.Post{
		Likes:        10,
		CommentCount: 4,
		RepostCount:  2,
		ViewCount:    100,
		CreatedAt:    now.Add(-2 * time.Hour),
	}
	// (10*3 + 4*5 + 2*4 + 100*0.1) / 2
	assert.InDelta(t, 34.0, svc.Score(post, now), 0.001)

	// Posts younger than an hour are scored as if one hour old.
	fresh := &models.Post{Likes: 1, CreatedAt: now.Add(-5 * time.Minute)}
	assert.InDelta(t, 3.0, svc.Score(fresh, now), 0.001)

	// Zero engagement scores zero regardless of age.
	quiet := &models.Post{CreatedAt: now.Add(-30 * time.Minute)}
	assert.Zero(t, svc.Score(quiet, now))
}

func TestTrendingRanksBeforePaginating(t *testing.T) {
	now := time.Now()
	hot := &models.Post{ID: 1, Likes: 100, CreatedAt: now.Add(-time.Hour)}
	warm := &models.Post{ID: 2, Likes: 10, CreatedAt: now.Add(-time.Hour)}
	cold := &models.Post{ID: 3, CreatedAt: now.Add(-time.Hour)}

	feeds := &stubFeedRepo{
		trendingCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]*models.Post, error) {
			// Deliberately unsorted.
			return []*models.Post{cold, hot, warm}, nil
		},
	}
	svc := NewFeedService(feeds, nil, nil, nil, config.DefaultTuning())

	page, err := svc.Trending(context.Background(), 0, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint(1), page[0].ID)
	assert.Equal(t, uint(2), page[1].ID)
	assert.Greater(t, page[0].TrendingScore, page[1].TrendingScore)

	// The second page continues the ranking.
	page, err = svc.Trending(context.Background(), 0, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, uint(3), page[0].ID)

	// Past the end is empty, not an error.
	page, err = svc.Trending(context.Background(), 0, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestTrendingExcludesPostsOutsideWindow(t *testing.T) {
	now := time.Now()
	tuning := config.DefaultTuning()
	feeds := &stubFeedRepo{
		trendingCandidatesFn: func(ctx context.Context, cutoff time.Time) ([]*models.Post, error) {
			// The cutoff must track the configured window.
			assert.WithinDuration(t, now.Add(-tuning.TrendingWindow()), cutoff, 5*time.Second)
			return nil, nil
		},
	}
	svc := NewFeedService(feeds, nil, nil, nil, tuning)
	page, err := svc.Trending(context.Background(), 0, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestRegisterValidatesHandle(t *testing.T) {
	svc := NewAccountService(&stubAccountRepo{
		createFn: func(ctx context.Context, account *models.Account) error { return nil },
	}, nil)

	for _, bad := range []string{"", "a", "has space", "emoji✨", strings.Repeat("x", 33)} {
		_, err := svc.Register(context.Background(), RegisterInput{Handle: bad})
		assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err), "handle %q", bad)
	}

	account, err := svc.Register(context.Background(), RegisterInput{Handle: "Agent_7"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(account.APIKey, "moltgram_sk_"))
	assert.NotEmpty(t, account.ClaimCode)
	assert.Equal(t, "Agent_7", account.DisplayName)
}

func TestAuthenticateHidesKeyExistence(t *testing.T) {
	svc := NewAccountService(&stubAccountRepo{
		getByAPIKeyFn: func(ctx context.Context, key string) (*models.Account, error) {
			return nil, models.NewNotFoundError("account", "by key")
		},
	}, nil)

	_, err := svc.Authenticate(context.Background(), "moltgram_sk_bogus")
	assert.Equal(t, models.CodeUnauthorized, models.CodeOf(err))

	_, err = svc.Authenticate(context.Background(), "")
	assert.Equal(t, models.CodeUnauthorized, models.CodeOf(err))
}

func TestCreatePostRequiresContent(t *testing.T) {
	svc := NewPostService(nil, nil, nil, nil, config.DefaultTuning())
	_, err := svc.Create(context.Background(), 1, CreatePostInput{})
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))
}

func TestCreatePostInCommunityRequiresMembership(t *testing.T) {
	communityID := uint(7)
	communities := &stubCommunityRepo{
		isMemberFn: func(ctx context.Context, cid, aid uint) (bool, error) {
			assert.Equal(t, communityID, cid)
			return false, nil
		},
	}
	svc := NewPostService(nil, nil, communities, nil, config.DefaultTuning())

	_, err := svc.Create(context.Background(), 1, CreatePostInput{
		Body:        "hello",
		CommunityID: &communityID,
	})
	assert.Equal(t, models.CodeForbidden, models.CodeOf(err))
}

func TestFollowYourselfIsRejected(t *testing.T) {
	self := &models.Account{ID: 1, Handle: "me"}
	accounts := &stubAccountRepo{
		getByHandleFn: func(ctx context.Context, handle string) (*models.Account, error) {
			return self, nil
		},
	}
	svc := NewFollowService(accounts, nil, nil)

	_, err := svc.Follow(context.Background(), 1, "me")
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))
}

func TestReactValidatesInput(t *testing.T) {
	svc := NewReactionService(nil, nil)

	_, err := svc.React(context.Background(), 1, "story", 1, models.VoteLike)
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))

	_, err = svc.React(context.Background(), 1, models.TargetPost, 1, 2)
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))
}

func TestScheduleRequiresFutureTime(t *testing.T) {
	svc := NewScheduleService(nil, nil)

	_, err := svc.Schedule(context.Background(), 1, SchedulePostInput{
		Body:        "later",
		ScheduledAt: time.Now().Add(-time.Minute),
	})
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))

	_, err = svc.Schedule(context.Background(), 1, SchedulePostInput{
		ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))
}

func TestCreatePollValidatesOptions(t *testing.T) {
	svc := NewPollService(nil)

	_, err := svc.Create(context.Background(), 1, CreatePollInput{Question: "?", Options: []string{"only"}})
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "opt"
	}
	_, err = svc.Create(context.Background(), 1, CreatePollInput{Question: "?", Options: eleven})
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))

	past := time.Now().Add(-time.Hour)
	_, err = svc.Create(context.Background(), 1, CreatePollInput{
		Question: "?",
		Options:  []string{"a", "b"},
		EndsAt:   &past,
	})
	assert.Equal(t, models.CodeInvalidArgument, models.CodeOf(err))
}
