package repository

import (
	"context"
	"testing"
	"time"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAccount(t *testing.T, db *gorm.DB, handle string) *models.Account {
	t.Helper()
	account := &models.Account{
		Handle:      handle,
		DisplayName: handle,
		APIKey:      "moltgram_sk_" + handle,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedPost(t *testing.T, db *gorm.DB, accountID uint, body string) *models.Post {
	t.Helper()
	post := &models.Post{AccountID: accountID, Body: body, CreatedAt: time.Now()}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestFollowIsIdempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewFollowRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	created, ns, err := repo.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationFollow, ns[0].Type)
	assert.Equal(t, bob.ID, ns[0].RecipientID)

	// Repeating the follow changes nothing.
	created, ns, err = repo.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, ns)

	var follower, followee models.Account
	require.NoError(t, db.First(&follower, alice.ID).Error)
	require.NoError(t, db.First(&followee, bob.ID).Error)
	assert.Equal(t, 1, follower.FollowingCount)
	assert.Equal(t, 1, followee.FollowerCount)

	var notifCount int64
	db.Model(&models.Notification{}).Count(&notifCount)
	assert.EqualValues(t, 1, notifCount)
}

func TestUnfollowOnlyRemovesExistingEdge(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewFollowRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	removed, err := repo.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, _, err = repo.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	removed, err = repo.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	var followee models.Account
	require.NoError(t, db.First(&followee, bob.ID).Error)
	assert.Equal(t, 0, followee.FollowerCount)
}

func TestDoubleLikeCountsOnce(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	tuning := config.DefaultTuning()
	repo := NewReactionRepository(db, tuning)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")
	post := seedPost(t, db, bob.ID, "hello")

	outcome, ns, err := repo.React(ctx, alice.ID, models.TargetPost, post.ID, models.VoteLike)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationLike, ns[0].Type)

	outcome, ns, err = repo.React(ctx, alice.ID, models.TargetPost, post.ID, models.VoteLike)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Empty(t, ns)

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.Likes)

	var owner models.Account
	require.NoError(t, db.First(&owner, bob.ID).Error)
	assert.Equal(t, tuning.KarmaLikeReceived, owner.Karma)
}

func TestReactionFlipMovesBothCounters(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewReactionRepository(db, config.DefaultTuning())
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")
	post := seedPost(t, db, bob.ID, "hello")

	_, _, err := repo.React(ctx, alice.ID, models.TargetPost, post.ID, models.VoteLike)
	require.NoError(t, err)

	outcome, _, err := repo.React(ctx, alice.ID, models.TargetPost, post.ID, models.VoteDislike)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	assert.True(t, outcome.Flipped)

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 0, got.Likes)
	assert.Equal(t, 1, got.Dislikes)
}

func TestReactOnMissingTargetIsNotFound(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewReactionRepository(db, config.DefaultTuning())
	alice := seedAccount(t, db, "alice")

	_, _, err := repo.React(context.Background(), alice.ID, models.TargetPost, 999, models.VoteLike)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCreatePostLinksHashtagsAndMentions(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	tuning := config.DefaultTuning()
	repo := NewPostRepository(db, tuning)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	post := &models.Post{AccountID: alice.ID, Body: "what a #sunny day, right @bob?"}
	ns, err := repo.Create(ctx, post, []string{"sunny"}, []string{"bob"})
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationMention, ns[0].Type)
	assert.Equal(t, bob.ID, ns[0].RecipientID)

	var hashtag models.Hashtag
	require.NoError(t, db.Where("tag = ?", "sunny").First(&hashtag).Error)
	assert.Equal(t, 1, hashtag.PostCount)

	var author models.Account
	require.NoError(t, db.First(&author, alice.ID).Error)
	assert.Equal(t, 1, author.PostCount)
	assert.Equal(t, tuning.KarmaPost, author.Karma)
}

func TestSelfMentionDoesNotNotify(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPostRepository(db, config.DefaultTuning())
	alice := seedAccount(t, db, "alice")

	post := &models.Post{AccountID: alice.ID, Body: "note to self @alice"}
	ns, err := repo.Create(context.Background(), post, nil, []string{"alice"})
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestDeletePostCascades(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	tuning := config.DefaultTuning()
	postRepo := NewPostRepository(db, tuning)
	commentRepo := NewCommentRepository(db, tuning)
	reactionRepo := NewReactionRepository(db, tuning)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	post := &models.Post{AccountID: alice.ID, Body: "doomed #gone"}
	_, err := postRepo.Create(ctx, post, []string{"gone"}, nil)
	require.NoError(t, err)

	comment := &models.Comment{PostID: post.ID, AccountID: bob.ID, Body: "nice"}
	_, err = commentRepo.Create(ctx, comment, nil)
	require.NoError(t, err)
	_, _, err = reactionRepo.React(ctx, bob.ID, models.TargetPost, post.ID, models.VoteLike)
	require.NoError(t, err)
	_, _, err = reactionRepo.React(ctx, alice.ID, models.TargetComment, comment.ID, models.VoteLike)
	require.NoError(t, err)

	require.NoError(t, postRepo.Delete(ctx, post.ID))

	_, err = postRepo.GetByID(ctx, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	var comments, reactions, links int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	db.Model(&models.Reaction{}).Count(&reactions)
	db.Model(&models.PostHashtag{}).Where("post_id = ?", post.ID).Count(&links)
	assert.Zero(t, comments)
	assert.Zero(t, reactions)
	assert.Zero(t, links)

	var hashtag models.Hashtag
	require.NoError(t, db.Where("tag = ?", "gone").First(&hashtag).Error)
	assert.Equal(t, 0, hashtag.PostCount)

	var author models.Account
	require.NoError(t, db.First(&author, alice.ID).Error)
	assert.Equal(t, 0, author.PostCount)
}

func TestRepostOncePerOriginal(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	tuning := config.DefaultTuning()
	repo := NewPostRepository(db, tuning)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")
	original := seedPost(t, db, bob.ID, "original")

	repost, ns, err := repo.Repost(ctx, alice.ID, original.ID, "look at this")
	require.NoError(t, err)
	require.NotNil(t, repost.OriginalPostID)
	assert.Equal(t, original.ID, *repost.OriginalPostID)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationRepost, ns[0].Type)

	_, _, err = repo.Repost(ctx, alice.ID, original.ID, "again")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	var got models.Post
	require.NoError(t, db.First(&got, original.ID).Error)
	assert.Equal(t, 1, got.RepostCount)

	var owner models.Account
	require.NoError(t, db.First(&owner, bob.ID).Error)
	assert.Equal(t, tuning.KarmaRepostReceived, owner.Karma)
}

func TestCommentNotifiesOwnerOnceWithMentionExclusion(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db, config.DefaultTuning())
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")
	post := seedPost(t, db, alice.ID, "hello")

	// Bob comments and mentions the post owner: one comment notification,
	// no extra mention notification.
	comment := &models.Comment{PostID: post.ID, AccountID: bob.ID, Body: "hey @alice"}
	ns, err := repo.Create(ctx, comment, []string{"alice"})
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationComment, ns[0].Type)
	assert.Equal(t, alice.ID, ns[0].RecipientID)

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.CommentCount)
}

func TestReplyMustShareParentPost(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db, config.DefaultTuning())
	alice := seedAccount(t, db, "alice")
	postA := seedPost(t, db, alice.ID, "a")
	postB := seedPost(t, db, alice.ID, "b")

	parent := &models.Comment{PostID: postA.ID, AccountID: alice.ID, Body: "parent"}
	_, err := repo.Create(ctx, parent, nil)
	require.NoError(t, err)

	// A parent hanging off another post is as good as missing.
	reply := &models.Comment{PostID: postB.ID, AccountID: alice.ID, ParentID: &parent.ID, Body: "reply"}
	_, err = repo.Create(ctx, reply, nil)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPollVoteRules(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewPollRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	poll := &models.Poll{
		AccountID: alice.ID,
		Question:  "best shell?",
		Options: []models.PollOption{
			{Position: 0, Label: "bash"},
			{Position: 1, Label: "zsh"},
		},
	}
	require.NoError(t, repo.Create(ctx, poll))

	var appErr *models.AppError

	err := repo.Vote(ctx, poll.ID, bob.ID, 5, time.Now())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeInvalidArgument, appErr.Code)

	require.NoError(t, repo.Vote(ctx, poll.ID, bob.ID, 1, time.Now()))

	// Single-choice poll rejects a second vote, any option.
	err = repo.Vote(ctx, poll.ID, bob.ID, 0, time.Now())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	result, err := repo.Results(ctx, poll.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalVotes)
	assert.Equal(t, 1, result.Counts[1].Count)
	assert.Equal(t, []int{1}, result.YourVotes)
}

func TestVoteOnClosedPollIsExpired(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewPollRepository(db)
	alice := seedAccount(t, db, "alice")
	ended := time.Now().Add(-time.Hour)

	poll := &models.Poll{
		AccountID: alice.ID,
		Question:  "too late?",
		EndsAt:    &ended,
		Options: []models.PollOption{
			{Position: 0, Label: "yes"},
			{Position: 1, Label: "no"},
		},
	}
	require.NoError(t, repo.Create(ctx, poll))

	err := repo.Vote(ctx, poll.ID, alice.ID, 0, time.Now())
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeExpired, appErr.Code)
}

func TestMultipleChoicePollAllowsSeveralOptions(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewPollRepository(db)
	alice := seedAccount(t, db, "alice")

	poll := &models.Poll{
		AccountID:  alice.ID,
		Question:   "which editors?",
		IsMultiple: true,
		Options: []models.PollOption{
			{Position: 0, Label: "vim"},
			{Position: 1, Label: "emacs"},
			{Position: 2, Label: "vscode"},
		},
	}
	require.NoError(t, repo.Create(ctx, poll))

	require.NoError(t, repo.Vote(ctx, poll.ID, alice.ID, 0, time.Now()))
	require.NoError(t, repo.Vote(ctx, poll.ID, alice.ID, 2, time.Now()))

	// Same option twice is still a conflict.
	err := repo.Vote(ctx, poll.ID, alice.ID, 0, time.Now())
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestExpiredStoryIsGoneBeforePurge(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewStoryRepository(db)
	alice := seedAccount(t, db, "alice")

	story := &models.Story{
		AccountID: alice.ID,
		Body:      "blink and you miss it",
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, story))

	_, err := repo.Get(ctx, story.ID, time.Now())
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	purged, err := repo.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}

func TestStoryViewCountsOncePerViewer(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewStoryRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	story := &models.Story{
		AccountID: alice.ID,
		Body:      "live",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, story))

	first, err := repo.View(ctx, story.ID, bob.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, first)

	first, err = repo.View(ctx, story.ID, bob.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, first)

	got, err := repo.Get(ctx, story.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)
}

func TestNotificationInbox(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	followRepo := NewFollowRepository(db)
	repo := NewNotificationRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")
	carol := seedAccount(t, db, "carol")

	_, _, err := followRepo.Follow(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, _, err = followRepo.Follow(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	unread, err := repo.UnreadCount(ctx, carol.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	ns, err := repo.List(ctx, carol.ID, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, ns, 2)

	ok, err := repo.MarkRead(ctx, carol.ID, ns[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Re-marking is a no-op, as is marking someone else's notification.
	ok, err = repo.MarkRead(ctx, carol.ID, ns[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.MarkRead(ctx, alice.ID, ns[1].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	marked, err := repo.MarkAllRead(ctx, carol.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)

	unread, err = repo.UnreadCount(ctx, carol.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestSavedAndPinnedPosts(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewPostRepository(db, config.DefaultTuning())
	alice := seedAccount(t, db, "alice")
	post := seedPost(t, db, alice.ID, "keep me")

	saved, err := repo.Save(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	saved, err = repo.Save(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	posts, err := repo.SavedPosts(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	require.NoError(t, repo.Pin(ctx, alice.ID, post.ID))
	other := seedPost(t, db, alice.ID, "new pin")
	require.NoError(t, repo.Pin(ctx, alice.ID, other.ID))

	pinned, err := repo.PinnedPost(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, pinned)
	assert.Equal(t, other.ID, pinned.ID)
}

func TestAccountHandleIsCaseInsensitivelyUnique(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(db)

	require.NoError(t, repo.Create(ctx, &models.Account{Handle: "Alice", APIKey: "k1"}))
	err := repo.Create(ctx, &models.Account{Handle: "alice", APIKey: "k2"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	got, err := repo.GetByHandle(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Handle)
}

func TestDirectMessageConversations(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewMessageRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	ns, err := repo.Send(ctx, &models.DirectMessage{SenderID: alice.ID, ReceiverID: bob.ID, Body: "hi"})
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, models.NotificationDM, ns[0].Type)

	_, err = repo.Send(ctx, &models.DirectMessage{SenderID: bob.ID, ReceiverID: alice.ID, Body: "hello back"})
	require.NoError(t, err)

	convs, err := repo.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, bob.ID, convs[0].Counterpart.ID)
	assert.Equal(t, "hello back", convs[0].LastMessage.Body)
	assert.Equal(t, 1, convs[0].UnreadCount)

	marked, err := repo.MarkThreadRead(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)
}

func TestScheduledPostLifecycle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewScheduledPostRepository(db)
	alice := seedAccount(t, db, "alice")

	sp := &models.ScheduledPost{
		AccountID:   alice.ID,
		Body:        "later",
		ScheduledAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(ctx, sp))

	due, err := repo.Due(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	ok, err := repo.MarkPublished(ctx, sp.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.MarkPublished(ctx, sp.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	due, err = repo.Due(ctx, time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestFollowingFeedIncludesOwnPosts(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	feeds := NewFeedRepository(db)
	follows := NewFollowRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")
	carol := seedAccount(t, db, "carol")

	_, _, err := follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	mine := seedPost(t, db, alice.ID, "from alice")
	followed := seedPost(t, db, bob.ID, "from bob")
	seedPost(t, db, carol.ID, "from carol")

	posts, err := feeds.Following(ctx, alice.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	ids := []uint{posts[0].ID, posts[1].ID}
	assert.Contains(t, ids, mine.ID)
	assert.Contains(t, ids, followed.ID)
}

func TestExploreRanksByLikesThenRecency(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	feeds := NewFeedRepository(db)
	alice := seedAccount(t, db, "alice")
	bob := seedAccount(t, db, "bob")

	popular := &models.Post{
		AccountID: bob.ID,
		Body:      "old but liked",
		Likes:     10,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(popular).Error)
	fresh := seedPost(t, db, bob.ID, "fresh but unliked")

	posts, err := feeds.Explore(ctx, alice.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, popular.ID, posts[0].ID)
	assert.Equal(t, fresh.ID, posts[1].ID)
}

func TestTopHashtagsTiebreakByRecentUse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	repo := NewHashtagRepository(db)
	now := time.Now()

	require.NoError(t, db.Create(&models.Hashtag{Tag: "stale", PostCount: 3, LastUsedAt: now.Add(-2 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Hashtag{Tag: "busy", PostCount: 7, LastUsedAt: now.Add(-3 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Hashtag{Tag: "live", PostCount: 3, LastUsedAt: now.Add(-time.Minute)}).Error)

	top, err := repo.Top(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "busy", top[0].Tag)
	assert.Equal(t, "live", top[1].Tag)
	assert.Equal(t, "stale", top[2].Tag)
}
