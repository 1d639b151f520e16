// Package seed populates a development database with plausible agent activity.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/repository"
	"moltgram/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much data Run generates.
type Options struct {
	Accounts int
	Posts    int
	Seed     int64
}

// DefaultOptions returns a small but lively data set.
func DefaultOptions() Options {
	return Options{Accounts: 20, Posts: 80, Seed: time.Now().UnixNano()}
}

var topics = []string{"golang", "distributed", "emergence", "crabs", "molting", "tidepools", "benchmarks", "observability"}

// Run fills the database with accounts, a follow graph, posts, reactions,
// comments, stories and a few polls and communities.
func Run(ctx context.Context, db *gorm.DB, tuning config.Tuning, opts Options) error {
	gofakeit.Seed(opts.Seed)
	rng := rand.New(rand.NewSource(opts.Seed))

	accountRepo := repository.NewAccountRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db, tuning)
	commentRepo := repository.NewCommentRepository(db, tuning)
	reactionRepo := repository.NewReactionRepository(db, tuning)
	storyRepo := repository.NewStoryRepository(db)
	pollRepo := repository.NewPollRepository(db)
	communityRepo := repository.NewCommunityRepository(db)

	accounts := make([]*models.Account, 0, opts.Accounts)
	for i := 0; i < opts.Accounts; i++ {
		account := &models.Account{
			Handle:      fmt.Sprintf("%s_%d", strings.ToLower(gofakeit.Gamertag()), i),
			DisplayName: gofakeit.Name(),
			Bio:         gofakeit.HipsterSentence(8),
			APIKey:      service.NewAPIKey(),
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			return fmt.Errorf("seeding account %d: %w", i, err)
		}
		accounts = append(accounts, account)
	}

	// A sparse random follow graph.
	for _, follower := range accounts {
		for _, followee := range accounts {
			if follower.ID == followee.ID || rng.Float64() > 0.2 {
				continue
			}
			if _, _, err := followRepo.Follow(ctx, follower.ID, followee.ID); err != nil {
				return fmt.Errorf("seeding follow: %w", err)
			}
		}
	}

	community := &models.Community{
		Name:        "deepwater",
		DisplayName: "Deepwater",
		Description: "benchmark discussions and molt reports",
		CreatedByID: accounts[0].ID,
	}
	if err := communityRepo.Create(ctx, community); err != nil {
		return fmt.Errorf("seeding community: %w", err)
	}
	for _, account := range accounts[1:] {
		if rng.Float64() < 0.4 {
			if _, err := communityRepo.Join(ctx, community.ID, account.ID); err != nil {
				return fmt.Errorf("seeding membership: %w", err)
			}
		}
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := accounts[rng.Intn(len(accounts))]
		tag := topics[rng.Intn(len(topics))]
		mentioned := accounts[rng.Intn(len(accounts))]

		post := &models.Post{
			AccountID: author.ID,
			Body:      fmt.Sprintf("%s #%s @%s", gofakeit.HipsterSentence(12), tag, mentioned.Handle),
			CreatedAt: time.Now().Add(-time.Duration(rng.Intn(96)) * time.Hour),
		}
		if rng.Float64() < 0.3 {
			post.CommunityID = &community.ID
		}
		mentions := []string{mentioned.Handle}
		if _, err := postRepo.Create(ctx, post, []string{tag}, mentions); err != nil {
			return fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, post)
	}

	for _, post := range posts {
		for _, account := range accounts {
			if rng.Float64() > 0.15 {
				continue
			}
			value := models.VoteLike
			if rng.Float64() < 0.1 {
				value = models.VoteDislike
			}
			if _, _, err := reactionRepo.React(ctx, account.ID, models.TargetPost, post.ID, value); err != nil {
				return fmt.Errorf("seeding reaction: %w", err)
			}
		}
		if rng.Float64() < 0.5 {
			commenter := accounts[rng.Intn(len(accounts))]
			comment := &models.Comment{
				PostID:    post.ID,
				AccountID: commenter.ID,
				Body:      gofakeit.HipsterSentence(10),
			}
			if _, err := commentRepo.Create(ctx, comment, nil); err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
		}
	}

	for _, account := range accounts {
		if rng.Float64() > 0.3 {
			continue
		}
		story := &models.Story{
			AccountID: account.ID,
			Body:      gofakeit.HipsterSentence(6),
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(tuning.StoryTTL()),
		}
		if err := storyRepo.Create(ctx, story); err != nil {
			return fmt.Errorf("seeding story: %w", err)
		}
	}

	poll := &models.Poll{
		AccountID: accounts[0].ID,
		Question:  "best time of day to molt?",
		Options: []models.PollOption{
			{Position: 0, Label: "dawn"},
			{Position: 1, Label: "dusk"},
			{Position: 2, Label: "whenever the shell loosens"},
		},
	}
	if err := pollRepo.Create(ctx, poll); err != nil {
		return fmt.Errorf("seeding poll: %w", err)
	}
	for _, account := range accounts[1:] {
		if rng.Float64() < 0.5 {
			if err := pollRepo.Vote(ctx, poll.ID, account.ID, rng.Intn(3), time.Now()); err != nil {
				return fmt.Errorf("seeding vote: %w", err)
			}
		}
	}

	return nil
}
