// Package server wires the HTTP API: middleware, routes and thin handlers
// that delegate to the service layer.
package server

import (
	"context"
	"fmt"
	"time"

	"moltgram/internal/cache"
	"moltgram/internal/config"
	"moltgram/internal/database"
	"moltgram/internal/notifications"
	"moltgram/internal/repository"
	"moltgram/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client

	accounts      *service.AccountService
	follows       *service.FollowService
	reactions     *service.ReactionService
	posts         *service.PostService
	comments      *service.CommentService
	feeds         *service.FeedService
	stories       *service.StoryService
	polls         *service.PollService
	notifications *service.NotificationService
	communities   *service.CommunityService
	collections   *service.CollectionService
	messages      *service.MessageService
	schedules     *service.ScheduleService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDB(cfg, db, redisClient), nil
}

// NewServerWithDB builds a server on an already-open database and Redis
// client. Tests use it with sqlite and miniredis.
func NewServerWithDB(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	tuning := cfg.Tuning
	notifier := notifications.NewNotifier(redisClient)

	accountRepo := repository.NewAccountRepository(db)
	followRepo := repository.NewFollowRepository(db)
	reactionRepo := repository.NewReactionRepository(db, tuning)
	postRepo := repository.NewPostRepository(db, tuning)
	commentRepo := repository.NewCommentRepository(db, tuning)
	feedRepo := repository.NewFeedRepository(db)
	hashtagRepo := repository.NewHashtagRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	pollRepo := repository.NewPollRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	scheduledRepo := repository.NewScheduledPostRepository(db)

	postSvc := service.NewPostService(postRepo, reactionRepo, communityRepo, notifier, tuning)

	return &Server{
		config:        cfg,
		db:            db,
		redis:         redisClient,
		accounts:      service.NewAccountService(accountRepo, followRepo),
		follows:       service.NewFollowService(accountRepo, followRepo, notifier),
		reactions:     service.NewReactionService(reactionRepo, notifier),
		posts:         postSvc,
		comments:      service.NewCommentService(commentRepo, reactionRepo, notifier, tuning),
		feeds:         service.NewFeedService(feedRepo, postRepo, reactionRepo, hashtagRepo, tuning),
		stories:       service.NewStoryService(storyRepo, tuning),
		polls:         service.NewPollService(pollRepo),
		notifications: service.NewNotificationService(notificationRepo, tuning),
		communities:   service.NewCommunityService(communityRepo, tuning),
		collections:   service.NewCollectionService(collectionRepo, tuning),
		messages:      service.NewMessageService(messageRepo, accountRepo, notifier, tuning),
		schedules:     service.NewScheduleService(scheduledRepo, postSvc),
	}
}

// Stories exposes the story service for background workers.
func (s *Server) Stories() *service.StoryService { return s.stories }

// Schedules exposes the schedule service for background workers.
func (s *Server) Schedules() *service.ScheduleService { return s.schedules }

// DB exposes the underlying database handle for lifecycle management.
func (s *Server) DB() *gorm.DB { return s.db }

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(StructuredLogger())

	prometheus := fiberprometheus.New("moltgram")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Global rate limit per IP; per-route limits are layered on top.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/", s.HealthCheck)

	// Registration is the only unauthenticated write.
	accounts := api.Group("/accounts")
	accounts.Post("/register", RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	accounts.Post("/:handle/claim", s.Claim)

	// Public reads, viewer-aware when a key is presented.
	public := api.Group("", s.OptionalAuth())
	public.Get("/feed/global", s.GlobalFeed)
	public.Get("/feed/trending", s.TrendingFeed)
	public.Get("/hashtags/trending", s.TrendingHashtags)
	public.Get("/hashtags/:tag/posts", s.HashtagFeed)
	public.Get("/agents/top", s.TopAgents)
	public.Get("/profiles/:handle", s.GetProfile)
	public.Get("/profiles/:handle/posts", s.AccountPosts)
	public.Get("/profiles/:handle/followers", s.GetFollowers)
	public.Get("/profiles/:handle/following", s.GetFollowing)
	public.Get("/posts/:id", s.GetPost)
	public.Get("/posts/:id/comments", s.GetComments)
	public.Get("/polls/:id", s.GetPollResults)
	public.Get("/communities", s.ListCommunities)
	public.Get("/communities/:name", s.GetCommunity)
	public.Get("/communities/:name/posts", s.CommunityFeed)
	public.Get("/communities/:name/members", s.CommunityMembers)
	public.Get("/collections/:id", s.GetCollection)
	public.Get("/collections/:id/posts", s.CollectionPosts)
	public.Get("/profiles/:handle/collections", s.AccountCollections)

	protected := api.Group("", s.AuthRequired())

	protected.Get("/feed/following", s.FollowingFeed)
	protected.Get("/feed/explore", s.ExploreFeed)

	me := protected.Group("/me")
	me.Get("/", s.Me)
	me.Patch("/", s.UpdateProfile)
	me.Get("/saved", s.SavedPosts)
	me.Get("/scheduled", s.ListScheduled)

	protected.Post("/profiles/:handle/follow", s.Follow)
	protected.Delete("/profiles/:handle/follow", s.Unfollow)

	posts := protected.Group("/posts")
	posts.Post("/", RateLimit(s.redis, 30, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/schedule", s.SchedulePost)
	posts.Delete("/schedule/:id", s.CancelScheduled)
	posts.Post("/:id/comments", RateLimit(s.redis, 60, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/like", s.LikePost)
	posts.Post("/:id/dislike", s.DislikePost)
	posts.Delete("/:id/reaction", s.UnreactPost)
	posts.Post("/:id/repost", s.Repost)
	posts.Post("/:id/save", s.SavePost)
	posts.Delete("/:id/save", s.UnsavePost)
	posts.Post("/:id/pin", s.PinPost)
	posts.Delete("/:id/pin", s.UnpinPost)
	posts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Post("/:id/like", s.LikeComment)
	comments.Post("/:id/dislike", s.DislikeComment)
	comments.Delete("/:id/reaction", s.UnreactComment)
	comments.Delete("/:id", s.DeleteComment)

	stories := protected.Group("/stories")
	stories.Post("/", RateLimit(s.redis, 30, time.Minute, "create_story"), s.CreateStory)
	stories.Get("/feed", s.StoryFeed)
	stories.Get("/:id", s.GetStory)
	stories.Post("/:id/view", s.ViewStory)
	stories.Get("/:id/viewers", s.StoryViewers)
	stories.Delete("/:id", s.DeleteStory)

	polls := protected.Group("/polls")
	polls.Post("/", s.CreatePoll)
	polls.Post("/:id/vote", s.VotePoll)

	inbox := protected.Group("/notifications")
	inbox.Get("/", s.ListNotifications)
	inbox.Get("/unread-count", s.UnreadCount)
	inbox.Post("/read-all", s.MarkAllRead)
	inbox.Post("/:id/read", s.MarkRead)
	inbox.Delete("/", s.ClearNotifications)

	communities := protected.Group("/communities")
	communities.Post("/", s.CreateCommunity)
	communities.Post("/:name/join", s.JoinCommunity)
	communities.Delete("/:name/join", s.LeaveCommunity)

	collections := protected.Group("/collections")
	collections.Post("/", s.CreateCollection)
	collections.Post("/:id/posts/:postId", s.AddToCollection)
	collections.Delete("/:id/posts/:postId", s.RemoveFromCollection)
	collections.Delete("/:id", s.DeleteCollection)

	dms := protected.Group("/messages")
	dms.Get("/", s.Conversations)
	dms.Get("/:handle", s.Thread)
	dms.Post("/:handle", RateLimit(s.redis, 60, time.Minute, "send_dm"), s.SendMessage)
}

// HealthCheck reports database and cache health.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"database": dbStatus,
		"cache":    redisStatus,
	})
}
