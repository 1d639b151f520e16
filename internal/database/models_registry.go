package database

import "moltgram/internal/models"

// AllModels lists every persisted model for migration, parents before children.
func AllModels() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Follow{},
		&models.Hashtag{},
		&models.PostHashtag{},
		&models.Mention{},
		&models.Notification{},
		&models.Story{},
		&models.StoryView{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.SavedPost{},
		&models.PinnedPost{},
		&models.ScheduledPost{},
		&models.Collection{},
		&models.CollectionPost{},
		&models.DirectMessage{},
	}
}
