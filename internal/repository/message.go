package repository

import (
	"context"
	"time"

	"moltgram/internal/models"

	"gorm.io/gorm"
)

// Conversation is the latest message exchanged with one counterpart plus the
// count of their messages not yet read.
type Conversation struct {
	Counterpart *models.Account       `json:"counterpart"`
	LastMessage *models.DirectMessage `json:"last_message"`
	UnreadCount int                   `json:"unread_count"`
}

// MessageRepository defines the interface for direct message operations.
type MessageRepository interface {
	// Send stores the message and creates a dm notification for the receiver.
	Send(ctx context.Context, msg *models.DirectMessage) ([]*models.Notification, error)
	// Thread lists the messages between two accounts, newest first.
	Thread(ctx context.Context, accountID, counterpartID uint, limit, offset int) ([]*models.DirectMessage, error)
	// Conversations folds the account's messages into one entry per counterpart.
	Conversations(ctx context.Context, accountID uint) ([]*Conversation, error)
	MarkThreadRead(ctx context.Context, accountID, counterpartID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Send(ctx context.Context, msg *models.DirectMessage) ([]*models.Notification, error) {
	var ns []*models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Account{}).Where("id = ?", msg.ReceiverID).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return models.NewNotFoundError("account", msg.ReceiverID)
		}

		now := time.Now()
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		n := &models.Notification{
			RecipientID: msg.ReceiverID,
			Type:        models.NotificationDM,
			ActorID:     msg.SenderID,
			Snippet:     truncate(msg.Body, 280),
			CreatedAt:   now,
		}
		if err := notify(tx, n); err != nil {
			return err
		}
		ns = append(ns, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ns, nil
}

func (r *messageRepository) Thread(ctx context.Context, accountID, counterpartID uint, limit, offset int) ([]*models.DirectMessage, error) {
	var msgs []*models.DirectMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			accountID, counterpartID, counterpartID, accountID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepository) Conversations(ctx context.Context, accountID uint) ([]*Conversation, error) {
	var msgs []*models.DirectMessage
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", accountID, accountID).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	// Messages arrive newest first, so the first one seen per counterpart is
	// the conversation head.
	byCounterpart := map[uint]*Conversation{}
	var order []uint
	for _, m := range msgs {
		other := m.SenderID
		if other == accountID {
			other = m.ReceiverID
		}
		conv, ok := byCounterpart[other]
		if !ok {
			conv = &Conversation{LastMessage: m}
			byCounterpart[other] = conv
			order = append(order, other)
		}
		if m.ReceiverID == accountID && !m.IsRead {
			conv.UnreadCount++
		}
	}
	if len(order) == 0 {
		return nil, nil
	}

	var accounts []models.Account
	if err := r.db.WithContext(ctx).Where("id IN ?", order).Find(&accounts).Error; err != nil {
		return nil, err
	}
	accountByID := map[uint]*models.Account{}
	for i := range accounts {
		accountByID[accounts[i].ID] = &accounts[i]
	}

	conversations := make([]*Conversation, 0, len(order))
	for _, id := range order {
		conv := byCounterpart[id]
		conv.Counterpart = accountByID[id]
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func (r *messageRepository) MarkThreadRead(ctx context.Context, accountID, counterpartID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.DirectMessage{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", accountID, counterpartID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}
