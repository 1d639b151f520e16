package service

import (
	"context"
	"strings"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/notifications"
	"moltgram/internal/repository"
)

// MessageService manages direct messages between accounts.
type MessageService struct {
	messages repository.MessageRepository
	accounts repository.AccountRepository
	notifier *notifications.Notifier
	tuning   config.Tuning
}

// NewMessageService creates a new message service.
func NewMessageService(messages repository.MessageRepository, accounts repository.AccountRepository, notifier *notifications.Notifier, tuning config.Tuning) *MessageService {
	return &MessageService{messages: messages, accounts: accounts, notifier: notifier, tuning: tuning}
}

// Send delivers a direct message to the account behind handle.
func (s *MessageService) Send(ctx context.Context, senderID uint, handle, body string) (*models.DirectMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewInvalidArgumentError("message body cannot be empty")
	}
	receiver, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if receiver.ID == senderID {
		return nil, models.NewInvalidArgumentError("cannot message yourself")
	}

	msg := &models.DirectMessage{SenderID: senderID, ReceiverID: receiver.ID, Body: body}
	ns, err := s.messages.Send(ctx, msg)
	recordMutation(ctx, "send_dm", err, map[string]any{
		"sender_id":   senderID,
		"receiver_id": receiver.ID,
	})
	if err != nil {
		return nil, err
	}
	publishAll(ctx, s.notifier, ns)
	return msg, nil
}

// Thread returns the caller's conversation with one counterpart, newest first,
// and marks the counterpart's messages as read.
func (s *MessageService) Thread(ctx context.Context, callerID uint, handle string, limit, offset int) ([]*models.DirectMessage, error) {
	counterpart, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.Thread(ctx, callerID, counterpart.ID, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.MarkThreadRead(ctx, callerID, counterpart.ID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Conversations summarizes the caller's message threads.
func (s *MessageService) Conversations(ctx context.Context, callerID uint) ([]*repository.Conversation, error) {
	return s.messages.Conversations(ctx, callerID)
}
