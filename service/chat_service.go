package service

import (
	"context"
	"fmt"
	"strings"

	"arenabot/models"
)

type chatService struct {
	uowFactory UnitOfWorkFactory
}

// NewChatService creates a new chat service
func NewChatService(uowFactory UnitOfWorkFactory) ChatService {
	return &chatService{
		uowFactory: uowFactory,
	}
}

// Send stores a message in the pair's conversation. A block in either
// direction rejects the message.
func (s *chatService) Send(ctx context.Context, senderUID, recipientUID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if senderUID == recipientUID {
		return nil, fmt.Errorf("cannot message yourself")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()

	sender, err := users.GetByUID(ctx, senderUID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrUserNotFound
	}
	recipient, err := users.GetByUID(ctx, recipientUID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	if sender.HasBlocked(recipientUID) || recipient.HasBlocked(senderUID) {
		return nil, ErrBlocked
	}

	msg := &models.ChatMessage{
		PairID:   models.ChatPairID(senderUID, recipientUID),
		SenderID: senderUID,
		Text:     text,
	}
	if err := uow.ChatRepository().Append(ctx, msg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return msg, nil
}

// List returns the conversation between the viewer and another user,
// oldest first, minus the messages the viewer deleted for themselves.
func (s *chatService) List(ctx context.Context, viewerUID, otherUID string) ([]*models.ChatMessage, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pairID := models.ChatPairID(viewerUID, otherUID)
	return uow.ChatRepository().ListVisible(ctx, pairID, viewerUID)
}

// DeleteForMe hides a message from the viewer only
func (s *chatService) DeleteForMe(ctx context.Context, viewerUID, otherUID string, msgID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pairID := models.ChatPairID(viewerUID, otherUID)
	if err := uow.ChatRepository().MarkDeletedFor(ctx, pairID, msgID, viewerUID); err != nil {
		return err
	}
	return uow.Commit()
}

// Block adds the target to the caller's block list
func (s *chatService) Block(ctx context.Context, uid, targetUID string) error {
	if uid == targetUID {
		return fmt.Errorf("cannot block yourself")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	target, err := uow.UserRepository().GetByUID(ctx, targetUID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	if err := uow.UserRepository().Block(ctx, uid, targetUID); err != nil {
		return err
	}
	return uow.Commit()
}

// Unblock removes the target from the caller's block list
func (s *chatService) Unblock(ctx context.Context, uid, targetUID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Unblock(ctx, uid, targetUID); err != nil {
		return err
	}
	return uow.Commit()
}

// Report files a complaint against another user
func (s *chatService) Report(ctx context.Context, reporterUID, reportedUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("reason is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()

	reporter, err := users.GetByUID(ctx, reporterUID)
	if err != nil {
		return err
	}
	if reporter == nil {
		return ErrUserNotFound
	}
	reported, err := users.GetByUID(ctx, reportedUID)
	if err != nil {
		return err
	}
	if reported == nil {
		return ErrUserNotFound
	}

	report := &models.Report{
		ReporterID:       reporterUID,
		ReporterName:     reporter.Username,
		ReportedUserID:   reportedUID,
		ReportedUserName: reported.Username,
		Reason:           reason,
		Status:           models.ReportPending,
	}
	if err := uow.ReportRepository().Create(ctx, report); err != nil {
		return err
	}
	return uow.Commit()
}
