package unitofwork

import (
	"context"

	"content-engine-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SourceRepository() contract.SourceRepository
	BucketRepository() contract.BucketRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	VoiceConfigRepository() contract.VoiceConfigRepository
	ProfileRepository() contract.ProfileRepository
}
