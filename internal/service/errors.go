package service

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrPlatformRequired     = errors.New("platform is required for draft mode")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrSourceNotFound       = errors.New("source not found")
	ErrBucketNotFound       = errors.New("bucket not found")
)
