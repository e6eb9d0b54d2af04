package entity

import (
	"time"

	"github.com/google/uuid"
)

type Bucket struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Name        string
	Description *string
	Color       string
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
