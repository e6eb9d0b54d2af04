package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"content-engine-be/internal/bootstrap"
	"content-engine-be/internal/entity"
	"content-engine-be/internal/model"
	"content-engine-be/internal/repository/specification"
	"content-engine-be/internal/repository/unitofwork"
	"content-engine-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	require.NoError(t, err)
	require.NoError(t, bootstrap.MigrateSchema(db))
	return db
}

// unitVector points along one axis, so cosine similarity between two of them is 0 or 1.
func unitVector(axis int) []float32 {
	v := make([]float32, 1536)
	v[axis] = 1
	return v
}

func TestSourceRetrievalLanes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	userId := uuid.New()
	bucket := model.Bucket{Id: uuid.New(), UserId: userId, Name: "Launch notes"}
	require.NoError(t, db.Create(&bucket).Error)

	inBucket := &entity.Source{Id: uuid.New(), UserId: userId, BucketId: &bucket.Id, Content: "Bucketed idea", SourceType: entity.SourceTypeNote}
	loose := &entity.Source{Id: uuid.New(), UserId: userId, Content: "Loose idea", SourceType: entity.SourceTypeLink}
	foreign := &entity.Source{Id: uuid.New(), UserId: uuid.New(), Content: "Someone else", SourceType: entity.SourceTypeNote}
	for _, s := range []*entity.Source{inBucket, loose, foreign} {
		require.NoError(t, uow.SourceRepository().Create(ctx, s))
	}
	require.NoError(t, uow.SourceRepository().UpdateEmbedding(ctx, loose.Id, unitVector(0)))
	require.NoError(t, uow.SourceRepository().UpdateEmbedding(ctx, foreign.Id, unitVector(0)))

	t.Run("bucket lane", func(t *testing.T) {
		got, err := uow.SourceRepository().FetchByBucket(ctx, userId, bucket.Id)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, inBucket.Id, got[0].Id)
	})

	t.Run("pinned lane is owner scoped", func(t *testing.T) {
		got, err := uow.SourceRepository().FetchByIds(ctx, userId, []uuid.UUID{loose.Id, foreign.Id})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, loose.Id, got[0].Id)
	})

	t.Run("semantic lane", func(t *testing.T) {
		hits, err := uow.SourceRepository().SearchSimilar(ctx, userId, unitVector(0), 0.5, 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, loose.Id, hits[0].Source.Id)
		assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)

		none, err := uow.SourceRepository().SearchSimilar(ctx, userId, unitVector(1), 0.5, 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("bucket names", func(t *testing.T) {
		names, err := uow.BucketRepository().ResolveNames(ctx, userId, []uuid.UUID{bucket.Id, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]string{bucket.Id: "Launch notes"}, names)
	})
}

func TestConversationTranscript(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	conversation := &entity.Conversation{Id: uuid.New(), UserId: uuid.New(), Mode: entity.ConversationModeExplore, IncludeAllBuckets: true}
	require.NoError(t, uow.ConversationRepository().Create(ctx, conversation))

	base := time.Now().Add(-time.Minute)
	for i, role := range []entity.MessageRole{entity.MessageRoleUser, entity.MessageRoleAssistant, entity.MessageRoleUser} {
		require.NoError(t, uow.MessageRepository().Create(ctx, &entity.Message{
			Id:             uuid.New(),
			ConversationId: conversation.Id,
			Role:           role,
			Content:        string(role),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}))
	}

	messages, err := uow.MessageRepository().FindByConversation(ctx, conversation.Id)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, entity.MessageRoleUser, messages[2].Role)

	require.NoError(t, uow.ConversationRepository().UpdateTitle(ctx, conversation.Id, "Launch plan"))
	platform := entity.PlatformLinkedIn
	require.NoError(t, uow.ConversationRepository().UpdateTurnMetadata(ctx, conversation.Id, entity.ConversationModeDraft, &platform, time.Now()))

	got, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversation.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Launch plan", *got.Title)
	assert.Equal(t, entity.ConversationModeDraft, got.Mode)
	assert.Equal(t, entity.PlatformLinkedIn, *got.Platform)
}

func TestProfileUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	profile := &entity.Profile{Id: uuid.New(), DisplayName: "Dana", PersonalVoice: []string{"Dry."}, CreatedAt: time.Now()}
	require.NoError(t, uow.ProfileRepository().Upsert(ctx, profile))

	profile.DisplayName = "Dana K."
	profile.PersonalVoice = []string{"Dry.", "Short."}
	require.NoError(t, uow.ProfileRepository().Upsert(ctx, profile))

	got, err := uow.ProfileRepository().FindById(ctx, profile.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dana K.", got.DisplayName)
	assert.Equal(t, []string{"Dry.", "Short."}, got.PersonalVoice)
}
