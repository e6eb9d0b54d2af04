package service

import (
	"context"
	"encoding/json"
	"time"

	"content-engine-be/internal/dto"
	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/repository/specification"
	"content-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ISourceService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSourceRequest) (*dto.SourceResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateSourceRequest) (*dto.SourceResponse, error)
}

type sourceService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSourceService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, log logger.ILogger) ISourceService {
	return &sourceService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *sourceService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSourceRequest) (*dto.SourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.ensureBucket(ctx, uow, userId, req.BucketId); err != nil {
		return nil, err
	}

	source := entity.Source{
		Id:         uuid.New(),
		UserId:     userId,
		BucketId:   req.BucketId,
		Content:    req.Content,
		SourceType: entity.SourceType(req.SourceType),
		SourceUrl:  req.SourceUrl,
		Metadata:   req.Metadata,
		CreatedAt:  time.Now(),
	}

	if err := uow.SourceRepository().Create(ctx, &source); err != nil {
		return nil, err
	}

	s.enqueueEmbedding(ctx, source.Id)
	return toSourceResponse(&source, true), nil
}

func (s *sourceService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateSourceRequest) (*dto.SourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.SourceRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrSourceNotFound
	}

	if err := s.ensureBucket(ctx, uow, userId, req.BucketId); err != nil {
		return nil, err
	}

	contentChanged := source.Content != req.Content
	source.Content = req.Content
	source.BucketId = req.BucketId
	source.SourceUrl = req.SourceUrl
	if req.SourceType != "" {
		source.SourceType = entity.SourceType(req.SourceType)
	}
	if req.Metadata != nil {
		source.Metadata = req.Metadata
	}
	if contentChanged {
		// A stale vector would rank the new content by the old text.
		source.Embedding = nil
	}

	if err := uow.SourceRepository().Update(ctx, source); err != nil {
		return nil, err
	}

	if contentChanged {
		s.enqueueEmbedding(ctx, source.Id)
	}
	return toSourceResponse(source, source.Embedding == nil), nil
}

func (s *sourceService) ensureBucket(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, bucketId *uuid.UUID) error {
	if bucketId == nil {
		return nil
	}
	bucket, err := uow.BucketRepository().FindOne(ctx,
		specification.ByID{ID: *bucketId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if bucket == nil {
		return ErrBucketNotFound
	}
	return nil
}

// enqueueEmbedding never fails the write; backfill picks up anything missed.
func (s *sourceService) enqueueEmbedding(ctx context.Context, sourceId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedSourceMessage{SourceId: sourceId})
	if err == nil {
		err = s.publisherService.SendMessage(ctx, payload)
	}
	if err != nil {
		s.logger.Warn("SourceService", "Failed to enqueue embedding", map[string]interface{}{
			"source_id": sourceId,
			"error":     err.Error(),
		})
	}
}

func toSourceResponse(source *entity.Source, pending bool) *dto.SourceResponse {
	return &dto.SourceResponse{
		Id:               source.Id,
		Content:          source.Content,
		SourceType:       string(source.SourceType),
		SourceUrl:        source.SourceUrl,
		BucketId:         source.BucketId,
		Metadata:         source.Metadata,
		EmbeddingPending: pending,
		CreatedAt:        source.CreatedAt,
		UpdatedAt:        source.UpdatedAt,
	}
}
