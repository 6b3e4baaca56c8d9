package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/event/dto"
	"anoa.com/jornalufc/internal/modules/event/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/sanitize"
	"anoa.com/jornalufc/pkg/storage"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const imageFolder = "events"

type EventService interface {
	CreateEvent(ctx context.Context, actor *entity.User, in dto.CreateEventInput) (*entity.Event, error)
	ListEvents(ctx context.Context, upcomingOnly bool) ([]*entity.Event, error)
	DeleteEvent(ctx context.Context, actor *entity.User, id uint) error
}

type eventService struct {
	repo    repository.EventRepository
	storage storage.ImageStorage
	logger  zerolog.Logger
	now     func() time.Time
}

func NewEventService(repo repository.EventRepository, storage storage.ImageStorage, logger zerolog.Logger) EventService {
	return &eventService{repo: repo, storage: storage, logger: logger, now: time.Now}
}

func (s *eventService) CreateEvent(ctx context.Context, actor *entity.User, in dto.CreateEventInput) (*entity.Event, error) {
	if !policy.CanPerform(actor.Actor(), policy.ActionManageEvent, policy.Target{}) {
		return nil, fmt.Errorf("only professors and admins manage events: %w", apperror.ErrForbidden)
	}

	title := sanitize.Text(in.Title)
	if title == "" {
		return nil, fmt.Errorf("event title is required: %w", apperror.ErrInvalidInput)
	}
	if in.StartsAt.IsZero() {
		return nil, fmt.Errorf("event start date is required: %w", apperror.ErrInvalidInput)
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return nil, fmt.Errorf("event cannot end before it starts: %w", apperror.ErrInvalidInput)
	}

	event := &entity.Event{
		Title:       title,
		Description: sanitize.HTML(in.Description),
		Location:    sanitize.Text(in.Location),
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedByID: actor.ID,
	}

	if in.Image != nil && in.Image.FileName != "" {
		locator, err := s.storage.UploadImage(ctx, in.Image.Reader, imageFolder, in.Image.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to store event image: %w", err)
		}
		event.Image = locator
	}

	if err := s.repo.Create(ctx, event); err != nil {
		if event.Image != "" {
			if delErr := s.storage.DeleteImage(ctx, event.Image); delErr != nil {
				s.logger.Warn().Err(delErr).Str("locator", event.Image).Msg("failed to remove orphaned event image")
			}
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, upcomingOnly bool) ([]*entity.Event, error) {
	if upcomingOnly {
		now := s.now()
		return s.repo.FindAll(ctx, &now)
	}
	return s.repo.FindAll(ctx, nil)
}

func (s *eventService) DeleteEvent(ctx context.Context, actor *entity.User, id uint) error {
	if !policy.CanPerform(actor.Actor(), policy.ActionManageEvent, policy.Target{}) {
		return fmt.Errorf("only professors and admins manage events: %w", apperror.ErrForbidden)
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("event not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if err := s.repo.Delete(ctx, event.ID); err != nil {
		return err
	}

	if strings.TrimSpace(event.Image) != "" {
		if err := s.storage.DeleteImage(ctx, event.Image); err != nil {
			s.logger.Warn().Err(err).Str("locator", event.Image).Msg("failed to delete event image")
		}
	}
	return nil
}
