package repository

import (
	"context"
	"time"

	"anoa.com/jornalufc/internal/entity"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uint) (*entity.Event, error)
	// FindAll orders by start date; a non-nil since hides events that ended before it.
	FindAll(ctx context.Context, since *time.Time) ([]*entity.Event, error)
	Delete(ctx context.Context, id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, since *time.Time) ([]*entity.Event, error) {
	var events []*entity.Event
	query := r.db.WithContext(ctx)
	if since != nil {
		query = query.Where("COALESCE(ends_at, starts_at) >= ?", *since)
	}
	err := query.Order("starts_at ASC").Order("id ASC").Find(&events).Error
	return events, err
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Event{}, id).Error
}
