package event

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"anoa.com/jornalufc/internal/bootstrap"
	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/event/dto"
	"anoa.com/jornalufc/internal/modules/event/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	commonDto "anoa.com/jornalufc/pkg/dto"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	locator := "/static/images/" + folder + "/" + fileName
	f.uploaded = append(f.uploaded, locator)
	return locator, nil
}

func (f *fakeStorage) DeleteImage(_ context.Context, locator string) error {
	f.deleted = append(f.deleted, locator)
	return nil
}

var (
	professor = &entity.User{ID: 1, Role: policy.RoleProfessor, IsActive: true}
	reader    = &entity.User{ID: 2, Role: policy.RoleReader, IsActive: true}
	base      = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
)

func setup(t *testing.T) (*eventService, *fakeStorage) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := &fakeStorage{}
	svc := NewEventService(repository.NewEventRepository(db), store, zerolog.Nop()).(*eventService)
	svc.now = func() time.Time { return base }
	return svc, store
}

func TestCreateAndListEvents(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	past := base.Add(-48 * time.Hour)
	pastEnd := past.Add(2 * time.Hour)
	inputs := []dto.CreateEventInput{
		{Title: "Semana de Pesquisa", StartsAt: base.Add(72 * time.Hour)},
		{Title: "Palestra antiga", StartsAt: past, EndsAt: &pastEnd},
		{
			Title:    "Feira <b>Cultural</b>",
			StartsAt: base.Add(24 * time.Hour),
			Image:    &commonDto.UploadFile{Reader: strings.NewReader("img"), FileName: "feira.jpg"},
		},
	}
	for _, in := range inputs {
		if _, err := svc.CreateEvent(ctx, professor, in); err != nil {
			t.Fatalf("CreateEvent(%s): %v", in.Title, err)
		}
	}

	all, err := svc.ListEvents(ctx, false)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Palestra antiga" || all[1].Title != "Feira Cultural" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[1].Image != "/static/images/events/feira.jpg" || len(store.uploaded) != 1 {
		t.Fatalf("image not stored: %q", all[1].Image)
	}

	upcoming, err := svc.ListEvents(ctx, true)
	if err != nil {
		t.Fatalf("ListEvents upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].Title != "Feira Cultural" {
		t.Fatalf("unexpected upcoming list: %+v", upcoming)
	}
}

func TestEventValidationAndPermissions(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	before := base.Add(-time.Hour)
	cases := []struct {
		name  string
		actor *entity.User
		in    dto.CreateEventInput
		want  error
	}{
		{"reader", reader, dto.CreateEventInput{Title: "X", StartsAt: base}, apperror.ErrForbidden},
		{"no title", professor, dto.CreateEventInput{Title: " ", StartsAt: base}, apperror.ErrInvalidInput},
		{"no start", professor, dto.CreateEventInput{Title: "X"}, apperror.ErrInvalidInput},
		{"ends before start", professor, dto.CreateEventInput{Title: "X", StartsAt: base, EndsAt: &before}, apperror.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateEvent(ctx, tc.actor, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDeleteEvent(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, professor, dto.CreateEventInput{
		Title:    "Colação",
		StartsAt: base,
		Image:    &commonDto.UploadFile{Reader: strings.NewReader("img"), FileName: "colacao.png"},
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if err := svc.DeleteEvent(ctx, reader, created.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("reader delete: got %v, want ErrForbidden", err)
	}
	if err := svc.DeleteEvent(ctx, professor, created.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != created.Image {
		t.Fatalf("image not removed: %v", store.deleted)
	}
	if err := svc.DeleteEvent(ctx, professor, created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}
