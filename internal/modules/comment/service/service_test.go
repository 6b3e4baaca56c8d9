package comment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"anoa.com/jornalufc/internal/bootstrap"
	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/comment/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, CommentService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, NewCommentService(repository.NewCommentRepository(db))
}

func seed(t *testing.T, db *gorm.DB) (reader, other, professor *entity.User, article *entity.Article) {
	t.Helper()
	mk := func(email string, role policy.Role) *entity.User {
		u := &entity.User{Name: strings.Split(email, "@")[0], Email: email, PasswordHash: "x", Role: role, IsActive: true}
		if err := db.Create(u).Error; err != nil {
			t.Fatal(err)
		}
		return u
	}
	reader = mk("leitor@gmail.com", policy.RoleReader)
	other = mk("outro@gmail.com", policy.RoleReader)
	professor = mk("prof@ufc.br", policy.RoleProfessor)

	article = &entity.Article{Slug: "noticia", Title: "Notícia", Content: "c", AuthorID: professor.ID, Published: true}
	if err := db.Create(article).Error; err != nil {
		t.Fatal(err)
	}
	return reader, other, professor, article
}

func TestAddAndListComments(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	reader, other, _, article := seed(t, db)

	first, err := svc.AddComment(ctx, reader, article.ID, `Ótima <b>notícia</b><script>x()</script>`)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if first.AuthorName != "leitor" || strings.Contains(first.Content, "script") {
		t.Fatalf("unexpected comment %+v", first)
	}
	if _, err := svc.AddComment(ctx, other, article.ID, "Concordo"); err != nil {
		t.Fatalf("second AddComment: %v", err)
	}

	if err := db.Create(&entity.CommentLike{UserID: other.ID, CommentID: first.ID}).Error; err != nil {
		t.Fatal(err)
	}

	list, err := svc.ListComments(ctx, article.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].Content != "Concordo" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[0].LikeCount != 1 || list[1].LikeCount != 0 {
		t.Fatalf("like counts = %d, %d", list[0].LikeCount, list[1].LikeCount)
	}
}

func TestAddCommentValidation(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	reader, _, _, article := seed(t, db)

	if _, err := svc.AddComment(ctx, reader, 999, "oi"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing article: got %v, want ErrNotFound", err)
	}
	if _, err := svc.AddComment(ctx, reader, article.ID, "<script>x()</script>"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("empty after sanitizing: got %v, want ErrInvalidInput", err)
	}

	if err := db.Delete(article).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListComments(ctx, article.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("deleted article: got %v, want ErrNotFound", err)
	}
}

func TestDeleteCommentPermissions(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	reader, other, professor, article := seed(t, db)

	mine, err := svc.AddComment(ctx, reader, article.ID, "meu comentário")
	if err != nil {
		t.Fatal(err)
	}
	theirs, err := svc.AddComment(ctx, other, article.ID, "outro comentário")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&entity.CommentLike{UserID: reader.ID, CommentID: theirs.ID}).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteComment(ctx, reader, theirs.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("deleting another reader's comment: got %v, want ErrForbidden", err)
	}
	if err := svc.DeleteComment(ctx, reader, mine.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := svc.DeleteComment(ctx, professor, theirs.ID); err != nil {
		t.Fatalf("professor delete: %v", err)
	}
	if err := svc.DeleteComment(ctx, professor, theirs.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}

	var likes int64
	db.Model(&entity.CommentLike{}).Count(&likes)
	if likes != 0 {
		t.Fatalf("comment likes left behind: %d", likes)
	}
}
