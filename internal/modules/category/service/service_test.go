package category

import (
	"context"
	"errors"
	"testing"

	"anoa.com/jornalufc/internal/bootstrap"
	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/modules/category/repository"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, CategoryService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, NewCategoryService(repository.NewCategoryRepository(db))
}

var (
	professor = &entity.User{ID: 1, Role: policy.RoleProfessor, IsActive: true}
	student   = &entity.User{ID: 2, Role: policy.RoleScholarship, IsActive: true}
)

func TestCreateCategoryReturnsExistingOnSameSlug(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, professor, "Ciência & Tecnologia")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if first.Slug != "ciencia-tecnologia" {
		t.Fatalf("slug = %q", first.Slug)
	}

	second, err := svc.CreateCategory(ctx, professor, "ciencia tecnologia")
	if err != nil {
		t.Fatalf("second CreateCategory: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing category %d, got %d", first.ID, second.ID)
	}
}

func TestCategoryPermissions(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, student, "Esportes"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("student create: got %v, want ErrForbidden", err)
	}
	if err := svc.DeleteCategory(ctx, student, 1); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("student delete: got %v, want ErrForbidden", err)
	}
	if _, err := svc.CreateCategory(ctx, professor, "!!!"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("symbol-only name: got %v, want ErrInvalidInput", err)
	}
}

func TestListAndDeleteCategories(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()

	for _, name := range []string{"Extensão", "Cultura", "Pesquisa"} {
		if _, err := svc.CreateCategory(ctx, professor, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Cultura" || list[2].Name != "Pesquisa" {
		t.Fatalf("unexpected order: %v, %v, %v", list[0].Name, list[1].Name, list[2].Name)
	}

	author := entity.User{Name: "Prof", Email: "prof@ufc.br", PasswordHash: "x", Role: policy.RoleProfessor, IsActive: true}
	if err := db.Create(&author).Error; err != nil {
		t.Fatal(err)
	}
	article := entity.Article{Slug: "a", Title: "A", Content: "c", AuthorID: author.ID, CategoryID: &list[0].ID, Published: true}
	if err := db.Create(&article).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteCategory(ctx, professor, list[0].ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := svc.DeleteCategory(ctx, professor, list[0].ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}

	var reloaded entity.Article
	if err := db.First(&reloaded, article.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.CategoryID != nil {
		t.Fatalf("article still points at deleted category %d", *reloaded.CategoryID)
	}
}
