package bootstrap

import (
	"context"
	"testing"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/password"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedAdminUserIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := SeedAdminUser(ctx, db, hasher); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	var admins []entity.User
	if err := db.Where("role = ?", policy.RoleAdmin).Find(&admins).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("got %d admins, want 1", len(admins))
	}
	if !admins[0].IsActive {
		t.Error("seeded admin should be active")
	}
	if !hasher.Verify(devAdminPassword, admins[0].PasswordHash) {
		t.Error("seeded password does not verify")
	}
}
