package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"financeflow/internal/core"
	"financeflow/internal/storage"
)

func newCategoryService(t *testing.T) *CategoryService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewCategoryService(repo)
}

func TestCategoryServiceNormalizesInput(t *testing.T) {
	svc := newCategoryService(t)

	created, err := svc.Create(context.Background(), core.Category{
		Name:  "  Side Projects  ",
		Color: "#3366aa",
		Icon:  "build",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Name != "Side Projects" {
		t.Errorf("Name = %q, want trimmed", created.Name)
	}
	if created.Color != "3366AA" {
		t.Errorf("Color = %q, want upper-cased without #", created.Color)
	}
}

func TestCategoryServiceRejectsInvalid(t *testing.T) {
	svc := newCategoryService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		category core.Category
		wantErr  error
	}{
		{"empty name", core.Category{Name: "", Color: "336699", Icon: "x"}, core.ErrInvalidName},
		{"bad color", core.Category{Name: "A", Color: "33669", Icon: "x"}, core.ErrInvalidColor},
		{"too light", core.Category{Name: "A", Color: "FFFFFF", Icon: "x"}, core.ErrColorTooLight},
		{"no icon", core.Category{Name: "A", Color: "336699", Icon: ""}, core.ErrInvalidIcon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.category); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryServiceDefaultLifecycle(t *testing.T) {
	svc := newCategoryService(t)
	ctx := context.Background()

	defaults, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(defaults) == 0 {
		t.Fatal("no seeded defaults")
	}

	if err := svc.Delete(ctx, defaults[0].ID, false); !errors.Is(err, storage.ErrDefaultCategory) {
		t.Errorf("Delete(default) error = %v, want ErrDefaultCategory", err)
	}
	if err := svc.SetHidden(ctx, defaults[0].ID, true); err != nil {
		t.Errorf("SetHidden(default) error = %v", err)
	}
}
