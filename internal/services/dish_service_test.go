package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories/memory"
)

func TestDishService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewDishService(memory.NewStore().Dishes)

	dish, err := svc.Create(ctx, &models.Dish{Name: "Salada Caesar", Price: dec("15.90"), Available: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, dish.ID, &models.Dish{Name: "Salada Caesar Grande", Price: dec("19.90"), Category: "appetizer"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Salada Caesar Grande" || updated.Available || !updated.CreatedAt.Equal(dish.CreatedAt) {
		t.Errorf("unexpected update result: %+v", updated)
	}

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"create without name", func() error { _, err := svc.Create(ctx, &models.Dish{Price: dec("1")}); return err }, models.ErrInvalidArgument},
		{"create negative price", func() error { _, err := svc.Create(ctx, &models.Dish{Name: "x", Price: dec("-1")}); return err }, models.ErrInvalidArgument},
		{"create long name", func() error {
			_, err := svc.Create(ctx, &models.Dish{Name: strings.Repeat("a", 256), Price: dec("1")})
			return err
		}, models.ErrInvalidArgument},
		{"update missing", func() error { _, err := svc.Update(ctx, 9999, &models.Dish{Name: "x"}); return err }, models.ErrNotFound},
		{"get missing", func() error { _, err := svc.Get(ctx, 9999); return err }, models.ErrNotFound},
		{"delete missing", func() error { return svc.Delete(ctx, 9999) }, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if err := svc.Delete(ctx, dish.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDishService_SeedDefaultsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewDishService(memory.NewStore().Dishes)

	n, err := svc.SeedDefaults(ctx)
	if err != nil || n != 5 {
		t.Fatalf("first seed: n=%d err=%v", n, err)
	}
	n, err = svc.SeedDefaults(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second seed: n=%d err=%v", n, err)
	}

	dishes, _ := svc.List(ctx)
	if dishes[0].Name != "Pizza Margherita" || !dishes[0].Price.Equal(dec("25.90")) {
		t.Errorf("unexpected first dish: %+v", dishes[0])
	}
}

func TestDishService_SeedFromFile(t *testing.T) {
	ctx := context.Background()
	svc := NewDishService(memory.NewStore().Dishes)

	path := filepath.Join(t.TempDir(), "dishes.csv")
	csv := "name,description,price,category\nCoxinha,Frango,7.50,appetizer\nPudim,,9.00,dessert\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := svc.SeedFromFile(ctx, path)
	if err != nil || n != 2 {
		t.Fatalf("seed from file: n=%d err=%v", n, err)
	}
}

func TestDishService_SeedFake(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewDishService(store.Dishes)

	n, err := svc.SeedFake(ctx, 12)
	if err != nil || n != 12 {
		t.Fatalf("seed fake: n=%d err=%v", n, err)
	}
	count, _ := store.Dishes.Count(ctx)
	if count != 12 {
		t.Errorf("count = %d, want 12", count)
	}
}
