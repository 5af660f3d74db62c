package search

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"shopcrawl/internal/products"
	"shopcrawl/internal/shops"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceWithRepo(t, NewInMemoryRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestServiceWithRepo(t *testing.T, repo Repository, logger *slog.Logger) *Service {
	t.Helper()

	shopRepo := shops.NewInMemoryRepository()
	now := time.Now().UTC()
	shop, err := shopRepo.Create(context.Background(), shops.Shop{
		ID:        uuid.New(),
		Name:      "Test Shop",
		URL:       "https://example.com",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seeding shop: %v", err)
	}

	productSvc := products.NewService(products.NewInMemoryRepository(), shopRepo)
	for _, name := range []string{"Gaming Laptop", "Desk Lamp"} {
		if _, err := productSvc.Create(context.Background(), products.CreateProductInput{
			Name: name, Price: 1, ShopID: shop.ID,
		}); err != nil {
			t.Fatalf("seeding product: %v", err)
		}
	}

	return NewService(repo, productSvc, logger)
}

// failingRepository rejects all writes to exercise the best-effort history
// recording path.
type failingRepository struct {
	Repository
}

func (r *failingRepository) Create(_ context.Context, _ Entry) (Entry, error) {
	return Entry{}, errors.New("history table unavailable")
}

func TestSearchSurvivesHistoryFailureAndLogsIt(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	repo := &failingRepository{Repository: NewInMemoryRepository()}
	svc := newTestServiceWithRepo(t, repo, logger)

	results, entry, err := svc.Search(context.Background(), uuid.New(), "laptop")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected search results despite history failure, got %v", results)
	}
	if entry != nil {
		t.Fatalf("expected no history entry, got %+v", entry)
	}
	if !strings.Contains(logBuf.String(), "failed to record search history") {
		t.Fatalf("expected history failure to be logged, got %q", logBuf.String())
	}
}

func TestSearchReturnsProductsAndRecordsHistory(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	results, entry, err := svc.Search(context.Background(), userID, "laptop")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(results) != 1 || results[0].Name != "Gaming Laptop" {
		t.Fatalf("unexpected results %v", results)
	}
	if entry == nil || entry.Query != "laptop" || entry.UserID != userID {
		t.Fatalf("unexpected history entry %+v", entry)
	}

	history, err := svc.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Search(context.Background(), uuid.New(), "")
	if !errors.Is(err, products.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveValidatesInput(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Save(context.Background(), uuid.New(), "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty query, got %v", err)
	}
	if _, err := svc.Save(context.Background(), uuid.Nil, "laptop"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing user, got %v", err)
	}
}

func TestListByUserIsScopedAndOrdered(t *testing.T) {
	svc := newTestService(t)
	alice := uuid.New()
	bob := uuid.New()

	for _, q := range []string{"first", "second"} {
		if _, err := svc.Save(context.Background(), alice, q); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	if _, err := svc.Save(context.Background(), bob, "other"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	history, err := svc.ListByUser(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 entries for alice, got %d", len(history))
	}
	if history[0].Query != "second" || history[1].Query != "first" {
		t.Fatalf("expected most recent first, got %q, %q", history[0].Query, history[1].Query)
	}
}

func TestDeleteEntry(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	entry, err := svc.Save(context.Background(), userID, "laptop")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
