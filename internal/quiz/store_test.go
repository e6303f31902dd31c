package quiz

import (
	stderrors "errors"
	"testing"
	"time"

	"skillscan/internal/errors"
	"skillscan/internal/types"
)

func TestStorePutGet(t *testing.T) {
	store := NewStore(time.Minute, nil)
	defer store.Close()

	store.Put(types.Quiz{ID: "abc", Name: "Jane"})

	got, err := store.Get("abc")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Name != "Jane" {
		t.Errorf("Expected name 'Jane', got '%s'", got.Name)
	}

	_, err = store.Get("missing")
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeQuizNotFound {
		t.Errorf("Expected QUIZ_NOT_FOUND, got %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(time.Minute, nil)
	defer store.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Put(types.Quiz{ID: "old"})
	now = now.Add(30 * time.Second)
	store.Put(types.Quiz{ID: "new"})

	now = now.Add(45 * time.Second)
	if _, err := store.Get("old"); err == nil {
		t.Error("Expected expired quiz to be unavailable")
	}
	if _, err := store.Get("new"); err != nil {
		t.Errorf("Expected fresh quiz to be available: %v", err)
	}

	store.cleanup()
	if store.Len() != 1 {
		t.Errorf("Expected 1 quiz after cleanup, got %d", store.Len())
	}
}

func TestStoreDefaultTTL(t *testing.T) {
	store := NewStore(0, nil)
	defer store.Close()

	if stats := store.GetStats(); stats["ttl_seconds"] != DefaultTTL.Seconds() {
		t.Errorf("Expected default ttl, got %v", stats["ttl_seconds"])
	}
}
