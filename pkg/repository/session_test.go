package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slackline-io/slackline/pkg/domain/interfaces"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/repository/firestore"
	"github.com/slackline-io/slackline/pkg/repository/memory"
)

func runSessionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("PutLoginSession and GetLoginSession", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		session := model.NewLoginSession(newUserID(t))

		if err := repo.PutLoginSession(ctx, session); err != nil {
			t.Fatalf("PutLoginSession failed: %v", err)
		}

		retrieved, err := repo.GetLoginSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetLoginSession failed: %v", err)
		}

		if retrieved.ID != session.ID {
			t.Errorf("ID mismatch: got %v, want %v", retrieved.ID, session.ID)
		}
		if retrieved.UserID != session.UserID {
			t.Errorf("UserID mismatch: got %v, want %v", retrieved.UserID, session.UserID)
		}
		if diff := retrieved.CreatedAt.Sub(session.CreatedAt); diff > time.Second || diff < -time.Second {
			t.Errorf("CreatedAt mismatch: got %v, want %v", retrieved.CreatedAt, session.CreatedAt)
		}
	})

	t.Run("GetLoginSession not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.GetLoginSession(ctx, types.NewLoginID())
		if err == nil {
			t.Fatal("Expected error for unknown login ID, got nil")
		}
		if !errors.Is(err, firestore.ErrNotFound) && !errors.Is(err, memory.ErrNotFound) {
			t.Errorf("Expected NotFound error, got: %v", err)
		}
	})

	t.Run("GetLoginSession with malformed ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		// A garbage state value must be indistinguishable from an expired one
		_, err := repo.GetLoginSession(ctx, types.LoginID("not a login id"))
		if err == nil {
			t.Fatal("Expected error for malformed login ID, got nil")
		}
		if !errors.Is(err, firestore.ErrNotFound) && !errors.Is(err, memory.ErrNotFound) {
			t.Errorf("Expected NotFound error, got: %v", err)
		}
	})

	t.Run("PutLoginSession last write wins", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := model.NewLoginSession(newUserID(t))
		second := &model.LoginSession{
			ID:        first.ID,
			UserID:    newUserID(t),
			CreatedAt: time.Now().UTC(),
		}

		if err := repo.PutLoginSession(ctx, first); err != nil {
			t.Fatalf("PutLoginSession failed: %v", err)
		}
		if err := repo.PutLoginSession(ctx, second); err != nil {
			t.Fatalf("PutLoginSession failed: %v", err)
		}

		retrieved, err := repo.GetLoginSession(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetLoginSession failed: %v", err)
		}
		if retrieved.UserID != second.UserID {
			t.Errorf("UserID mismatch: got %v, want %v", retrieved.UserID, second.UserID)
		}
	})

	t.Run("PutLoginSession validation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		invalid := &model.LoginSession{
			ID:        types.NewLoginID(),
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.PutLoginSession(ctx, invalid); err == nil {
			t.Fatal("Expected validation error for session without user, got nil")
		}
	})
}

func TestMemorySessionRepository(t *testing.T) {
	runSessionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreSessionRepository(t *testing.T) {
	runSessionRepositoryTest(t, newFirestoreRepo)
}
