package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/snapnote-lab/snapnote/pkg/domain/interfaces"
	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/repository/firestore"
	"github.com/snapnote-lab/snapnote/pkg/repository/memory"
)

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	repo, err := firestore.New(context.Background(), projectID, os.Getenv("FIRESTORE_DATABASE_ID"),
		firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func runSessionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	const userID = types.UserID("user-1")

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		session := &model.Session{
			UserID: userID,
			Name:   "Cabo trip",
		}
		gt.NoError(t, repo.Session().Create(ctx, session)).Required()

		gt.Value(t, session.ID).NotEqual(types.SessionID(""))
		gt.NoError(t, session.ID.Validate())
		gt.Bool(t, session.CreatedAt.IsZero()).False()
		gt.Bool(t, session.UpdatedAt.IsZero()).False()
	})

	t.Run("Create honors a pre-assigned ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := types.NewSessionID()
		session := &model.Session{
			ID:     id,
			UserID: userID,
			Name:   "pinned id",
		}
		gt.NoError(t, repo.Session().Create(ctx, session)).Required()
		gt.Value(t, session.ID).Equal(id)

		got, err := repo.Session().Get(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("pinned id")
	})

	t.Run("Get returns the stored session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		session := &model.Session{
			UserID:      userID,
			Name:        "Apartment search",
			Description: "two bedroom, walkable",
		}
		gt.NoError(t, repo.Session().Create(ctx, session)).Required()

		got, err := repo.Session().Get(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(session.ID)
		gt.Value(t, got.UserID).Equal(userID)
		gt.Value(t, got.Name).Equal("Apartment search")
		gt.Value(t, got.Description).Equal("two bedroom, walkable")
	})

	t.Run("Get unknown ID returns not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Session().Get(ctx, types.NewSessionID())
		gt.Error(t, err)
	})

	t.Run("ListByUser returns only that user's sessions, newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []types.SessionID
		for i := 0; i < 3; i++ {
			session := &model.Session{
				UserID: userID,
				Name:   fmt.Sprintf("session %d", i),
			}
			gt.NoError(t, repo.Session().Create(ctx, session)).Required()
			ids = append(ids, session.ID)
			time.Sleep(10 * time.Millisecond)
		}

		other := &model.Session{UserID: "user-2", Name: "not mine"}
		gt.NoError(t, repo.Session().Create(ctx, other)).Required()

		sessions, err := repo.Session().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, sessions).Length(3)

		gt.Value(t, sessions[0].ID).Equal(ids[2])
		gt.Value(t, sessions[2].ID).Equal(ids[0])
		for _, s := range sessions {
			gt.Value(t, s.UserID).Equal(userID)
		}
	})

	t.Run("Touch advances updated_at", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		session := &model.Session{UserID: userID, Name: "touch me"}
		gt.NoError(t, repo.Session().Create(ctx, session)).Required()

		before, err := repo.Session().Get(ctx, session.ID)
		gt.NoError(t, err).Required()

		time.Sleep(10 * time.Millisecond)
		gt.NoError(t, repo.Session().Touch(ctx, session.ID)).Required()

		after, err := repo.Session().Get(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, after.UpdatedAt.After(before.UpdatedAt)).True()
	})

	t.Run("Delete removes the session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		session := &model.Session{UserID: userID, Name: "short lived"}
		gt.NoError(t, repo.Session().Create(ctx, session)).Required()

		gt.NoError(t, repo.Session().Delete(ctx, session.ID)).Required()

		_, err := repo.Session().Get(ctx, session.ID)
		gt.Error(t, err)
	})
}

func TestSessionRepository_Memory(t *testing.T) {
	runSessionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestSessionRepository_Firestore(t *testing.T) {
	runSessionRepositoryTest(t, newFirestoreRepo)
}
