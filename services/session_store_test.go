package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := &ExamSession{
		CandidateID: 1,
		ExamID:      2,
		ExamLink:    "link-1",
		StartedAt:   time.Now(),
		Deadline:    time.Now().Add(time.Hour),
	}

	require.NoError(t, store.Put(ctx, session, time.Hour))

	got, err := store.Get(ctx, "link-1")
	require.NoError(t, err)
	assert.Equal(t, session.CandidateID, got.CandidateID)
	assert.Equal(t, session.ExamID, got.ExamID)

	require.NoError(t, store.Delete(ctx, "link-1"))
	_, err = store.Get(ctx, "link-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := &ExamSession{ExamLink: "link-2", Deadline: time.Now()}
	require.NoError(t, store.Put(ctx, session, -time.Second))

	_, err := store.Get(ctx, "link-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_DeleteIsIdempotent(t *testing.T) {
	store := NewMemorySessionStore()
	assert.NoError(t, store.Delete(context.Background(), "never-stored"))
}
