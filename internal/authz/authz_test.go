package authz

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	// projets maps projet id -> owner id
	projets map[int]int
	// taches maps tache id -> projet id
	taches map[int]int
	err    error
}

func (f *fakeStore) ProjetOwner(_ context.Context, projetID int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	owner, ok := f.projets[projetID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return owner, nil
}

func (f *fakeStore) TacheOwner(_ context.Context, tacheID int) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	projetID, ok := f.taches[tacheID]
	if !ok {
		return 0, 0, sql.ErrNoRows
	}
	owner, ok := f.projets[projetID]
	if !ok {
		return 0, 0, sql.ErrNoRows
	}
	return owner, projetID, nil
}

func newFake() *fakeStore {
	return &fakeStore{
		projets: map[int]int{10: 1, 20: 2},
		taches:  map[int]int{100: 10, 200: 20},
	}
}

func TestCheckProjet(t *testing.T) {
	a := NewAuthorizer(newFake())
	ctx := context.Background()

	tests := []struct {
		name          string
		utilisateurID int
		projetID      int
		want          Decision
	}{
		{"owner is allowed", 1, 10, Allowed},
		{"other user is forbidden", 2, 10, Forbidden},
		{"missing project", 1, 999, NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.CheckProjet(ctx, tt.utilisateurID, tt.projetID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckTache(t *testing.T) {
	a := NewAuthorizer(newFake())
	ctx := context.Background()

	t.Run("owner via parent project", func(t *testing.T) {
		got, projetID, err := a.CheckTache(ctx, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, Allowed, got)
		assert.Equal(t, 10, projetID)
	})

	t.Run("stranger never allowed even without direct owner field", func(t *testing.T) {
		got, _, err := a.CheckTache(ctx, 2, 100)
		require.NoError(t, err)
		assert.Equal(t, Forbidden, got)
	})

	t.Run("missing task", func(t *testing.T) {
		got, _, err := a.CheckTache(ctx, 1, 999)
		require.NoError(t, err)
		assert.Equal(t, NotFound, got)
	})
}

func TestCheckCreationTache(t *testing.T) {
	a := NewAuthorizer(newFake())
	ctx := context.Background()

	got, err := a.CheckCreationTache(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, Allowed, got)

	got, err = a.CheckCreationTache(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, Forbidden, got)

	got, err = a.CheckCreationTache(ctx, 1, 404)
	require.NoError(t, err)
	assert.Equal(t, NotFound, got)
}

func TestStoreErrorPassesThrough(t *testing.T) {
	boom := errors.New("connexion perdue")
	a := NewAuthorizer(&fakeStore{err: boom})
	ctx := context.Background()

	_, err := a.CheckProjet(ctx, 1, 10)
	assert.ErrorIs(t, err, boom)

	_, _, err = a.CheckTache(ctx, 1, 100)
	assert.ErrorIs(t, err, boom)
}
