// Package authz decides whether an authenticated user may act on a
// project or a task. Tasks carry no owner of their own, so their owner is
// always resolved through the parent project in a single query; the
// client-supplied identity is never trusted for that derivation.
package authz

import (
	"context"
	"database/sql"
	"errors"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Allowed Decision = iota
	NotFound
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// OwnershipStore is the minimal lookup surface the authorizer needs.
// *repository.Store satisfies it; tests use an in-memory fake.
type OwnershipStore interface {
	// ProjetOwner returns the owner id of a project, or sql.ErrNoRows.
	ProjetOwner(ctx context.Context, projetID int) (int, error)
	// TacheOwner returns the owner id and parent project id of a task in
	// one joined lookup, or sql.ErrNoRows.
	TacheOwner(ctx context.Context, tacheID int) (utilisateurID, projetID int, err error)
}

type Authorizer struct {
	store OwnershipStore
}

func NewAuthorizer(store OwnershipStore) *Authorizer {
	return &Authorizer{store: store}
}

// CheckProjet verifies that utilisateurID owns projetID.
func (a *Authorizer) CheckProjet(ctx context.Context, utilisateurID, projetID int) (Decision, error) {
	owner, err := a.store.ProjetOwner(ctx, projetID)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound, nil
	}
	if err != nil {
		return NotFound, err
	}
	if owner != utilisateurID {
		return Forbidden, nil
	}
	return Allowed, nil
}

// CheckTache verifies that utilisateurID owns the project a task belongs
// to. The resolved parent project id is returned alongside the decision.
func (a *Authorizer) CheckTache(ctx context.Context, utilisateurID, tacheID int) (Decision, int, error) {
	owner, projetID, err := a.store.TacheOwner(ctx, tacheID)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound, 0, nil
	}
	if err != nil {
		return NotFound, 0, err
	}
	if owner != utilisateurID {
		return Forbidden, 0, nil
	}
	return Allowed, projetID, nil
}

// CheckCreationTache guards task creation: a task may only be inserted
// under a project the caller owns.
func (a *Authorizer) CheckCreationTache(ctx context.Context, utilisateurID, projetID int) (Decision, error) {
	return a.CheckProjet(ctx, utilisateurID, projetID)
}
