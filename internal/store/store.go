// Package store is the authoritative record of confirmed revisions. It
// enforces the per-project append-only chain: revision N exists only if
// revisions 0..N-1 all exist.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/shoemakerdr/ellie/pkg/ids"
	"github.com/shoemakerdr/ellie/pkg/models"
)

var (
	// ErrNotFound is returned when a revision genuinely does not exist.
	ErrNotFound = errors.New("revision not found")

	// ErrSequenceViolation is returned when a confirm attempts a revision
	// number that is not exactly the next one for its project, including
	// when a concurrent confirm won the race for that number.
	ErrSequenceViolation = errors.New("revision sequence violation")
)

// Store persists revisions and session-scoped terms acceptance.
type Store struct {
	db     *gorm.DB
	logger hclog.Logger
}

// New creates a store backed by the given database.
func New(db *gorm.DB, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{
		db:     db,
		logger: logger.Named("store"),
	}
}

// Exists reports whether a revision has been confirmed. Point lookup on the
// (project, number) key; used both as the upload-authorization gate and for
// idempotent re-fetch.
func (s *Store) Exists(ctx context.Context, id ids.RevisionID) (bool, error) {
	ok, err := models.RevisionExists(s.db.WithContext(ctx), id)
	if err != nil {
		return false, fmt.Errorf("checking revision %s: %w", id, err)
	}
	return ok, nil
}

// Get fetches a confirmed revision, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id ids.RevisionID) (*models.Revision, error) {
	rev, err := models.GetRevision(s.db.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("revision %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching revision %s: %w", id, err)
	}
	return rev, nil
}

// Confirm makes a revision durable once both artifact uploads have completed
// out of band. The revision number must be exactly one past the project's
// highest confirmed number (or 0 for the first revision); anything else is
// ErrSequenceViolation.
//
// Two confirms racing for the same next number both pass the max check, so
// the insert itself is the serialization point: the unique index on
// (project_id, revision_number) admits exactly one row, and the loser's
// duplicate-key error is reported as ErrSequenceViolation. No locks are
// taken; confirms for different projects never contend.
func (s *Store) Confirm(ctx context.Context, rev *models.Revision) error {
	db := s.db.WithContext(ctx)
	id := ids.NewRevisionID(rev.ProjectID, rev.RevisionNumber)

	max, any, err := models.MaxRevisionNumber(db, rev.ProjectID)
	if err != nil {
		return fmt.Errorf("reading revision chain for %s: %w", rev.ProjectID, err)
	}
	next := 0
	if any {
		next = max + 1
	}
	if rev.RevisionNumber != next {
		s.logger.Warn("rejected out-of-sequence confirm",
			"revision", id,
			"expected_number", next,
		)
		return fmt.Errorf("confirm %s, next is %d: %w",
			id, next, ErrSequenceViolation)
	}

	if err := db.Create(rev).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("lost confirm race", "revision", id)
			return fmt.Errorf("confirm %s: %w", id, ErrSequenceViolation)
		}
		return fmt.Errorf("confirming revision %s: %w", id, err)
	}

	s.logger.Info("confirmed revision", "revision", id)
	return nil
}

// AcceptedTermsVersion returns the terms version the session has accepted,
// and whether it has accepted any.
func (s *Store) AcceptedTermsVersion(
	ctx context.Context, sessionID string,
) (int, bool, error) {
	version, ok, err := models.GetAcceptedTermsVersion(
		s.db.WithContext(ctx), sessionID)
	if err != nil {
		return 0, false, fmt.Errorf("reading terms acceptance: %w", err)
	}
	return version, ok, nil
}

// AcceptTerms records that the session accepted the given terms version.
func (s *Store) AcceptTerms(
	ctx context.Context, sessionID string, version int,
) error {
	err := models.UpsertTermsAcceptance(s.db.WithContext(ctx), sessionID, version)
	if err != nil {
		return fmt.Errorf("recording terms acceptance: %w", err)
	}
	return nil
}
