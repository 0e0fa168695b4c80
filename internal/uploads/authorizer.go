// Package uploads issues the short-lived write credentials a client needs
// to publish a revision. Authorization is gated on the revision chain: a
// client may only upload revision N once revision N-1 is confirmed (or
// unconditionally for revision 0). Nothing is persisted here; the revision
// becomes durable only through the store's confirm path, so a client that
// fails mid-upload leaves no partial, visible revision behind.
package uploads

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/shoemakerdr/ellie/internal/storage"
	"github.com/shoemakerdr/ellie/pkg/ids"
)

var (
	// ErrInvalidArgument is returned for a well-formed request with an
	// unusable revision number (negative).
	ErrInvalidArgument = errors.New("invalid revision number")

	// ErrPredecessorMissing is returned when the requested revision's
	// immediate predecessor has not been confirmed. Distinct from
	// ErrInvalidArgument so callers can tell "you skipped ahead" from
	// "you sent garbage".
	ErrPredecessorMissing = errors.New("predecessor revision does not exist")
)

// RevisionChecker is the existence probe the authorizer gates on.
type RevisionChecker interface {
	Exists(ctx context.Context, id ids.RevisionID) (bool, error)
}

// ObjectSigner mints time-limited write credentials for storage keys.
type ObjectSigner interface {
	SignedPutURL(ctx context.Context, key, contentType string) (storage.SignedUpload, error)
}

// SignedUploads carries the two independent credentials for one revision:
// one for the source snapshot, one for the compiled result.
type SignedUploads struct {
	Revision storage.SignedUpload `json:"revision"`
	Result   storage.SignedUpload `json:"result"`
}

// Authorizer gates and mints upload credentials.
type Authorizer struct {
	store  RevisionChecker
	signer ObjectSigner
	logger hclog.Logger
}

// New creates an upload authorizer.
func New(store RevisionChecker, signer ObjectSigner, logger hclog.Logger) *Authorizer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Authorizer{
		store:  store,
		signer: signer,
		logger: logger.Named("uploads"),
	}
}

// Authorize checks the sequencing gate for revision number of project and,
// on success, mints credentials scoped to the revision's two artifact keys.
func (a *Authorizer) Authorize(
	ctx context.Context, project ids.ProjectID, number int,
) (*SignedUploads, error) {
	if number < 0 {
		return nil, fmt.Errorf("revision number %d: %w", number, ErrInvalidArgument)
	}

	id := ids.NewRevisionID(project, number)

	// Revision 0 needs no predecessor.
	if number > 0 {
		ok, err := a.store.Exists(ctx, id.Previous())
		if err != nil {
			return nil, fmt.Errorf("checking predecessor of %s: %w", id, err)
		}
		if !ok {
			a.logger.Warn("rejected out-of-order upload request",
				"revision", id,
			)
			return nil, fmt.Errorf("revision %s: %w", id, ErrPredecessorMissing)
		}
	}

	snapshot, err := a.signer.SignedPutURL(
		ctx, storage.SnapshotKey(id), storage.SnapshotContentType)
	if err != nil {
		return nil, fmt.Errorf("signing snapshot upload for %s: %w", id, err)
	}
	result, err := a.signer.SignedPutURL(
		ctx, storage.ResultKey(id), storage.ResultContentType)
	if err != nil {
		return nil, fmt.Errorf("signing result upload for %s: %w", id, err)
	}

	a.logger.Debug("authorized upload", "revision", id)

	return &SignedUploads{
		Revision: snapshot,
		Result:   result,
	}, nil
}
