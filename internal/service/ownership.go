package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

type classOwnerResolver interface {
	TeacherID(ctx context.Context, classID string) (string, error)
}

// OwnershipGuard resolves a class to its owning teacher and rejects any
// other caller. Nested resources resolve up to their class first.
type OwnershipGuard struct {
	classes classOwnerResolver
}

// NewOwnershipGuard constructs the guard.
func NewOwnershipGuard(classes classOwnerResolver) *OwnershipGuard {
	return &OwnershipGuard{classes: classes}
}

// VerifyClassOwner returns ErrNotFound when the class does not exist and
// ErrForbidden when it belongs to someone else.
func (g *OwnershipGuard) VerifyClassOwner(ctx context.Context, classID, teacherID string) error {
	ownerID, err := g.classes.TeacherID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve class owner")
	}
	if ownerID != teacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "class belongs to another teacher")
	}
	return nil
}
