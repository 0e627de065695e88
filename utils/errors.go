package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"docuhub/models"
)

// Domain failures by category. Controllers map these onto HTTP statuses
// with ErrorStatus; nothing below the API surface speaks HTTP.
var (
	// Validation
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrEmptyUpdate = errors.New("no fields provided for update")
	ErrInvalidRole = errors.New("role must be either \"editor\" or \"reader\"")
	ErrInvalidTTL  = errors.New("share link expiry exceeds the allowed maximum")

	// Conflict
	ErrDuplicateTitle        = errors.New("a document with this title already exists")
	ErrDuplicateWorkspace    = errors.New("you already have a workspace with this name")
	ErrAlreadyCollaborator   = errors.New("user is already a collaborator")
	ErrAlreadyMember         = errors.New("user is already a member of this workspace")
	ErrOwnerConflict         = errors.New("the document owner cannot be added as a collaborator")
	ErrSelfAdd               = errors.New("cannot add yourself as a collaborator")
	ErrAlreadyOwner          = errors.New("document owner cannot be altered via share link")
	ErrSameRole              = errors.New("user already has this role")
	ErrOwnerImmutable        = errors.New("the owner role cannot be changed or removed")
	ErrCreatorMembershipLock = errors.New("the workspace creator's membership cannot be changed or removed")

	// Not found
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidOrExpired   = errors.New("invalid or expired share link")
	ErrMembershipNotFound = errors.New("membership not found")

	// Forbidden
	ErrForbidden = errors.New("forbidden")
)

// PermissionError is a forbidden failure carrying the permission that was
// checked and the role (if any) the actor held, so the API layer can report
// both.
type PermissionError struct {
	Permission models.Permission
	Role       string
}

func (e *PermissionError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("permission '%s' denied: no role in this scope", e.Permission)
	}
	return fmt.Sprintf("permission '%s' denied for role '%s'", e.Permission, e.Role)
}

// Unwrap lets errors.Is(err, ErrForbidden) match permission denials.
func (e *PermissionError) Unwrap() error { return ErrForbidden }

// ErrorStatus maps a domain failure onto its HTTP status. Unknown errors
// map to 500 so nothing internal leaks as a client fault.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrMembershipNotFound),
		errors.Is(err, ErrInvalidOrExpired):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrDuplicateTitle),
		errors.Is(err, ErrDuplicateWorkspace),
		errors.Is(err, ErrAlreadyCollaborator),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrOwnerConflict),
		errors.Is(err, ErrSelfAdd),
		errors.Is(err, ErrAlreadyOwner),
		errors.Is(err, ErrSameRole),
		errors.Is(err, ErrOwnerImmutable),
		errors.Is(err, ErrCreatorMembershipLock):
		return fiber.StatusConflict
	case errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrEmptyUpdate),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidTTL):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
