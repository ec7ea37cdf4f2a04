package model

import "github.com/festy23/converge/internal/apperror"

var (
	// ErrRequestNotFound indicates that the team request does not exist.
	ErrRequestNotFound = apperror.New(apperror.NotFound, "team request not found")
	// ErrRequestNotPending indicates the request was already resolved. The stale row is removed.
	ErrRequestNotPending = apperror.New(apperror.InvalidState, "team request is no longer pending")
	// ErrNotRequestTarget indicates that the caller is not the request target.
	ErrNotRequestTarget = apperror.New(apperror.Forbidden, "only the invited user can act on this request")
	// ErrAlreadyMember indicates that the user is already on the project team.
	ErrAlreadyMember = apperror.New(apperror.Conflict, "user is already a teammate on this project")
	// ErrSelfInvite indicates that the owner tried to invite themselves.
	ErrSelfInvite = apperror.New(apperror.InvalidArgument, "cannot invite self")
	// ErrEmailRequired indicates a blank invitee email.
	ErrEmailRequired = apperror.New(apperror.InvalidArgument, "email is required")
	// ErrInviteeNotFound indicates that no profile is registered for the invitee.
	ErrInviteeNotFound = apperror.New(apperror.NotFound, "user with this email not found")
	// ErrRatingNotAcceptable indicates an accept call on a rating request.
	ErrRatingNotAcceptable = apperror.New(apperror.InvalidArgument, "rating requests cannot be accepted, only dismissed")
	// ErrCorruptRequest indicates a stored request that cannot be decoded.
	ErrCorruptRequest = apperror.New(apperror.Internal, "corrupt team request")
)
