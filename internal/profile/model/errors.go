package model

import "github.com/festy23/converge/internal/apperror"

var (
	// ErrProfileNotFound indicates that no profile is registered for the email.
	ErrProfileNotFound = apperror.New(apperror.NotFound, "profile not found")
	// ErrInvalidEmail indicates a blank email.
	ErrInvalidEmail = apperror.New(apperror.InvalidArgument, "email is required")
	// ErrInvalidName indicates a blank display name.
	ErrInvalidName = apperror.New(apperror.InvalidArgument, "name is required")
	// ErrInvalidProfileID indicates a non-positive profile id.
	ErrInvalidProfileID = apperror.New(apperror.InvalidArgument, "invalid profile id")
)
