package model

import "github.com/festy23/converge/internal/apperror"

var (
	// ErrProjectNotFound indicates that the project does not exist.
	ErrProjectNotFound = apperror.New(apperror.NotFound, "project not found")
	// ErrNotProjectOwner indicates that the caller does not own the project.
	ErrNotProjectOwner = apperror.New(apperror.Forbidden, "only the project owner can perform this action")
	// ErrTitleRequired indicates a blank title.
	ErrTitleRequired = apperror.New(apperror.InvalidArgument, "title is required")
	// ErrTypeRequired indicates a blank project type.
	ErrTypeRequired = apperror.New(apperror.InvalidArgument, "type is required")
	// ErrInvalidVisibility indicates a visibility other than public or private.
	ErrInvalidVisibility = apperror.New(apperror.InvalidArgument, "visibility must be public or private")
	// ErrSkillsRequired indicates an empty required skills list.
	ErrSkillsRequired = apperror.New(apperror.InvalidArgument, "at least one required skill is needed")
	// ErrFieldTooLong indicates a text field over its storage limit.
	ErrFieldTooLong = apperror.New(apperror.InvalidArgument, "field exceeds maximum length")
)
