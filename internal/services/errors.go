package services

import "errors"

var (
	ErrInvalidID              = errors.New("invalid ID format")
	ErrRepositoryNotInProject = errors.New("repository does not belong to project")
	ErrInvalidDateRange       = errors.New("end date must be after start date")
)
