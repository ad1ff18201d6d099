package domain

import "errors"

var (
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownRole        = errors.New("unknown role")
	ErrSessionRevoked     = errors.New("session revoked")

	ErrIdentityNotFound = errors.New("identity not found")
	ErrIdentityExists   = errors.New("identity already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrProjectNotFound  = errors.New("project not found")
)
