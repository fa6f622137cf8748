package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrPrincipalMissing        = errors.New("authenticated principal missing from request")
	ErrNoLinkedEmployee        = errors.New("account is not linked to an employee")
)
