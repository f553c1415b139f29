package adminrequest

import "errors"

var (
	ErrDuplicateRequest = errors.New("a pending admin access request already exists")
	ErrRequestNotFound  = errors.New("admin access request not found")
	ErrInvalidState     = errors.New("admin access request is no longer pending")
	ErrForbidden        = errors.New("only a super admin can decide admin access requests")
	ErrAlreadyElevated  = errors.New("profile already has admin access")
	ErrInvalidStatus    = errors.New("invalid admin access request status")
)
