package services

import "errors"

// Errors shared by the tenant-scoped services.
var (
	ErrNoCompany          = errors.New("user has no active company")
	ErrNotCompanyMember   = errors.New("user is not a member of this company")
	ErrNotCompanyAdmin    = errors.New("company admin role required")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrCrossTenant        = errors.New("record belongs to another company")
	ErrInvalidReference   = errors.New("referenced record does not belong to this company")
	ErrMemberNotFound     = errors.New("company member not found")
	ErrCannotModifySelf   = errors.New("cannot change your own membership")
	ErrInvalidCompanyName = errors.New("company name cannot be empty")
)
