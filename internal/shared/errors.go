package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration missing")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthExchangeFailed = fmt.Errorf("token exchange failed")

	// Provider and lookup errors
	ErrRemoteCallFailed = fmt.Errorf("remote call failed")
	ErrNotFound         = fmt.Errorf("not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
