package services

import "errors"

var (
	// ErrLogoutPending is returned when a sign-in callback arrives right
	// after an explicit logout. The callback is dropped.
	ErrLogoutPending = errors.New("logout in progress, sign-in callback ignored")
	ErrNotSignedIn   = errors.New("not signed in")
	ErrNoAssignment  = errors.New("assignment data missing")
)
