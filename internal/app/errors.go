package service

import "errors"

// Sentinel kinds for analysis errors.
var (
	ErrMissingRequiredColor = errors.New("Please provide team1.homekit and team2.homekit color data") //nolint:staticcheck // user-facing text
)
