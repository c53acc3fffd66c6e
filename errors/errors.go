package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyPhrases       = fmt.Errorf("no crisis phrases have been found")
	ErrUnknownRoom        = fmt.Errorf("unknown room")
	ErrNotAnImage         = fmt.Errorf("file is not an image")
	ErrImageTooLarge      = fmt.Errorf("image exceeds the maximum allowed size")
	ErrNoProvider         = fmt.Errorf("no generative provider configured")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrAuthStateNotFound  = fmt.Errorf("no persisted auth state")
)
