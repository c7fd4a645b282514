package repository

import "errors"

// ErrDuplicate is returned when a unique field (user email, google id, event
// public link) is already taken
var ErrDuplicate = errors.New("repository: duplicate key")
