package store

import "errors"

// ErrStorage marks persistence I/O failures. Callers match it with
// errors.Is to map any backend failure to a storage error without
// inspecting backend-specific causes.
var ErrStorage = errors.New("storage failure")
