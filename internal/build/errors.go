package build

import (
	"errors"
	"fmt"
)

// Sentinel domain errors. They are always wrapped with the failing path or
// mod at the call site.
var (
	ErrMainBuild  = errors.New("ue4build: main build failed")
	ErrModBuild   = errors.New("ue4build: mod build failed")
	ErrStageCopy  = errors.New("ue4build: copying staged build failed")
	ErrInjectMods = errors.New("ue4build: injecting mod artifacts failed")
)

// StageError reports the stage that aborted a run.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }
