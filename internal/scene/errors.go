package scene

import "fmt"

// SceneError wraps a build failure with scene context.
type SceneError struct {
	Scene   string
	Stage   string
	Wrapped error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("scene %q: %s: %v", e.Scene, e.Stage, e.Wrapped)
}

func (e *SceneError) Unwrap() error {
	return e.Wrapped
}
