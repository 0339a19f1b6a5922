package canio

import "fmt"

// UnknownFrameError reports a lookup miss in a Map, by name or by id.
type UnknownFrameError struct {
	Name  string
	ID    uint32
	Known []string
}

func (e *UnknownFrameError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("canio: unknown frame %q (known: %v)", e.Name, e.Known)
	}
	return fmt.Sprintf("canio: unknown frame id 0x%X", e.ID)
}
