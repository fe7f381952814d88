package blocks

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an execution failure.
type ErrorKind string

const (
	KindCollision     ErrorKind = "collision"
	KindOutOfBounds   ErrorKind = "out_of_bounds"
	KindInvalidAction ErrorKind = "invalid_action"
	KindInfiniteLoop  ErrorKind = "infinite_loop"
)

// Sentinels matched by errors.Is against an *ExecutionError.
var (
	ErrCollision     = errors.New("collision")
	ErrOutOfBounds   = errors.New("out of bounds")
	ErrInvalidAction = errors.New("invalid action")
	ErrInfiniteLoop  = errors.New("infinite loop")
)

var kindMessages = map[ErrorKind]string{
	KindCollision:     "Oops! You bumped into an obstacle.",
	KindOutOfBounds:   "You can't walk off the edge of the map!",
	KindInvalidAction: "That action can't be done here.",
	KindInfiniteLoop:  "Too many steps! Your program might have an infinite loop.",
}

// ExecutionError describes the first failure of a run. BlockIndex is the
// index inside the block list being executed when the failure happened,
// so an error inside a loop body reports its position within that body.
type ExecutionError struct {
	Kind       ErrorKind `json:"type"`
	Message    string    `json:"message"`
	BlockIndex int       `json:"blockIndex"`
}

func newExecError(kind ErrorKind, index int) *ExecutionError {
	return &ExecutionError{Kind: kind, Message: kindMessages[kind], BlockIndex: index}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("block %d: %s: %s", e.BlockIndex, e.Kind, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	switch e.Kind {
	case KindCollision:
		return ErrCollision
	case KindOutOfBounds:
		return ErrOutOfBounds
	case KindInvalidAction:
		return ErrInvalidAction
	case KindInfiniteLoop:
		return ErrInfiniteLoop
	}
	return nil
}

// UnavailableBlockError is returned by CheckAvailable when a program uses a
// block that is not in the level's palette.
type UnavailableBlockError struct {
	Index int
	Type  BlockType
}

func (e *UnavailableBlockError) Error() string {
	return fmt.Sprintf("block %d: %q is not available in this level", e.Index, e.Type)
}
