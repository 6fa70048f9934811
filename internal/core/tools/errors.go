package tools

import "errors"

var (
	ErrUnknownTool    = errors.New("unknown tool")
	ErrToolNotAllowed = errors.New("tool not available to players")
	ErrInvalidOption  = errors.New("invalid tool option")
)
