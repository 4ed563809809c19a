package main

import "errors"

var (
	ErrNetwork         = errors.New("fpl api unreachable")
	ErrParse           = errors.New("fpl api returned malformed data")
	ErrUnknownField    = errors.New("unknown field")
	ErrNotNumeric      = errors.New("field is not numeric")
	ErrUnknownPosition = errors.New("unknown position")
	ErrNoPoints        = errors.New("nothing to plot")
)
