package cgroup

import "fmt"

// FileError reports a cgroupfs directory or file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("file %s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// ParseError reports a stat line that is not a key/value pair.
type ParseError struct {
	Path string
	Line string
}

func (e *ParseError) Error() string { return fmt.Sprintf("failed to parse %s: %q", e.Path, e.Line) }

// ParseIntError reports a stat value that is not an unsigned integer.
type ParseIntError struct {
	Path string
	Err  error
}

func (e *ParseIntError) Error() string {
	return fmt.Sprintf("failed to parse a number in %s: %v", e.Path, e.Err)
}
func (e *ParseIntError) Unwrap() error { return e.Err }

// MissingFieldError reports a stat file without the requested key.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %s not found in %s", e.Field, e.Path)
}
