// Package fserrors defines the tagged error kinds used throughout the
// hfdc library, and helpers for constructing and testing for them.
package fserrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// --------------------- Invalid argument

type invalidArgument string

// InvalidArgumentI is the tag interface used to mark InvalidArgument errors.
type InvalidArgumentI interface {
	IsInvalidArgument()
}

var _ InvalidArgumentI = invalidArgument("test")

func (e invalidArgument) Error() string       { return string(e) }
func (e invalidArgument) IsInvalidArgument()  {}

// InvalidArgumentf builds an InvalidArgument error, wrapped so callers
// can still retrieve a stack trace via errors.Cause/%+v.
func InvalidArgumentf(format string, a ...interface{}) error {
	return errors.WithStack(invalidArgument(fmt.Sprintf(format, a...)))
}

// IsInvalidArgument returns true if err (or its Cause) is an InvalidArgument error.
func IsInvalidArgument(err error) bool {
	_, ok := errors.Cause(err).(InvalidArgumentI)
	return ok
}

// --------------------- Out of bounds

type outOfBounds string

// OutOfBoundsI is the tag interface used to mark OutOfBounds errors.
type OutOfBoundsI interface {
	IsOutOfBounds()
}

var _ OutOfBoundsI = outOfBounds("test")

func (e outOfBounds) Error() string  { return string(e) }
func (e outOfBounds) IsOutOfBounds() {}

// OutOfBoundsf builds an OutOfBounds error.
func OutOfBoundsf(format string, a ...interface{}) error {
	return errors.WithStack(outOfBounds(fmt.Sprintf(format, a...)))
}

// IsOutOfBounds returns true if err (or its Cause) is an OutOfBounds error.
func IsOutOfBounds(err error) bool {
	_, ok := errors.Cause(err).(OutOfBoundsI)
	return ok
}

// --------------------- Out of space

type outOfSpace string

// OutOfSpaceI is the tag interface used to mark OutOfSpace errors.
type OutOfSpaceI interface {
	IsOutOfSpace()
}

var _ OutOfSpaceI = outOfSpace("test")

func (e outOfSpace) Error() string  { return string(e) }
func (e outOfSpace) IsOutOfSpace() {}

// OutOfSpacef builds an OutOfSpace error.
func OutOfSpacef(format string, a ...interface{}) error {
	return errors.WithStack(outOfSpace(fmt.Sprintf(format, a...)))
}

// IsOutOfSpace returns true if err (or its Cause) is an OutOfSpace error.
func IsOutOfSpace(err error) bool {
	_, ok := errors.Cause(err).(OutOfSpaceI)
	return ok
}

// --------------------- Not found

type notFound string

// NotFoundI is the tag interface used to mark NotFound errors.
type NotFoundI interface {
	IsNotFound()
}

var _ NotFoundI = notFound("test")

func (e notFound) Error() string { return string(e) }
func (e notFound) IsNotFound()   {}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, a ...interface{}) error {
	return errors.WithStack(notFound(fmt.Sprintf(format, a...)))
}

// IsNotFound returns true if err (or its Cause) is a NotFound error.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(NotFoundI)
	return ok
}

// --------------------- Already exists

type alreadyExists string

// AlreadyExistsI is the tag interface used to mark AlreadyExists errors.
type AlreadyExistsI interface {
	IsAlreadyExists()
}

var _ AlreadyExistsI = alreadyExists("test")

func (e alreadyExists) Error() string   { return string(e) }
func (e alreadyExists) IsAlreadyExists() {}

// AlreadyExistsf builds an AlreadyExists error.
func AlreadyExistsf(format string, a ...interface{}) error {
	return errors.WithStack(alreadyExists(fmt.Sprintf(format, a...)))
}

// IsAlreadyExists returns true if err (or its Cause) is an AlreadyExists error.
func IsAlreadyExists(err error) bool {
	_, ok := errors.Cause(err).(AlreadyExistsI)
	return ok
}

// --------------------- Corrupt

type corrupt string

// CorruptI is the tag interface used to mark Corrupt errors.
type CorruptI interface {
	IsCorrupt()
}

var _ CorruptI = corrupt("test")

func (e corrupt) Error() string { return string(e) }
func (e corrupt) IsCorrupt()    {}

// Corruptf builds a Corrupt error.
func Corruptf(format string, a ...interface{}) error {
	return errors.WithStack(corrupt(fmt.Sprintf(format, a...)))
}

// IsCorrupt returns true if err (or its Cause) is a Corrupt error.
func IsCorrupt(err error) bool {
	_, ok := errors.Cause(err).(CorruptI)
	return ok
}
