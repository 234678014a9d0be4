// Copyright 2025 The PIMHAL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pimhal

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// StatusCode classifies a failure surfaced by the HAL. Failures are never
// retried internally; callers must treat any non-OK result as fatal to the
// in-flight operation.
type StatusCode int

const (
	// OK is the zero code; it never appears on a non-nil error.
	OK StatusCode = iota
	// InvalidArgument marks malformed inputs, such as a short or
	// structurally broken executable container.
	InvalidArgument
	// FailedPrecondition marks cross-object mismatches, such as an
	// executable whose entry-point count differs from the caller's layout.
	FailedPrecondition
	// ResourceExhausted marks host allocation failure for a core object.
	ResourceExhausted
	// Unimplemented marks surface the device model does not provide.
	Unimplemented
	// Unavailable marks paths the device cannot serve, such as importing
	// external buffers.
	Unavailable
	// NotFound marks unknown capability query keys.
	NotFound
)

// String returns the canonical name of the code.
func (c StatusCode) String() string {
	switch c {
	case OK:
		return "OK"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case FailedPrecondition:
		return "FAILED_PRECONDITION"
	case ResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	case Unimplemented:
		return "UNIMPLEMENTED"
	case Unavailable:
		return "UNAVAILABLE"
	case NotFound:
		return "NOT_FOUND"
	}
	return "UNKNOWN"
}

type statusError struct {
	code StatusCode
	err  error
}

func (e *statusError) Error() string {
	return e.code.String() + ": " + e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

// StatusCode returns the code carried by the error.
func (e *statusError) StatusCode() StatusCode { return e.code }

// Errorf returns an error tagged with the given status code.
func Errorf(code StatusCode, format string, args ...any) error {
	return &statusError{code: code, err: errors.Errorf(format, args...)}
}

// WrapStatus tags an existing error with a status code, keeping its cause.
func WrapStatus(code StatusCode, err error, message string) error {
	if err == nil {
		return nil
	}
	return &statusError{code: code, err: errors.Wrap(err, message)}
}

// Code extracts the status code from an error chain. Untagged errors
// report OK for nil and Unavailable otherwise.
func Code(err error) StatusCode {
	if err == nil {
		return OK
	}
	var tagged *statusError
	if stderrors.As(err, &tagged) {
		return tagged.code
	}
	return Unavailable
}

// IsInvalidArgument reports whether err carries InvalidArgument.
func IsInvalidArgument(err error) bool { return Code(err) == InvalidArgument }

// IsFailedPrecondition reports whether err carries FailedPrecondition.
func IsFailedPrecondition(err error) bool { return Code(err) == FailedPrecondition }

// IsUnimplemented reports whether err carries Unimplemented.
func IsUnimplemented(err error) bool { return Code(err) == Unimplemented }

// IsUnavailable reports whether err carries Unavailable.
func IsUnavailable(err error) bool { return Code(err) == Unavailable }

// IsNotFound reports whether err carries NotFound.
func IsNotFound(err error) bool { return Code(err) == NotFound }
