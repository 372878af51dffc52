// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
)

var (
	ErrCommandRequired   = errors.New("command is required")
	ErrTimeoutRequired   = errors.New("timeout is required")
	ErrCLINotFound       = errors.New("cli tool not found")
	ErrLaunchFailed      = errors.New("could not launch cli tool")
	ErrTimedOut          = errors.New("cli tool exceeded its timeout")
	ErrCancelled         = errors.New("invocation was cancelled")
	ErrTerminationFailed = errors.New("could not confirm process termination")
	ErrVendorUnknown     = errors.New("unknown vendor")
	ErrRouterNotFound    = errors.New("router not found")
	ErrDuplicateRouter   = errors.New("router already exists")
	ErrRequestInvalid    = errors.New("invalid request")
	ErrPathNotAllowed    = errors.New("path not allowed")
	ErrStreamingLocal    = errors.New("streaming is not supported in local mode")
	ErrUpstreamNotSet    = errors.New("no upstream configured")
)
