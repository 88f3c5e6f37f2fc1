package binder

import "errors"

var (
	// ErrBinderNotApplicable tells the caller to try the next binder.
	ErrBinderNotApplicable = errors.New("binder.not_applicable")

	ErrInvalidTarget = errors.New("binder.invalid_target")
	ErrInvalidForm   = errors.New("binder.invalid_form")
	ErrInvalidQuery  = errors.New("binder.invalid_query")
	ErrInvalidPath   = errors.New("binder.invalid_path")
)
