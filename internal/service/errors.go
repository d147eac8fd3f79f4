// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

// Sentinel errors returned by the services. Handlers map them to flash
// messages with errors.Is.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
)

// Product validation messages, shown to the admin verbatim.
const (
	MsgFieldsRequired = "All fields are required."
	MsgPriceNotNumber = "Price must be a number."
	MsgPriceNotAbove0 = "Price must be greater than zero."
	MsgInvalidImage   = "Invalid image format."
	MsgMarkupInField  = "Product fields must not contain HTML markup."
)

// ValidationError reports rejected product input. Message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
