package services

import "errors"

// Sentinel errors shared across services. Controllers map these onto HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrUnknownMenuItem    = errors.New("unknown menu item")
	ErrItemUnavailable    = errors.New("menu item unavailable")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")
	ErrUnsupportedType    = errors.New("unsupported document type")
)
