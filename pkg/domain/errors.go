package domain

import "errors"

var (
	ErrConfig         = errors.New("configuration error")
	ErrNotFound       = errors.New("file not found")
	ErrNoDestinations = errors.New("no destinations")
	ErrIO             = errors.New("i/o error")
	ErrDeliveryFailed = errors.New("delivery failed")
)
