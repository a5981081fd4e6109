package formstore

import "errors"

var (
	ErrNotFound          = errors.New("form definition not found")
	ErrInvalidName       = errors.New("invalid form name")
	ErrInvalidDefinition = errors.New("invalid form definition")
	ErrEncodeDefinition  = errors.New("failed to encode form definition")
	ErrDecodeDefinition  = errors.New("failed to decode form definition")
	ErrStoreUnavailable  = errors.New("form store unavailable")
	ErrUnknownBackend    = errors.New("unknown form store backend")

	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)
