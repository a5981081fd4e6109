package i18n

import "errors"

var (
	ErrNilAdapter           = errors.New("translation adapter is nil")
	ErrNilTranslator        = errors.New("translator is nil")
	ErrEmptyLanguage        = errors.New("empty language code")
	ErrInvalidLanguage      = errors.New("invalid language tag")
	ErrLanguageNotSupported = errors.New("language not supported")

	ErrFailedToParseJSON = errors.New("failed to parse JSON content")
	ErrFailedToParseYAML = errors.New("failed to parse YAML content")
	ErrInvalidStructure  = errors.New("catalog must map languages to key trees")

	ErrLoadingCancelled  = errors.New("loading translations cancelled")
	ErrFailedToReadFile  = errors.New("failed to read translation file")
	ErrFailedToParseFile = errors.New("failed to parse translation file")
	ErrFailedToReadDir   = errors.New("failed to read translation directory")
	ErrNoTranslations    = errors.New("no translation files found")
	ErrWatchFailed       = errors.New("failed to watch translation directory")
)
