package domain

import "errors"

var (
	// ErrMalformedCorpus signals that the corpus source is not a valid
	// collection of endpoint objects.
	ErrMalformedCorpus = errors.New("malformed corpus")
	// ErrEmptyCorpus signals that no valid endpoint records remained after
	// filtering.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrIndexNotReady signals that no search index has been built yet.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrGenerationFailed signals an answer generator call failure.
	ErrGenerationFailed = errors.New("answer generation failed")
)
