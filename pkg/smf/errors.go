package smf

import "errors"

var (
	ErrInvalidMagic     = errors.New("smf: invalid magic")
	ErrUnsupportedMajor = errors.New("smf: unsupported major version")
	ErrCorruptFile      = errors.New("smf: corrupt file")
)
