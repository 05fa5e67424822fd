package protocol

import (
	"errors"

	"github.com/danmuck/tekctl/internal/protocol/tlv"
)

var (
	ErrOutOfRange          = tlv.ErrOutOfRange
	ErrUnknownParameter    = errors.New("protocol: unknown parameter")
	ErrDuplicateParameter  = errors.New("protocol: duplicate parameter")
	ErrTruncated           = errors.New("protocol: truncated data")
	ErrMessageTypeMismatch = errors.New("protocol: message type mismatch")
)
