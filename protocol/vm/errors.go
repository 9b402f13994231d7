package vm

import "github.com/pkg/errors"

var (
	ErrAltStackUnderflow  = errors.New("alt stack underflow")
	ErrBadValue           = errors.New("bad value")
	ErrDataStackUnderflow = errors.New("data stack underflow")
	ErrDisallowedOpcode   = errors.New("disallowed opcode")
	ErrLongProgram        = errors.New("program size exceeds maximum")
	ErrRange              = errors.New("range error")
	ErrReturn             = errors.New("FAIL executed")
	ErrRunLimitExceeded   = errors.New("run limit exceeded")
	ErrShortProgram       = errors.New("unexpected end of program")
	ErrToken              = errors.New("unrecognized token")
	ErrUnexpected         = errors.New("unexpected error")
	ErrVerifyFailed       = errors.New("VERIFY failed")
)
