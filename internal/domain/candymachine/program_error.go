package candymachine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Candy machine v1 custom program error codes.
const (
	CodeIncorrectOwner         = 300
	CodeUninitialized          = 301
	CodeMintMismatch           = 302
	CodeIndexGreaterThanLength = 303
	CodeNumericalOverflow      = 305
	CodeNotEnoughTokens        = 308
	CodeNotEnoughSOL           = 309
	CodeTokenTransferFailed    = 310
	CodeCandyMachineEmpty      = 311
	CodeCandyMachineNotLiveYet = 312
)

// ProgramError is a custom error returned by the candy machine program.
type ProgramError struct {
	Code int
	Msg  string
}

func (e *ProgramError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("candymachine: program error %d (0x%x): %s", e.Code, e.Code, e.Msg)
	}
	return fmt.Sprintf("candymachine: program error %d (0x%x)", e.Code, e.Code)
}

var customErrRe = regexp.MustCompile(`(?i)custom program error:\s*0x([0-9a-f]+)`)

// AsProgramError extracts a program error from err.
// A structured *ProgramError in the chain wins; otherwise the hex code of a
// "custom program error: 0x…" message (simulation / preflight failures) is used.
func AsProgramError(err error) (*ProgramError, bool) {
	if err == nil {
		return nil, false
	}
	var pe *ProgramError
	if errors.As(err, &pe) && pe != nil {
		return pe, true
	}
	return ParseCustomError(err.Error())
}

// ParseCustomError finds "custom program error: 0x137" in msg.
func ParseCustomError(msg string) (*ProgramError, bool) {
	m := customErrRe.FindStringSubmatch(msg)
	if len(m) != 2 {
		return nil, false
	}
	code, err := strconv.ParseInt(m[1], 16, 32)
	if err != nil {
		return nil, false
	}
	return &ProgramError{Code: int(code)}, true
}
