package ratio

import (
	"errors"
	"fmt"
)

// ErrNotFound classifies every "data absent" failure; callers map it to 404
var ErrNotFound = errors.New("not found")

var (
	ErrNoData        = fmt.Errorf("%w: no financial statement data", ErrNotFound)
	ErrNoYears       = fmt.Errorf("%w: no analyzable fiscal years", ErrNotFound)
	ErrNoCompanyCode = fmt.Errorf("%w: statement rows carry no company code", ErrNotFound)
)

// ErrLengthMismatch is an internal invariant violation in response assembly
var ErrLengthMismatch = errors.New("response series length mismatch")
