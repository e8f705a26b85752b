package multisig

import "github.com/Laisky/errors/v2"

var (
	// ErrInvalidArgument malformed call.
	//
	// returned instead of false whenever the inputs are of the wrong shape,
	// e.g. digest of wrong length or a non-positive threshold.
	// a signature that merely fails to verify is reported as false, nil.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSignerCollision two or more tags passed to Combine share one index.
	//
	// errors.Is(ErrSignerCollision, ErrInvalidArgument) is true.
	ErrSignerCollision error = &argumentError{msg: "signer collision"}
)

type argumentError struct {
	msg string
}

func (e *argumentError) Error() string {
	return e.msg
}

func (e *argumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
