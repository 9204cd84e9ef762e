package ecverify

// ErrorKind identifies a kind of error. It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidSignature is returned when a signature is out of range, the
	// recomputed point is the neutral point, or the recovered R does not match
	// the signature's r.
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrInvalidParams is returned when caller supplied data is unusable: a
	// public key that is not on the curve, or inputs of the wrong length.
	ErrInvalidParams = ErrorKind("ErrInvalidParams")

	// ErrFaultDetected is returned when an internal consistency check fails.
	// It is never downgraded to ErrInvalidSignature and must not be retried.
	ErrFaultDetected = ErrorKind("ErrFaultDetected")

	// ErrCanceled is returned when the context ended before verification
	// finished.
	ErrCanceled = ErrorKind("ErrCanceled")

	// ErrNotInvertible is returned when a value shares a factor with the
	// modulus.
	ErrNotInvertible = ErrorKind("ErrNotInvertible")

	// ErrNotDivisible is returned by ExactDivide when the divisor does not
	// divide the dividend.
	ErrNotDivisible = ErrorKind("ErrNotDivisible")

	// ErrInvalidModulus is returned for a zero, unit or oversized modulus,
	// or when a routine needs the other parity.
	ErrInvalidModulus = ErrorKind("ErrInvalidModulus")

	// ErrInvalidLength is returned when a byte string has the wrong length
	// for the curve it is used with.
	ErrInvalidLength = ErrorKind("ErrInvalidLength")

	// ErrUnknownCurve is returned when a curve name is not registered.
	ErrUnknownCurve = ErrorKind("ErrUnknownCurve")

	// ErrInvalidPrivateKey is returned when a private scalar is zero or not
	// below the group order.
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrPointNotOnCurve is returned when a point does not satisfy the curve
	// equation or has a coordinate not below p.
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrPointAtInfinity is returned when a scalar multiplication ends at the
	// neutral point, which has no affine encoding.
	ErrPointAtInfinity = ErrorKind("ErrPointAtInfinity")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to ECDSA verification and the arithmetic
// under it. It has full support for errors.Is and errors.As, so the caller can
// ascertain the specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
