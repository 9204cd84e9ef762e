package ecverify

// Status is the outcome of a verification
type Status int

const (
	// StatusOK means the signature is valid for the key and digest
	StatusOK Status = iota
	// StatusInvalidSignature means the signature was rejected
	StatusInvalidSignature
	// StatusInvalidParams means caller supplied data (usually the public
	// key) could not be used
	StatusInvalidParams
	// StatusFault means an internal consistency check failed. The result of
	// the call must not be trusted and the call must not be retried.
	StatusFault
	// StatusCanceled means the context ended before a decision was reached
	StatusCanceled
)

// statusInfo is one row of the read-only status table
type statusInfo struct {
	name    string
	message string
	fatal   bool
	kind    ErrorKind
}

var statusTable = [...]statusInfo{
	StatusOK:               {"OK", "signature verified", false, ""},
	StatusInvalidSignature: {"INVALID_SIGNATURE", "signature rejected", false, ErrInvalidSignature},
	StatusInvalidParams:    {"INVALID_PARAMS", "invalid input parameters", false, ErrInvalidParams},
	StatusFault:            {"FAULT", "internal fault detected", true, ErrFaultDetected},
	StatusCanceled:         {"CANCELED", "verification canceled", false, ErrCanceled},
}

func (s Status) info() statusInfo {
	if s < 0 || int(s) >= len(statusTable) {
		return statusInfo{name: "UNKNOWN", message: "unknown status", fatal: true, kind: ErrFaultDetected}
	}
	return statusTable[s]
}

// String returns the status name
func (s Status) String() string { return s.info().name }

// Message returns the human-readable description of the status
func (s Status) Message() string { return s.info().message }

// Fatal reports whether the status signals a fault. Fatal outcomes are
// terminal and never retried.
func (s Status) Fatal() bool { return s.info().fatal }

// Result is returned by Verify. R holds the recovered r, ByteLenN bytes long,
// and is only set when Status is StatusOK.
type Result struct {
	Status Status
	R      []byte
}

// statusError builds the error returned alongside a non-OK status
func statusError(s Status, desc string) error {
	if s == StatusOK {
		return nil
	}
	if desc == "" {
		desc = s.Message()
	}
	return makeError(s.info().kind, desc)
}
