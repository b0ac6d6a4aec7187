package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable and allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

const (
	OK             Code = "ok"
	InvalidParams  Code = "invalid_params"
	InvalidPayload Code = "invalid_payload"
	Unsupported    Code = "unsupported"
	NotReady       Code = "not_ready"

	UnknownPin    Code = "unknown_pin"
	PinInUse      Code = "pin_in_use"
	PinReserved   Code = "pin_reserved"
	InvalidTiming Code = "invalid_timing"

	UnknownRevision Code = "unknown_revision"
	Timeout         Code = "timeout"

	Error Code = "error" // generic fallback
)

// E carries a Code together with the operation and a short message.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New returns an *E for op with code c and message msg.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		if inner := u.Unwrap(); inner != nil {
			return Of(inner)
		}
	}
	return Error
}
