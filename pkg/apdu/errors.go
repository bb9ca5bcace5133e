package apdu

import "errors"

// ErrMalformedResponse reports a response frame too short to carry a
// status word, or whose payload length differs from the expected one.
var ErrMalformedResponse = errors.New("apdu: malformed response frame")
