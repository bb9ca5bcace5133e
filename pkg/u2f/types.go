// Package u2f defines the second-factor transport contract the wallet
// client tunnels through, together with the request/response shapes of
// the U2F sign primitive.
package u2f

import (
	"encoding/base64"
	"strings"
	"time"
)

// Version is the protocol version tag carried by every sign request.
const Version = "U2F_V2"

// SignRequest is a single U2F authentication request. Binary fields are
// base64url without padding. The JSON tags match the message format of
// external U2F helpers (browser ports, agent bridges).
type SignRequest struct {
	Version   string `json:"version"`
	Challenge string `json:"challenge"`
	KeyHandle string `json:"keyHandle"`
	AppID     string `json:"appId"`
}

// SignResponse is the transport's answer to a sign request.
type SignResponse struct {
	KeyHandle     string `json:"keyHandle,omitempty"`
	SignatureData string `json:"signatureData"`
	ClientData    string `json:"clientData,omitempty"`
}

// Transport is the second-factor round-trip primitive. Request blocks
// until a response arrives or the timeout elapses; implementations do
// not retry.
type Transport interface {
	IsAvailable() bool
	Request(reqs []SignRequest, timeout time.Duration) (*SignResponse, error)
}

// EncodeField encodes a binary request field as unpadded base64url.
func EncodeField(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeField decodes a base64url field, tolerating padding some
// transports restore on receive.
func DecodeField(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
