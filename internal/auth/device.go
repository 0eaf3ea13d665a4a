// Package auth drives the OAuth 2.0 Device Authorization Grant (RFC 8628)
// against the bounty.new auth endpoints. The engine never blocks the host
// beyond its own polling loop, never refreshes tokens (they are discarded on
// expiry), and never leaves a half-written session behind.
package auth

import (
	"errors"
	"fmt"
)

// DeviceCodeGrant is the ephemeral result of one device-code request. It
// lives only for the duration of a single login attempt and is never
// persisted.
type DeviceCodeGrant struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete,omitempty"`
	ExpiresIn               int    `json:"expires_in"`
	Interval                int    `json:"interval"`
}

// tokenResponse is one token-endpoint poll result as received on the wire.
type tokenResponse struct {
	AccessToken      string `json:"access_token,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	ExpiresIn        int    `json:"expires_in,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// OutcomeKind tags a classified poll result.
type OutcomeKind int

const (
	// OutcomePending means authorization has not happened yet; keep polling
	// at the current interval.
	OutcomePending OutcomeKind = iota
	// OutcomeSlowDown means the server asked for a longer interval; add 5s
	// and keep polling.
	OutcomeSlowDown
	// OutcomeDenied means the user rejected the authorization. Terminal.
	OutcomeDenied
	// OutcomeExpired means the device code expired before the user
	// authorized. Terminal.
	OutcomeExpired
	// OutcomeAuthorized carries the issued access token. Terminal.
	OutcomeAuthorized
	// OutcomeTransient covers network blips and malformed bodies; the
	// attempt counts toward the budget but the loop continues.
	OutcomeTransient
	// OutcomeFatal covers any other named OAuth error. Terminal.
	OutcomeFatal
)

// Outcome is one classified poll of the token endpoint.
type Outcome struct {
	Kind        OutcomeKind
	AccessToken string // set when Kind == OutcomeAuthorized
	ExpiresIn   int    // seconds; 0 means the server omitted it
	Description string // server-supplied or synthetic detail
}

var (
	// ErrNetworkUnreachable wraps transport failures of the device-code
	// request (polling transport failures are transient, not fatal).
	ErrNetworkUnreachable = errors.New("cannot reach authorization server")

	// ErrAccessDenied is the terminal outcome when the user rejects the
	// authorization request.
	ErrAccessDenied = errors.New("access denied by user")

	// ErrDeviceCodeExpired is the terminal outcome when the device code
	// expires before the user authorizes.
	ErrDeviceCodeExpired = errors.New("device code expired")

	// ErrAuthorizationTimedOut is returned when the polling budget is
	// exhausted without a terminal outcome.
	ErrAuthorizationTimedOut = errors.New("authorization timed out")

	// ErrLoginInFlight is returned when a login is started while another
	// one is still polling.
	ErrLoginInFlight = errors.New("a login attempt is already in progress")
)

// DeviceCodeRequestError reports a non-2xx response from the device-code
// endpoint.
type DeviceCodeRequestError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *DeviceCodeRequestError) Error() string {
	msg := fmt.Sprintf("device code request failed (%d %s)", e.Status, e.StatusText)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// DeviceFlowError reports a terminal OAuth error outside the named set.
type DeviceFlowError struct {
	Description string
}

func (e *DeviceFlowError) Error() string {
	if e.Description == "" {
		return "device flow failed: unknown error"
	}
	return "device flow failed: " + e.Description
}

// classify maps one token response onto an Outcome.
func classify(tr tokenResponse) Outcome {
	if tr.AccessToken != "" {
		return Outcome{Kind: OutcomeAuthorized, AccessToken: tr.AccessToken, ExpiresIn: tr.ExpiresIn}
	}

	switch tr.Error {
	case "":
		// Neither a token nor an error: the server answered with something
		// unusable. Count the attempt and keep going.
		return Outcome{Kind: OutcomeTransient, Description: "empty token response"}
	case "authorization_pending":
		return Outcome{Kind: OutcomePending}
	case "slow_down":
		return Outcome{Kind: OutcomeSlowDown}
	case "access_denied":
		return Outcome{Kind: OutcomeDenied}
	case "expired_token":
		return Outcome{Kind: OutcomeExpired}
	case "network_error", "invalid_response":
		return Outcome{Kind: OutcomeTransient, Description: tr.ErrorDescription}
	default:
		desc := tr.ErrorDescription
		if desc == "" {
			desc = tr.Error
		}
		return Outcome{Kind: OutcomeFatal, Description: desc}
	}
}
