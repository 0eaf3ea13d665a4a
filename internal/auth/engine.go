package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nextlevelbuilder/bountyclaw/internal/session"
)

const (
	// maxPollAttempts caps the polling loop regardless of interval
	// adjustments; there is no independent wall-clock timeout.
	maxPollAttempts = 60

	// defaultExpiresIn is assumed when the server omits expires_in.
	defaultExpiresIn = 3600

	// defaultPollInterval is used when the grant carries no interval.
	defaultPollInterval = 5 * time.Second

	// slowDownStep is added to the interval on each slow_down response,
	// cumulatively and without an upper cap.
	slowDownStep = 5 * time.Second
)

// Config configures the device-flow engine.
type Config struct {
	AuthBaseURL   string // e.g. https://www.bounty.new/api/auth
	DeviceAuthURL string // e.g. https://www.bounty.new/device
	ClientID      string
	Scope         string
}

// Engine executes the device-authorization state machine:
// Idle → CodeRequested → AwaitingUserAuthorization → terminal outcome.
// At most one login attempt may be in flight at a time.
type Engine struct {
	cfg      Config
	http     *http.Client
	sessions *session.Manager

	inFlight atomic.Bool

	// OnGrant, when set, is invoked with the grant before polling starts so
	// callers can surface the user code (terminal QR, status line).
	OnGrant func(*DeviceCodeGrant)

	// Injection points for tests. openURL failures are never fatal to the
	// flow; wait is the scheduled continuation between polls.
	openURL func(url string) error
	wait    func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// NewEngine creates a device-flow engine writing through the given session
// manager. openURL opens the verification page in the user's browser.
func NewEngine(cfg Config, sessions *session.Manager, openURL func(string) error) *Engine {
	if cfg.ClientID == "" {
		cfg.ClientID = "bountyclaw"
	}
	if cfg.Scope == "" {
		cfg.Scope = "openid profile email"
	}
	return &Engine{
		cfg:      cfg,
		http:     &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
		openURL:  openURL,
		wait:     waitTimer,
		now:      time.Now,
	}
}

func waitTimer(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// LoginInFlight reports whether a login attempt is currently polling.
func (e *Engine) LoginInFlight() bool {
	return e.inFlight.Load()
}

// RequestDeviceCode issues one device-code request. A non-2xx response fails
// with DeviceCodeRequestError; a transport failure wraps
// ErrNetworkUnreachable.
func (e *Engine) RequestDeviceCode(ctx context.Context) (*DeviceCodeGrant, error) {
	body, _ := json.Marshal(map[string]string{
		"client_id": e.cfg.ClientID,
		"scope":     e.cfg.Scope,
	})

	url := e.cfg.AuthBaseURL + "/device/code"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build device code request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetworkUnreachable, e.cfg.AuthBaseURL)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DeviceCodeRequestError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(respBody),
		}
	}

	var grant DeviceCodeGrant
	if err := json.Unmarshal(respBody, &grant); err != nil {
		return nil, fmt.Errorf("decode device code response: %w", err)
	}

	slog.Info("device code received", "userCode", grant.UserCode, "expiresIn", grant.ExpiresIn)
	return &grant, nil
}

// PollOnce performs a single token-endpoint poll and classifies the result.
// It never returns an error: transport failures and malformed bodies become
// transient outcomes that count toward the attempt budget.
func (e *Engine) PollOnce(ctx context.Context, deviceCode string) Outcome {
	body, _ := json.Marshal(map[string]string{
		"grant_type":  "urn:ietf:params:oauth:grant-type:device_code",
		"device_code": deviceCode,
		"client_id":   e.cfg.ClientID,
	})

	url := e.cfg.AuthBaseURL + "/device/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Outcome{Kind: OutcomeTransient, Description: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		slog.Warn("token poll transport error", "error", err)
		return Outcome{Kind: OutcomeTransient, Description: "cannot reach authorization server"}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var tr tokenResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &tr); err != nil {
			slog.Warn("token poll returned invalid JSON", "status", resp.StatusCode)
			tr = tokenResponse{
				Error:            "invalid_response",
				ErrorDescription: "server returned invalid JSON",
			}
		}
	}

	if resp.StatusCode >= 300 && tr.Error == "" && tr.AccessToken == "" {
		slog.Warn("token poll failed", "status", resp.StatusCode)
	}

	return classify(tr)
}

// InitiateLogin runs the full device flow: request a code, open the
// verification page (fire and forget), then poll until a terminal outcome.
// On success the session is persisted before InitiateLogin returns. The
// grant is ephemeral and discarded after the terminal outcome.
func (e *Engine) InitiateLogin(ctx context.Context) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrLoginInFlight
	}
	defer e.inFlight.Store(false)

	grant, err := e.RequestDeviceCode(ctx)
	if err != nil {
		return err
	}
	if e.OnGrant != nil {
		e.OnGrant(grant)
	}

	verificationURL := grant.VerificationURIComplete
	if verificationURL == "" {
		verificationURL = e.cfg.DeviceAuthURL + "?user_code=" + grant.UserCode
	}
	if err := e.openURL(verificationURL); err != nil {
		// Not fatal: the user can still open the URL by hand.
		slog.Warn("could not open browser", "url", verificationURL, "error", err)
	}

	slog.Info("awaiting user authorization", "userCode", grant.UserCode, "url", verificationURL)
	return e.pollUntilAuthorized(ctx, grant)
}

// pollUntilAuthorized drives the polling loop until a terminal outcome or
// the attempt budget runs out.
func (e *Engine) pollUntilAuthorized(ctx context.Context, grant *DeviceCodeGrant) error {
	interval := time.Duration(grant.Interval) * time.Second
	if interval <= 0 {
		interval = defaultPollInterval
	}

	for attempts := 0; attempts < maxPollAttempts; attempts++ {
		outcome := e.PollOnce(ctx, grant.DeviceCode)

		switch outcome.Kind {
		case OutcomeAuthorized:
			expiresIn := outcome.ExpiresIn
			if expiresIn <= 0 {
				expiresIn = defaultExpiresIn
			}
			s := session.Session{
				AccessToken: outcome.AccessToken,
				ExpiresAt:   e.now().UnixMilli() + int64(expiresIn)*1000,
			}
			if err := e.sessions.Save(s); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			slog.Info("device flow authorized", "attempts", attempts+1)
			return nil

		case OutcomeDenied:
			return ErrAccessDenied

		case OutcomeExpired:
			return ErrDeviceCodeExpired

		case OutcomeFatal:
			return &DeviceFlowError{Description: outcome.Description}

		case OutcomeSlowDown:
			interval += slowDownStep
			slog.Debug("slowing down polling", "interval", interval)

		case OutcomePending, OutcomeTransient:
			// keep polling
		}

		if err := e.wait(ctx, interval); err != nil {
			return err
		}
	}

	return ErrAuthorizationTimedOut
}
