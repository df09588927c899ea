package square

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sqclient "github.com/square/square-go-sdk/client"
	sqoption "github.com/square/square-go-sdk/option"

	"github.com/rmjobsites/jobsites-api/pkg/config"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
)

var (
	errAccessTokenRequired = errors.New("square access token is required")
	errLocationRequired    = errors.New("square location id is required")
	errInvalidSquareEnv    = fmt.Errorf("square environment must be %q or %q", config.SquareEnvSandbox, config.SquareEnvProduction)
	errLoggerRequired      = errors.New("square logger is required")
)

var baseURLs = map[string]string{
	config.SquareEnvSandbox:    "https://connect.squareupsandbox.com",
	config.SquareEnvProduction: "https://connect.squareup.com",
}

// Observer receives the outcome of each gateway operation.
type Observer interface {
	ObserveGatewayCall(op, outcome string, elapsed time.Duration)
}

// Client exposes Square primitives with centralized auth, logging, idempotency, retries and
// error mapping. It is constructed once and injected; there is no package-level instance.
type Client struct {
	sdk           *sqclient.Client
	environment   string
	locationID    string
	applicationID string
	baseURL       string
	timeout       time.Duration
	maxRetries    uint64
	retryBase     time.Duration
	logger        *logger.Logger
	observer      Observer
}

// Option customizes a Client.
type Option func(*Client)

// WithObserver reports per-operation timings, typically to prometheus.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithBaseURL points the SDK at another host. Used against local fakes.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithRetryBase overrides the first backoff delay.
func WithRetryBase(d time.Duration) Option {
	return func(c *Client) { c.retryBase = d }
}

// NewClient initializes the Square wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.SquareConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Env)
	if err != nil {
		return nil, err
	}
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}
	locationID := strings.TrimSpace(cfg.LocationID)
	if locationID == "" {
		return nil, errLocationRequired
	}

	c := &Client{
		environment:   env,
		locationID:    locationID,
		applicationID: strings.TrimSpace(cfg.ApplicationID),
		baseURL:       baseURLs[env],
		timeout:       cfg.Timeout,
		maxRetries:    cfg.MaxRetries,
		retryBase:     retryBaseDelay,
		logger:        logg,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Retries are driven here so every attempt shares one idempotency key.
	c.sdk = sqclient.NewClient(
		sqoption.WithBaseURL(c.baseURL),
		sqoption.WithToken(accessToken),
		sqoption.WithMaxAttempts(1),
	)

	logg.Info(logg.WithFields(ctx, map[string]any{"environment": env, "location_id": locationID}), "square client initialized")
	return c, nil
}

// Environment reports the normalized Square environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// LocationID is the location every order and payment is scoped to.
func (c *Client) LocationID() string {
	if c == nil {
		return ""
	}
	return c.locationID
}

// ApplicationID is the public Web Payments SDK application id.
func (c *Client) ApplicationID() string {
	if c == nil {
		return ""
	}
	return c.applicationID
}

// NewIdempotencyKey returns a unique key for Square operations.
func (c *Client) NewIdempotencyKey(prefix string) string {
	key := strings.TrimSpace(prefix)
	if key == "" {
		key = "jobsites"
	}
	return fmt.Sprintf("%s-%s", key, uuid.NewString())
}

func (c *Client) ensureIdempotencyKey(prefix, provided string) string {
	if strings.TrimSpace(provided) != "" {
		return provided
	}
	return c.NewIdempotencyKey(prefix)
}

// call wraps one logical operation: request/response logging, retries, metrics and
// translation into typed errors.
func call[T any](ctx context.Context, c *Client, op string, fields map[string]any, fn func(context.Context) (T, error)) (T, error) {
	c.log(ctx, "request", op, fields)
	started := time.Now()
	out, err := do(ctx, c, op, fn)
	if err != nil {
		gwErr := AsGatewayError(err)
		if gwErr == nil && pkgerrors.As(err) != nil {
			c.observe(op, "local_error", time.Since(started))
			return out, err
		}
		if gwErr == nil {
			gwErr = newGatewayError(op, err)
		}
		c.observe(op, outcomeFor(gwErr), time.Since(started))
		return out, mapSquareError(gwErr)
	}
	c.observe(op, "ok", time.Since(started))
	return out, nil
}

func outcomeFor(gwErr *GatewayError) string {
	switch {
	case gwErr.Transport():
		return "transport_error"
	case gwErr.Retryable():
		return "server_error"
	default:
		return "rejected"
	}
}

func (c *Client) observe(op, outcome string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveGatewayCall(op, outcome, elapsed)
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Warn(ctx, fmt.Sprintf("square %s failed", op))
	default:
		c.logger.Info(ctx, fmt.Sprintf("square %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"card", "nonce", "token", "source", "cvv", "cvc", "secret", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = config.SquareEnvSandbox
	}
	switch env {
	case config.SquareEnvSandbox, config.SquareEnvProduction:
		return env, nil
	default:
		return "", errInvalidSquareEnv
	}
}
