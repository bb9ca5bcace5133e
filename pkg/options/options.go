package options

import (
	"log/slog"
	"time"
)

const (
	// DefaultTimeout bounds a single tunneled round trip.
	DefaultTimeout = 20 * time.Second
	// DefaultConfirmationTimeout bounds the sign-finalize round trip,
	// which waits for on-device user confirmation.
	DefaultConfirmationTimeout = 30 * time.Second
	// DefaultAppID is the origin identifier sent with every request.
	DefaultAppID = "https://localhost"
)

type Options struct {
	Logger              *slog.Logger
	Timeout             time.Duration
	ConfirmationTimeout time.Duration
	AppID               string
}

type Option func(*Options)

func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

func WithConfirmationTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.ConfirmationTimeout = timeout
	}
}

func WithAppID(appID string) Option {
	return func(opts *Options) {
		opts.AppID = appID
	}
}

func NewOptions(opts ...Option) *Options {
	oo := &Options{
		Logger:              slog.Default(),
		Timeout:             DefaultTimeout,
		ConfirmationTimeout: DefaultConfirmationTimeout,
		AppID:               DefaultAppID,
	}

	for _, opt := range opts {
		opt(oo)
	}

	return oo
}
