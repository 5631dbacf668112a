package banner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// State is the banner lifecycle state
type State int

const (
	Hidden State = iota
	Visible
	Dismissed
)

func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case Dismissed:
		return "dismissed"
	default:
		return "hidden"
	}
}

// DismissedKey is the session storage key marking the banner as dismissed
const DismissedKey = "api-config-banner-dismissed"

const dismissedValue = "true"

// DefaultSetupPath is where "Configure Now" leads
const DefaultSetupPath = "/setup"

// Routes handling the banner actions
const (
	DismissPath   = "/banner/dismiss"
	ConfigurePath = "/banner/configure"
)

var (
	ErrStatusUnavailable = errors.New("configuration status unavailable")
	ErrStorage           = errors.New("banner storage failure")
)

// Storage is the session-scoped store holding the dismissal flag
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// StatusProvider reports whether all required API credentials are configured
type StatusProvider interface {
	AllRequired(ctx context.Context) (bool, error)
}

// Navigator moves the user to another page
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, path string) error

func (f NavigatorFunc) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Option configures a Banner
type Option func(*Banner)

// WithSetupPath overrides the configure destination
func WithSetupPath(path string) Option {
	return func(b *Banner) {
		if path != "" {
			b.setupPath = path
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Banner) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Banner warns about unconfigured API credentials until the session dismisses it
type Banner struct {
	storage   Storage
	status    StatusProvider
	nav       Navigator
	setupPath string
	logger    *slog.Logger

	initOnce sync.Once
	initErr  error

	mu    sync.Mutex
	state State
}

// New creates a banner in the Hidden state
func New(storage Storage, status StatusProvider, nav Navigator, opts ...Option) *Banner {
	b := &Banner{
		storage:   storage,
		status:    status,
		nav:       nav,
		setupPath: DefaultSetupPath,
		logger:    slog.Default(),
		state:     Hidden,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Initialize decides the initial state. It runs once; later calls return the first result.
// On error the banner stays Hidden.
func (b *Banner) Initialize(ctx context.Context) error {
	b.initOnce.Do(func() {
		b.initErr = b.initialize(ctx)
	})
	return b.initErr
}

func (b *Banner) initialize(ctx context.Context) error {
	flag, ok, err := b.storage.Get(ctx, DismissedKey)
	if err != nil {
		return fmt.Errorf("%w: reading dismissal flag: %w", ErrStorage, err)
	}
	if ok && flag == dismissedValue {
		b.setState(Dismissed)
		return nil
	}

	allRequired, err := b.status.AllRequired(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
	}
	if !allRequired {
		b.setState(Visible)
	}

	b.logger.Debug("api config banner initialized", "state", b.State().String(), "all_required", allRequired)
	return nil
}

// Dismiss persists the dismissal flag and hides the banner for the rest of the session.
// Repeated calls are harmless.
func (b *Banner) Dismiss(ctx context.Context) error {
	if err := b.storage.Set(ctx, DismissedKey, dismissedValue); err != nil {
		return fmt.Errorf("%w: writing dismissal flag: %w", ErrStorage, err)
	}
	b.setState(Dismissed)
	return nil
}

// Configure navigates to the setup page without touching the dismissal state
func (b *Banner) Configure(ctx context.Context) error {
	return b.nav.Navigate(ctx, b.setupPath)
}

// State returns the current state
func (b *Banner) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Visible reports whether the banner should be shown
func (b *Banner) Visible() bool {
	return b.State() == Visible
}

// SetupPath returns the configure destination
func (b *Banner) SetupPath() string {
	return b.setupPath
}

func (b *Banner) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}
