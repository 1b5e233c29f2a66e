package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var ErrDestinationExists = errors.New("destination already exists")

// Observer is notified after every outcome. Errors are logged by the
// handler and never change the outcome.
type Observer interface {
	Observe(ctx context.Context, attempt *Attempt, outcome *Outcome) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, attempt *Attempt, outcome *Outcome) error

func (f ObserverFunc) Observe(ctx context.Context, attempt *Attempt, outcome *Outcome) error {
	return f(ctx, attempt, outcome)
}

// Handler validates upload attempts and stores accepted ones in a
// single directory.
type Handler struct {
	dir       string
	policy    Policy
	resolve   PathResolver
	observers []Observer
	logger    *slog.Logger
}

type Option func(*Handler)

func WithPathResolver(resolve PathResolver) Option {
	return func(h *Handler) {
		h.resolve = resolve
	}
}

func WithObservers(observers ...Observer) Option {
	return func(h *Handler) {
		h.observers = append(h.observers, observers...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a handler storing into dir.
func NewHandler(dir string, policy Policy, opts ...Option) *Handler {
	h := &Handler{
		dir:     dir,
		policy:  policy,
		resolve: VerbatimPath,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Dir returns the storage directory.
func (h *Handler) Dir() string {
	return h.dir
}

// EnsureDirectory creates the storage directory if it is missing.
func (h *Handler) EnsureDirectory() error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// Handle runs one attempt to a terminal outcome. A nil attempt means no
// upload was part of the request: nothing happens and the outcome is nil.
// The returned error is reserved for I/O failures while writing.
func (h *Handler) Handle(ctx context.Context, attempt *Attempt) (*Outcome, error) {
	if attempt == nil {
		return nil, nil
	}

	outcome, err := h.decide(attempt)
	if err != nil {
		return nil, err
	}

	h.notify(ctx, attempt, outcome)
	return outcome, nil
}

func (h *Handler) decide(attempt *Attempt) (*Outcome, error) {
	if !h.policy.Accepts(attempt) {
		return Rejected(ReasonInvalid), nil
	}

	if attempt.TransferError != TransferOK {
		return TransferFailed(attempt.TransferError), nil
	}

	dest, err := h.resolve(h.dir, attempt.OriginalFileName)
	if errors.Is(err, ErrUnsafeName) {
		return Rejected(ReasonUnsafeName), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to resolve destination: %w", err)
	}

	err = h.store(dest, attempt)
	if errors.Is(err, ErrDestinationExists) {
		return AlreadyExists(attempt.OriginalFileName), nil
	} else if err != nil {
		return nil, err
	}

	return Stored(dest), nil
}

// store creates dest exclusively and copies the attempt's content into it.
// The existence check and the create are one operation, so two concurrent
// attempts on the same name cannot both succeed.
func (h *Handler) store(dest string, attempt *Attempt) error {
	if attempt.Open == nil {
		return errors.New("attempt has no content")
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return ErrDestinationExists
	} else if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if err := copyContent(out, attempt); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}

	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to close destination: %w", err)
	}

	return nil
}

func copyContent(dst io.Writer, attempt *Attempt) error {
	src, err := attempt.Open()
	if err != nil {
		return fmt.Errorf("failed to open received content: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write destination: %w", err)
	}
	return nil
}

func (h *Handler) notify(ctx context.Context, attempt *Attempt, outcome *Outcome) {
	for _, o := range h.observers {
		if err := o.Observe(ctx, attempt, outcome); err != nil {
			h.logger.Error("upload observer failed",
				slog.String("outcome", string(outcome.Kind)),
				slog.String("request_id", attempt.Origin.RequestID),
				slog.String("error", err.Error()))
		}
	}
}
