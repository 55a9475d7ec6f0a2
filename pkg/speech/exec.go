package speech

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"
	"time"
)

// TextPlaceholder marks where the phrase goes in configured args.
// Args without a placeholder get the phrase appended.
const TextPlaceholder = "{text}"

// DefaultCommand returns the platform synthesizer: say on macOS,
// espeak-ng elsewhere.
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak-ng"
}

// Config holds exec engine configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Command is the synthesizer binary, e.g. espeak-ng or say.
	Command string

	// Args are passed ahead of the phrase. A {text} element is
	// replaced by the phrase instead.
	Args []string

	// Timeout bounds a single playback. Zero means no limit.
	Timeout time.Duration

	// Logger for engine diagnostics.
	Logger *slog.Logger
}

// Option is a functional option for configuring engines.
type Option func(*Config)

// WithCommand sets the synthesizer binary.
func WithCommand(command string) Option {
	return func(c *Config) {
		c.Command = command
	}
}

// WithArgs sets the arguments passed to the synthesizer.
func WithArgs(args ...string) Option {
	return func(c *Config) {
		c.Args = args
	}
}

// WithTimeout bounds a single playback invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLogger sets the structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Command: DefaultCommand(),
		Timeout: 30 * time.Second,
		Logger:  slog.Default(),
	}
}

// ExecEngine speaks by running an external synthesizer once per
// phrase. Playback is synchronous; serialization across phrases is
// the Announcer's job.
type ExecEngine struct {
	cfg Config
}

// NewExec creates an exec engine from the given options.
func NewExec(opts ...Option) (*ExecEngine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Command == "" {
		return nil, ErrNoCommand
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ExecEngine{cfg: *cfg}, nil
}

// Speak runs the synthesizer command for one phrase and waits for it
// to exit.
func (e *ExecEngine) Speak(ctx context.Context, text string) error {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.cfg.Command, e.argv(text)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.cfg.Logger.Warn("synthesizer failed",
			"command", e.cfg.Command,
			"error", err,
			"output", string(out),
		)
		return WrapError(e.cfg.Command, err)
	}
	return nil
}

// Close is a no-op; the engine holds no resources between phrases.
func (e *ExecEngine) Close() error {
	return nil
}

// argv builds the argument list for one phrase.
func (e *ExecEngine) argv(text string) []string {
	args := make([]string, 0, len(e.cfg.Args)+1)
	replaced := false
	for _, a := range e.cfg.Args {
		if a == TextPlaceholder {
			args = append(args, text)
			replaced = true
			continue
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, text)
	}
	return args
}

// Verify ExecEngine implements Engine at compile time.
var _ Engine = (*ExecEngine)(nil)
