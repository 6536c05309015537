// =============================================================================
// Stock Adjustment Tool - Interactive Menu
// =============================================================================
//
// This module implements the blocking text menu:
//
//   1. Create files
//   2. Import outbound (DCG) files
//   3. Import inbound (DCT) files
//   0. Exit
//
// ERROR HANDLING:
//   Every action runs under recover. An unexpected error or panic is written
//   to the logger with its stack trace, the operator sees a generic notice,
//   and the loop continues. Errors the action already reported are skipped.
//
// =============================================================================

package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/console"
	"go.uber.org/zap"
)

// ExitKey ends the loop.
const ExitKey = "0"

// GenericNotice is shown when an action fails unexpectedly.
const GenericNotice = "An error occurred. See error.log for details."

// Option is one menu entry.
type Option struct {
	Key   string
	Label string
	Run   func(ctx context.Context) error
}

// Config configures a Menu.
type Config struct {
	// Title is printed above the options.
	Title string

	// In and Out are the operator's terminal.
	In  io.Reader
	Out io.Writer

	// Options are listed in order, followed by the exit entry.
	Options []Option

	// IsReported reports whether an action error was already shown to the
	// operator. Nil treats every error as unexpected.
	IsReported func(error) bool

	Logger *zap.Logger
}

// Menu is the interactive loop.
type Menu struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a Menu.
func New(cfg Config) *Menu {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	return &Menu{cfg: cfg, logger: logger}
}

// Run shows the menu until the operator exits, the input ends, or ctx is
// cancelled.
func (m *Menu) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(m.cfg.In)
	out := m.cfg.Out

	for {
		if ctx.Err() != nil {
			return nil
		}

		m.render()
		fmt.Fprint(out, "Choose an option: ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Exiting.")
			return scanner.Err()
		}

		choice := strings.TrimSpace(scanner.Text())
		if choice == ExitKey {
			fmt.Fprintln(out, "Exiting.")
			return nil
		}

		opt, ok := m.lookup(choice)
		if !ok {
			console.Errorf(out, "Invalid option, please try again.")
			continue
		}
		m.runAction(ctx, opt)
	}
}

func (m *Menu) render() {
	out := m.cfg.Out
	fmt.Fprintln(out)
	if m.cfg.Title != "" {
		fmt.Fprintln(out, console.TitleStyle.Render(m.cfg.Title))
	}
	for _, opt := range m.cfg.Options {
		fmt.Fprintln(out, console.MenuItemStyle.Render(fmt.Sprintf("%s. %s", opt.Key, opt.Label)))
	}
	fmt.Fprintln(out, console.MenuItemStyle.Render(ExitKey+". Exit"))
}

func (m *Menu) lookup(key string) (Option, bool) {
	for _, opt := range m.cfg.Options {
		if opt.Key == key {
			return opt, true
		}
	}
	return Option{}, false
}

// runAction is the top-level error tier.
func (m *Menu) runAction(ctx context.Context, opt Option) {
	err := safeRun(ctx, opt)
	if err == nil {
		return
	}
	if pe, ok := err.(*panicError); ok {
		m.logger.Error("Action panicked",
			zap.String("action", opt.Label),
			zap.Any("panic", pe.value),
			zap.ByteString("panic_stack", pe.stack))
		console.Errorf(m.cfg.Out, GenericNotice)
		return
	}
	if m.cfg.IsReported != nil && m.cfg.IsReported(err) {
		m.logger.Debug("Action reported an error", zap.String("action", opt.Label), zap.Error(err))
		return
	}
	m.logger.Error("Action failed", zap.String("action", opt.Label), zap.Error(err))
	console.Errorf(m.cfg.Out, GenericNotice)
}

type panicError struct {
	value interface{}
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func safeRun(ctx context.Context, opt Option) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return opt.Run(ctx)
}
