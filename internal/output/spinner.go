package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
)

// RunWithSpinner runs action while a spinner titled title is shown.
// Without a terminal, or when debug logging would interleave with the
// spinner, the action runs directly.
func RunWithSpinner(ctx context.Context, title string, action func() error) error {
	if !IsTTY() || logger.GetLevel() <= log.DebugLevel {
		return action()
	}

	errCh := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		errCh <- action()
		close(finished)
	}()

	spinnerErr := spinner.New().
		Title(title).
		Action(func() {
			select {
			case <-ctx.Done():
			case <-finished:
			}
		}).
		Run()
	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
