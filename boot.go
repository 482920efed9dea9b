package bootkit

import (
	"errors"
	"os"

	"github.com/GoCodeAlone/bootkit/command"
	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/signal"
)

// Exit statuses returned by Run.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Boot runs app and exits the process with the resulting status. It never
// returns.
func Boot[A Application](cell *Cell[A], app A, parser command.Parser) {
	os.Exit(Run(cell, app, parser, os.Args[1:]))
}

// Run parses args, initializes app, stores it in cell, runs the selected
// command and shuts down. It returns the process exit status: 0 on success
// or after help output, 2 for invalid arguments and 1 for any failure.
// Failures are reported on the terminal as "<app> fatal error: <message>".
func Run[A Application](cell *Cell[A], app A, parser command.Parser, args []string) int {
	cmd, err := parser.Parse(args)
	switch {
	case errors.Is(err, command.ErrHelp):
		return ExitSuccess
	case err != nil:
		app.Terminal().StatusErr("%v", err)
		return ExitUsage
	}

	if err := app.Init(cmd); err != nil {
		app.Terminal().Fatal(app.Name(), err)
		_ = app.Shutdown(component.ShutdownCrash)
		_ = app.State().Threads.Join()
		return ExitFailure
	}

	cell.SetOnce(app)

	if err := routeSignals(cell, app); err != nil {
		app.Terminal().Fatal(app.Name(), err)
		cell.Write(func(a A) { _ = a.Shutdown(component.ShutdownCrash) })
		_ = app.State().Threads.Join()
		return ExitFailure
	}

	status := ExitSuccess
	kind := component.ShutdownGraceful
	if err := app.Run(cmd); err != nil {
		app.Terminal().Fatal(app.Name(), err)
		status = ExitFailure
		kind = component.ShutdownCrash
	}

	var shutdownErr error
	cell.Write(func(a A) { shutdownErr = a.Shutdown(kind) })
	if shutdownErr != nil {
		app.Terminal().Fatal(app.Name(), shutdownErr)
		status = ExitFailure
	}

	// Joined outside the lock: the signal listener may be waiting on it.
	if err := app.State().Threads.Join(); err != nil {
		app.Terminal().Fatal(app.Name(), err)
		status = ExitFailure
	}
	return status
}

// FatalError reports err as "<app> fatal error: <message>", shuts the
// application down and exits with status 1.
func FatalError(app Application, err error) {
	app.Terminal().Fatal(app.Name(), err)
	_ = app.Shutdown(component.ShutdownCrash)
	os.Exit(ExitFailure)
}

// routeSignals starts the signal handler component, if registered, so that
// every signal reaches the application through the cell's write lock.
func routeSignals[A Application](cell *Cell[A], app A) error {
	handler, ok := component.Lookup[*signal.Handler](app.State().Components)
	if !ok {
		return nil
	}
	return handler.Start(app.State().Threads, func(sig os.Signal) {
		cell.Write(func(a A) { a.HandleSignal(sig) })
	})
}
