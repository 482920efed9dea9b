// Command bootkit-demo is a small application assembled from bootkit
// components: a scheduler with a heartbeat job and the admin server.
//
//	bootkit-demo -c bootkit-demo.toml start
//	bootkit-demo components
package main

import (
	"context"
	"fmt"

	"github.com/GoCodeAlone/bootkit"
	"github.com/GoCodeAlone/bootkit/command"
	"github.com/GoCodeAlone/bootkit/modules/admin"
	"github.com/GoCodeAlone/bootkit/modules/scheduler"
	"github.com/GoCodeAlone/bootkit/signal"
)

// Config is the demo's top-level configuration.
type Config struct {
	Greeting  string `toml:"greeting" yaml:"greeting" default:"hello"`
	Heartbeat string `toml:"heartbeat" yaml:"heartbeat" default:"@every 30s" env:"HEARTBEAT"`
	Admin     bool   `toml:"admin" yaml:"admin" env:"ADMIN"`
}

func main() {
	app, entry := newApp()
	bootkit.Boot(bootkit.NewCell[*bootkit.StdApplication[Config]](), app, entry)
}

func newApp(opts ...bootkit.Option) (*bootkit.StdApplication[Config], *command.EntryPoint) {
	jobs := scheduler.New()
	adm := admin.New()

	base := []bootkit.Option{
		bootkit.WithComponents(newReporter(), jobs, adm),
		bootkit.WithSignals(signal.New()),
		bootkit.WithEnvPrefix("BOOTKIT_DEMO"),
	}
	app := bootkit.New[Config]("bootkit-demo", append(base, opts...)...)

	entry := command.NewEntryPoint(
		command.Info{
			Name:        "bootkit-demo",
			Description: "Example application built on bootkit",
			Version:     "0.4.0",
			Authors:     "GoCodeAlone",
		},
		command.Subcommand{
			Use:   "start",
			Short: "Run the scheduler and admin server until interrupted",
			ProcessConfig: func(cfg any) error {
				c := cfg.(*Config)
				if c.Heartbeat == "" {
					return fmt.Errorf("heartbeat schedule must not be empty")
				}
				return nil
			},
			Run: func(ctx context.Context, _ []string) error {
				return start(ctx, app, jobs, adm)
			},
		},
		command.Subcommand{
			Use:   "components",
			Short: "List registered components in dependency order",
			Run: func(context.Context, []string) error {
				for _, d := range app.Components().Descriptors() {
					app.Terminal().StatusAttrOK(d.ID.String(), "%s", d.Version)
				}
				return nil
			},
		},
	)
	return app, entry
}

// start spawns the long-running components and waits for a signal. Thread
// failures are reported when the threads are joined.
func start(ctx context.Context, app *bootkit.StdApplication[Config], jobs *scheduler.Scheduler, adm *admin.Admin) error {
	threads := app.State().Threads
	if err := threads.Spawn(scheduler.ThreadName, jobs.Run); err != nil {
		return err
	}
	if app.Config().Admin {
		err := threads.Spawn(admin.ThreadName, func(ctx context.Context) error {
			return adm.Serve(ctx, app.Components())
		})
		if err != nil {
			return err
		}
	}

	app.Terminal().StatusOK("Started", "%s (run %s)", app.Name(), app.State().RunID)
	select {
	case <-ctx.Done():
	case <-threads.Done():
	}
	return nil
}
