package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Subcommand is one command the EntryPoint can select.
type Subcommand struct {
	// Use is the one-line usage, starting with the command name.
	Use   string
	Short string
	Long  string

	// ConfigPath is loaded unless -c/--config is given.
	ConfigPath string

	// Args validates positional arguments, as in cobra.
	Args cobra.PositionalArgs

	// Flags binds the subcommand's own flags.
	Flags func(fs *pflag.FlagSet)

	// ProcessConfig, if set, adjusts or checks the loaded configuration.
	ProcessConfig func(cfg any) error

	Run func(ctx context.Context, args []string) error
}

// EntryPoint is the top-level command line: global -c/--config and
// -v/--verbose flags, --help and --version, and a set of subcommands.
type EntryPoint struct {
	info        Info
	subcommands []Subcommand
	out         io.Writer
	errOut      io.Writer
}

// NewEntryPoint creates an EntryPoint for the program described by info.
func NewEntryPoint(info Info, subcommands ...Subcommand) *EntryPoint {
	return &EntryPoint{info: info, subcommands: subcommands}
}

// SetOutput redirects help, version and usage errors.
func (e *EntryPoint) SetOutput(out, errOut io.Writer) {
	e.out = out
	e.errOut = errOut
}

// Info returns the program description.
func (e *EntryPoint) Info() Info {
	return e.info
}

// Parse selects a subcommand from args. It returns ErrHelp when help or
// version output was printed and an error wrapping ErrUsage when the
// arguments are invalid.
func (e *EntryPoint) Parse(args []string) (Command, error) {
	var (
		configPath string
		verbose    bool
		selected   *Parsed
	)

	root := &cobra.Command{
		Use:           e.info.Name,
		Short:         e.info.Description,
		Version:       e.info.Version,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "be verbose")
	if e.out != nil {
		root.SetOut(e.out)
	}
	if e.errOut != nil {
		root.SetErr(e.errOut)
	}

	for i := range e.subcommands {
		sub := &e.subcommands[i]
		cmd := &cobra.Command{
			Use:   sub.Use,
			Short: sub.Short,
			Long:  sub.Long,
			Args:  sub.Args,
			RunE: func(_ *cobra.Command, args []string) error {
				selected = &Parsed{
					info:       e.info,
					sub:        sub,
					args:       args,
					configFlag: configPath,
					verbose:    verbose,
				}
				return nil
			},
		}
		if sub.Flags != nil {
			sub.Flags(cmd.Flags())
		}
		root.AddCommand(cmd)
	}

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if selected == nil {
		return nil, ErrHelp
	}
	return selected, nil
}

// Parsed is the Command produced by EntryPoint.Parse.
type Parsed struct {
	info       Info
	sub        *Subcommand
	args       []string
	configFlag string
	verbose    bool
}

func (p *Parsed) Name() string        { return p.info.Name }
func (p *Parsed) Description() string { return p.info.Description }
func (p *Parsed) Version() string     { return p.info.Version }
func (p *Parsed) Authors() string     { return p.info.Authors }
func (p *Parsed) Verbose() bool       { return p.verbose }

// Subcommand returns the name of the selected subcommand.
func (p *Parsed) Subcommand() string {
	name, _, _ := strings.Cut(p.sub.Use, " ")
	return name
}

// Args returns the positional arguments given to the subcommand.
func (p *Parsed) Args() []string {
	return p.args
}

// ConfigPath prefers -c/--config over the subcommand's own default.
func (p *Parsed) ConfigPath() string {
	if p.configFlag != "" {
		return p.configFlag
	}
	return p.sub.ConfigPath
}

// ProcessConfig implements ConfigProcessor
func (p *Parsed) ProcessConfig(cfg any) error {
	if p.sub.ProcessConfig == nil {
		return nil
	}
	return p.sub.ProcessConfig(cfg)
}

// Run implements Command
func (p *Parsed) Run(ctx context.Context) error {
	if p.sub.Run == nil {
		return nil
	}
	return p.sub.Run(ctx, p.args)
}
