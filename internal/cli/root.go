// Package cli implements routecheck, a tool for replaying identity snapshots through the router
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-event-portal/internal/config"
	"github.com/jrsteele09/go-event-portal/internal/logger"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/spf13/cobra"
)

type options struct {
	login          string
	roleSelection  string
	profileSetup   string
	resolveTimeout time.Duration
	file           string
	logLevel       string
}

func (o *options) router() (*routing.Router, error) {
	return routing.NewRouter(routing.Paths{
		Login:         o.login,
		RoleSelection: o.roleSelection,
		ProfileSetup:  o.profileSetup,
	}, routing.DefaultRoleTable())
}

// input opens the snapshot source, stdin unless a file was given
func (o *options) input(cmd *cobra.Command) (io.ReadCloser, error) {
	if o.file == "" || o.file == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(o.file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", o.file, err)
	}
	return f, nil
}

// NewRootCmd builds the routecheck command tree. Flag defaults come from the environment.
func NewRootCmd() *cobra.Command {
	routes := config.Routing{}
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "routecheck",
		Short: "Replay identity snapshots through the post-authentication router",
		Long: `routecheck reads newline delimited JSON snapshots such as

  {"isLoaded": true, "user": {"id": "u1", "metadata": {"role": "judge", "profileComplete": true}}}

and prints where the router would send the user.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.logLevel, "console")
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.login, "login", routes.GetLoginPath(), "Login page path")
	flags.StringVar(&opts.roleSelection, "role-selection", routes.GetRoleSelectionPath(), "Role selection page path")
	flags.StringVar(&opts.profileSetup, "profile-setup", routes.GetProfileSetupPath(), "Profile setup page path")
	flags.StringVarP(&opts.file, "file", "f", "", "Read snapshots from a file instead of stdin")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	cmd.AddCommand(newRunCmd(opts, routes.GetResolveTimeout()))
	cmd.AddCommand(newDecideCmd(opts))
	cmd.AddCommand(newTableCmd(opts))
	return cmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
