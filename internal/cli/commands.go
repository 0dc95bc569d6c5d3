package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/go-event-portal/identity"
	"github.com/jrsteele09/go-event-portal/routing"
	"github.com/spf13/cobra"
)

// newRunCmd replays the stream like a live session: queued snapshots collapse and only
// navigations are printed
func newRunCmd(opts *options, defaultTimeout time.Duration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the snapshot stream through a router runner and print navigations",
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := opts.router()
			if err != nil {
				return err
			}
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			nav := routing.NavigatorFunc(func(_ context.Context, path string, navOpts routing.NavigateOptions) {
				mode := "push"
				if navOpts.Replace {
					mode = "replace"
				}
				fmt.Fprintf(out, "navigate %s %s\n", mode, path)
			})
			runner := routing.NewRunner(router, nav, routing.WithResolveTimeout(opts.resolveTimeout))

			return replay(cmd.Context(), in, runner)
		},
	}
	cmd.Flags().DurationVar(&opts.resolveTimeout, "resolve-timeout", defaultTimeout, "Give up waiting for an unloaded identity after this long (0 waits forever)")
	return cmd
}

func replay(ctx context.Context, in io.Reader, runner *routing.Runner) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots := make(chan routing.Snapshot)
	streamErr := make(chan error, 1)
	go func() {
		streamErr <- identity.StreamSnapshots(ctx, in, snapshots)
	}()

	if err := runner.Run(ctx, snapshots); err != nil {
		return err
	}
	return <-streamErr
}

// newDecideCmd prints one decision per snapshot, including waits
func newDecideCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decide",
		Short: "Print the router's decision for every snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := opts.router()
			if err != nil {
				return err
			}
			in, err := opts.input(cmd)
			if err != nil {
				return err
			}
			defer in.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			snapshots := make(chan routing.Snapshot)
			streamErr := make(chan error, 1)
			go func() {
				streamErr <- identity.StreamSnapshots(ctx, in, snapshots)
			}()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tACTION\tPATH\tREASON")
			n := 0
			for s := range snapshots {
				n++
				action := router.Decide(s)
				kind := "none"
				path := "-"
				if action.IsNavigate() {
					kind = "navigate"
					path = action.Path
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n, kind, path, action.Reason)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return <-streamErr
		},
	}
}

// newTableCmd prints the role table
func newTableCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the role to landing page table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := opts.router()
			if err != nil {
				return err
			}
			roles := router.Roles()
			names := make([]string, 0, len(roles))
			for role := range roles {
				names = append(names, string(role))
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROLE\tPATH")
			for _, name := range names {
				role := routing.RoleType(name)
				marker := ""
				if role == routing.DefaultRole {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%s\n", name, marker, roles[role])
			}
			return w.Flush()
		},
	}
}
