package cmd

import (
	"fmt"
	"sort"
	"time"

	"configs-cli/internal/state"
	"github.com/spf13/cobra"
)

// newStatusCmd reports what the last successful `setup` recorded in the state file.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last recorded setup run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := state.LoadState(env.Fs, statePath())
			if st.Empty() {
				_, err := fmt.Fprintln(out, "No setup run recorded yet. Run `configs-cli setup --system <platform>`.")
				return err
			}

			fmt.Fprintf(out, "Last setup:   %s\n", st.UpdatedAt.Local().Format(time.RFC1123))
			fmt.Fprintf(out, "System:       %s\n", st.System)
			fmt.Fprintf(out, "Repository:   %s\n", st.RepoDir)
			fmt.Fprintf(out, "Packages:     %d\n", len(st.Packages))
			fmt.Fprintf(out, "Shell change: %t\n", st.ShellChanged)
			fmt.Fprintln(out, "Links:")

			// Sorted so the output is stable between runs.
			dests := make([]string, 0, len(st.Links))
			for d := range st.Links {
				dests = append(dests, d)
			}
			sort.Strings(dests)
			for _, d := range dests {
				fmt.Fprintf(out, "  %s -> %s\n", d, st.Links[d])
			}
			return nil
		},
	}
}
