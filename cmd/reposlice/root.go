package main

import (
	"fmt"

	"github.com/better-vibe/repo-slice/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDebug bool
	log       *logrus.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reposlice",
		Short:         "Pack a context bundle or dependency graph from a repository",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New(flagDebug)
		},
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging and parser diagnostics")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errInvalidUsage, err)
	})

	root.AddCommand(newPackCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newWorkspacesCmd())
	root.AddCommand(newVersionCmd())
	return root
}
