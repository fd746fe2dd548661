package cmd

import (
	"os"

	"github.com/Hakuto4838/Treap.git/ordset/analytool"
	"github.com/Hakuto4838/Treap.git/ordset/treap"
	"github.com/Hakuto4838/Treap.git/workload"

	"github.com/btcsuite/btclog"
	"github.com/spf13/cobra"
)

var (
	backend    = btclog.NewBackend(os.Stdout)
	log        = backend.Logger("CMDL")
	treapLog   = backend.Logger("TRPB")
	wkldLog    = backend.Logger("WKLD")
	anlyLog    = backend.Logger("ANLY")
	debugLevel string
)

var rootCmd = NewRootCommand()

func NewRootCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:          "treapbench",
		Short:        "Treap workload generator, benchmark and verifier",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setLogLevels(debugLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			os.Stdout.Sync()
		},
	}

	cmd.PersistentFlags().StringVarP(&debugLevel, "debuglevel", "d", "info", "Debug level (trace, debug, info, warn, error, critical, off)")

	return cmd
}

// setLogLevels 套用 log 等級並把各子系統的 logger 交給對應套件
func setLogLevels(level string) {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		log.Warnf("unknown debug level %q, using info", level)
		lvl = btclog.LevelInfo
	}
	for _, l := range []btclog.Logger{log, treapLog, wkldLog, anlyLog} {
		l.SetLevel(lvl)
	}
	treap.UseLogger(treapLog)
	workload.UseLogger(wkldLog)
	analytool.UseLogger(anlyLog)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
