// Command gdbserver runs the gdbstub RSP server as a standalone process,
// either against a real collaborator set wired in by an embedder, or (via
// --fake) against the in-memory fakeguest implementation for smoke-testing
// the protocol without a real console emulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/console-emu/gdbstub"
	"github.com/console-emu/gdbstub/internal/fakeguest"
	"github.com/console-emu/gdbstub/logflags"
)

var (
	// Version is the build-time version string, set via -ldflags by the
	// release build; it stays "dev" for a plain `go build`.
	Version = "dev"

	configPath string
	listenAddr string
	logComp    string
	verbose    bool
	useFake    bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gdbserver",
		Short: "GDB remote serial protocol server for the console emulator's debug support",
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML ServerConfig file")
	root.PersistentFlags().StringVar(&listenAddr, "listen", "", "override the listen address (host:port)")
	root.PersistentFlags().StringVar(&logComp, "log", "", "comma-separated components to log (wire,dispatch,controller,all)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log=all")

	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newServeCommand() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "run the debug server until interrupted",
		RunE:  runServe,
	}
	serve.Flags().BoolVar(&useFake, "fake", false, "serve against an in-memory fake guest instead of a real collaborator set")
	return serve
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "gdbserver %s\n", Version)
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logflags.Setup(verbose, logComp); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	if !useFake {
		return fmt.Errorf("gdbserver: no real collaborator set wired in; re-run with --fake, or embed gdbstub.New directly")
	}

	kernel, mem, debugger := buildFakeGuest()
	srv, err := gdbstub.New(cfg, kernel, mem, debugger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return srv.Start(ctx)
}

func loadConfig() (gdbstub.ServerConfig, error) {
	if configPath == "" {
		return gdbstub.DefaultConfig(), nil
	}
	return gdbstub.LoadConfig(configPath)
}

func buildFakeGuest() (*fakeguest.Kernel, *fakeguest.Memory, *fakeguest.Debugger) {
	th := fakeguest.NewThread(1)
	kernel := fakeguest.NewKernel(th)
	mem := fakeguest.NewMemory(1 << 20)
	debugger := fakeguest.NewDebugger()
	return kernel, mem, debugger
}
