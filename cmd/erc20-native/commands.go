package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/casper-native/erc20-host/contract/erc20"
	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/host"
	"github.com/casper-native/erc20-host/host/registry"
)

type globalFlags struct {
	logLevel  string
	caller    string
	blocktime uint64
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "erc20-native",
		Short:         "Run the ERC-20 token contract against an emulated host",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.caller, "caller", "", "Caller account hash (64 hex characters)")
	rootCmd.PersistentFlags().Uint64Var(&flags.blocktime, "blocktime", 0, "Block time in milliseconds since the Unix epoch")

	rootCmd.AddCommand(newDeployAndQueryCmd(&flags), newSchemaCmd())
	return rootCmd
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func newTokenExecutor(flags *globalFlags, logger *slog.Logger) (*host.Executor, error) {
	entryPoints, err := host.NewEntryPointRegistry(
		host.WithMiddleware(host.RecoverMiddleware(), host.LoggingMiddleware(logger)),
		host.WithBundle(erc20.Bundle()),
	)
	if err != nil {
		return nil, err
	}

	cfg := host.DefaultConfig()
	cfg.Caller = flags.caller
	cfg.Blocktime = flags.blocktime

	return host.NewExecutor(
		host.WithConfig(cfg),
		host.WithLogger(logger),
		host.WithEntryPoints(entryPoints),
	)
}

func newDeployAndQueryCmd(flags *globalFlags) *cobra.Command {
	var (
		name        string
		symbol      string
		decimals    uint8
		totalSupply string
		wasmPath    string
	)

	cmd := &cobra.Command{
		Use:   "deploy-and-query",
		Short: "Install the token, then call every getter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), flags.logLevel)
			if err != nil {
				return err
			}
			supply, err := uint256.FromDecimal(totalSupply)
			if err != nil {
				return fmt.Errorf("invalid --total-supply %q: %w", totalSupply, err)
			}
			e, err := newTokenExecutor(flags, logger)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer e.Close(context.WithoutCancel(ctx)) //nolint:errcheck

			call := e.Call
			if wasmPath != "" {
				call, err = wasmCaller(ctx, e, wasmPath)
				if err != nil {
					return err
				}
			}

			installArgs := entities.NewRuntimeArgs(
				entities.Arg(erc20.ArgName, name),
				entities.Arg(erc20.ArgSymbol, symbol),
				entities.Arg(erc20.ArgDecimals, decimals),
				entities.Arg(erc20.ArgTotalSupply, supply),
			)
			if _, err := call(ctx, erc20.EntryPointInstall, installArgs); err != nil {
				return fmt.Errorf("install failed: %w", err)
			}

			caller := e.Host().Caller()
			queries := []struct {
				entryPoint string
				args       *entities.RuntimeArgs
			}{
				{erc20.EntryPointName, nil},
				{erc20.EntryPointSymbol, nil},
				{erc20.EntryPointDecimals, nil},
				{erc20.EntryPointTotalSupply, nil},
				{erc20.EntryPointBalanceOf, entities.NewRuntimeArgs(entities.Arg(erc20.ArgAddress, caller))},
			}
			out := cmd.OutOrStdout()
			for _, q := range queries {
				v, err := call(ctx, q.entryPoint, q.args)
				if err != nil {
					return fmt.Errorf("%s failed: %w", q.entryPoint, err)
				}
				fmt.Fprintf(out, "%s: %s\n", q.entryPoint, formatResult(v))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Name", "Token name")
	cmd.Flags().StringVar(&symbol, "symbol", "Symbol", "Token symbol")
	cmd.Flags().Uint8Var(&decimals, "decimals", 100, "Token decimals")
	cmd.Flags().StringVar(&totalSupply, "total-supply", "1000000", "Initial supply (decimal)")
	cmd.Flags().StringVar(&wasmPath, "wasm", "", "Run a compiled token contract instead of the native one")
	return cmd
}

type callFunc func(ctx context.Context, entryPoint string, args *entities.RuntimeArgs) (*entities.CLValue, error)

func wasmCaller(ctx context.Context, e *host.Executor, path string) (callFunc, error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract: %w", err)
	}
	contract, err := e.LoadContract(ctx, "erc20", wasmBytes)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, entryPoint string, args *entities.RuntimeArgs) (*entities.CLValue, error) {
		return e.CallContract(ctx, contract, entryPoint, args)
	}, nil
}

// formatResult renders a returned value for display.
func formatResult(v *entities.CLValue) string {
	if v == nil {
		return "()"
	}
	var (
		s    string
		u8   uint8
		u256 *uint256.Int
	)
	switch {
	case v.Into(&s) == nil:
		return s
	case v.Into(&u8) == nil:
		return fmt.Sprintf("%d", u8)
	case v.Into(&u256) == nil:
		return u256.Dec()
	default:
		return v.String()
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [entry-point]",
		Short: "Print the JSON schema of entry point arguments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas := registry.NewRegistry()
			if _, err := host.NewEntryPointRegistry(
				host.WithSchemaRegistry(schemas),
				host.WithBundle(erc20.Bundle()),
			); err != nil {
				return err
			}

			names := schemas.List()
			if len(args) == 1 {
				names = args
			}
			out := make(map[string]json.RawMessage, len(names))
			for _, name := range names {
				s, ok := schemas.GetSchema(name)
				if !ok {
					return fmt.Errorf("unknown entry point %q", name)
				}
				out[name] = json.RawMessage(s)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
