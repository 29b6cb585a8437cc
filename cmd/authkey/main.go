package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/AlexZinkM/authenticity-key/internal/config"
	"github.com/AlexZinkM/authenticity-key/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalFlags are shared by all commands
type GlobalFlags struct {
	Network string
	Node    string
	Verbose bool
}

// cli carries state from the root command to the subcommands
type cli struct {
	flags  GlobalFlags
	cfg    *config.Config
	logger *zap.Logger

	// prompt reads a secret from the terminal, replaced in tests
	prompt func(label string) (string, error)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{prompt: config.PromptForPassphrase}
	return c.rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "authkey",
		Short: "Product authenticity keys on the ARK blockchain",
		Long: `authkey registers product verification keys on the ARK blockchain and
verifies the signatures printed on product labels.

Settings are read from the environment (and a .env file), see the
ARK_* variables; --network and --node override them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("network") {
				cfg.Network = c.flags.Network
			}
			if cmd.Flags().Changed("node") {
				cfg.Node = c.flags.Node
			}
			c.cfg = cfg

			c.logger = zap.NewNop()
			if c.flags.Verbose {
				c.logger = logging.New(zapcore.DebugLevel, "", false)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.flags.Network, "network", "mainnet", "network: mainnet|devnet")
	root.PersistentFlags().StringVar(&c.flags.Node, "node", "", "node URL (default: the network seed node)")
	root.PersistentFlags().BoolVarP(&c.flags.Verbose, "verbose", "v", false, "log to stdout")

	root.AddCommand(
		c.deriveCmd(),
		c.tokenCmd(),
		c.signCmd(),
		c.registerCmd(),
		c.verifyCmd(),
		c.pubkeyCmd(),
		c.labelCmd(),
	)
	return root
}

// secret returns value when set, otherwise prompts for it
func (c *cli) secret(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return c.prompt(label)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
