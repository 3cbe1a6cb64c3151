package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable the CLI reads.
	EnvPrefix = "NEUTRONSDK"

	configFileName = "config.yaml"

	flagHome   = "home"
	flagOutput = "output"

	keyOutput       = "output"
	keyBech32Prefix = "bech32_prefix"
	keyMultiplier   = "multiplier"
)

// DefaultHome is where the optional config file lives.
var DefaultHome = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".neutronsdk"
	}
	return filepath.Join(home, ".neutronsdk")
}()

type cli struct {
	v *viper.Viper
}

// NewRootCmd creates the neutronsdk command tree. Settings are resolved from
// flags, then NEUTRONSDK_* variables, then <home>/config.yaml.
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "neutronsdk",
		Short: "Helpers for building interchain queries, transactions and oracle requests",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return c.load(cmd.Flags())
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(flagHome, DefaultHome, "directory holding config.yaml")
	rootCmd.PersistentFlags().StringP(flagOutput, "o", "hex", "byte encoding: hex, base64 or json")

	rootCmd.AddCommand(
		c.keysCmd(),
		c.filterCmd(),
		c.obiCmd(),
		c.bech32Cmd(),
		c.configCmd(),
	)
	return rootCmd
}

func (c *cli) load(flags *pflag.FlagSet) error {
	c.v.SetDefault(keyOutput, "hex")
	c.v.SetDefault(keyBech32Prefix, "neutron")
	c.v.SetDefault(keyMultiplier, 1_000_000)

	c.v.SetEnvPrefix(EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.BindPFlag(keyOutput, flags.Lookup(flagOutput)); err != nil {
		return err
	}

	home, err := flags.GetString(flagHome)
	if err != nil {
		return err
	}
	c.v.SetConfigFile(filepath.Join(home, configFileName))
	c.v.SetConfigType("yaml")
	if err := c.v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// bindFlag lets a command flag override key. Unset flags fall through to the
// environment and the config file.
func (c *cli) bindFlag(cmd *cobra.Command, key, flag string) error {
	return c.v.BindPFlag(key, cmd.Flags().Lookup(flag))
}
