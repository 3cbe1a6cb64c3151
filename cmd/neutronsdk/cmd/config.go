package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const flagForce = "force"

// Config is the content of config.yaml.
type Config struct {
	Output       string `yaml:"output"`
	Bech32Prefix string `yaml:"bech32_prefix"`
	Multiplier   uint64 `yaml:"multiplier"`
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write the CLI configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bz, err := yaml.Marshal(c.resolved())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bz)
			return err
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved configuration to config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.v.ConfigFileUsed()
			force, _ := cmd.Flags().GetBool(flagForce)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --%s to overwrite", path, flagForce)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			bz, err := yaml.Marshal(c.resolved())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, bz, 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().Bool(flagForce, false, "overwrite an existing config file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func (c *cli) resolved() Config {
	return Config{
		Output:       c.v.GetString(keyOutput),
		Bech32Prefix: c.v.GetString(keyBech32Prefix),
		Multiplier:   cast.ToUint64(c.v.Get(keyMultiplier)),
	}
}
