package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	icqtypes "github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
)

const flagToPrefix = "to-prefix"

func (c *cli) bech32Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bech32",
		Short: "Bech32 address helpers",
	}

	convert := &cobra.Command{
		Use:   "convert [address]",
		Short: "Re-encode an address under another prefix",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.bindFlag(cmd, keyBech32Prefix, flagToPrefix)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			converted, err := icqtypes.ConvertPrefix(args[0], c.v.GetString(keyBech32Prefix))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), converted)
			return err
		},
	}
	convert.Flags().String(flagToPrefix, "", "target human readable prefix")

	cmd.AddCommand(convert)
	return cmd
}
