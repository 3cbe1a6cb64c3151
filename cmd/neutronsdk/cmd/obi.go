package cmd

import (
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	bandtypes "github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
)

const flagSymbols = "symbols"

func (c *cli) obiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "obi",
		Short: "Encode oracle calldata",
	}

	prices := &cobra.Command{
		Use:   "prices",
		Short: "Calldata of the price oracle script",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.bindFlag(cmd, keyMultiplier, keyMultiplier)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			symbols, _ := cmd.Flags().GetStringSlice(flagSymbols)
			multiplier, err := cast.ToUint64E(c.v.Get(keyMultiplier))
			if err != nil {
				return fmt.Errorf("invalid multiplier: %w", err)
			}
			msg := bandtypes.MsgRequest{Symbols: symbols, Multiplier: multiplier}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			bz, err := bandtypes.Calldata{Symbols: symbols, Multiplier: multiplier}.EncodeOBI()
			if err != nil {
				return err
			}
			return c.writeBytes(cmd.OutOrStdout(), bz)
		},
	}
	prices.Flags().StringSlice(flagSymbols, nil, "symbols to price, comma separated")
	prices.Flags().Uint64(keyMultiplier, 0, "fixed-point multiplier of the rates")
	_ = prices.MarkFlagRequired(flagSymbols)

	cmd.AddCommand(prices)
	return cmd
}
