package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	icqtypes "github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
)

const (
	flagRecipient = "recipient"
	flagMinHeight = "min-height"
)

func (c *cli) filterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Build transaction filters for TX interchain queries",
	}
	transfers := &cobra.Command{
		Use:   "transfers",
		Short: "Filter matching bank transfers to a recipient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipient, _ := cmd.Flags().GetString(flagRecipient)
			minHeight, _ := cmd.Flags().GetUint64(flagMinHeight)
			if _, _, err := icqtypes.DecodeBech32(recipient); err != nil {
				return err
			}
			filter, err := icqtypes.NewTransfersFilter(recipient, minHeight).Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), filter)
			return err
		},
	}
	transfers.Flags().String(flagRecipient, "", "bech32 recipient address")
	transfers.Flags().Uint64(flagMinHeight, 0, "only match transactions from this height on")
	_ = transfers.MarkFlagRequired(flagRecipient)

	cmd.AddCommand(transfers)
	return cmd
}
