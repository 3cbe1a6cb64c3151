package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	icqtypes "github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
)

const (
	flagAddr      = "addr"
	flagDenom     = "denom"
	flagDelegator = "delegator"
	flagValidator = "validator"
)

func (c *cli) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Compute the remote store keys of KV interchain queries",
	}
	cmd.AddCommand(c.balanceKeysCmd(), c.delegationKeysCmd())
	return cmd
}

func (c *cli) balanceKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Bank balance key of an address in one denom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString(flagAddr)
			denom, _ := cmd.Flags().GetString(flagDenom)
			keys, err := icqtypes.BalanceKVKeys(addr, denom)
			if err != nil {
				return err
			}
			return c.writeKeys(cmd, keys)
		},
	}
	cmd.Flags().String(flagAddr, "", "bech32 account address")
	cmd.Flags().String(flagDenom, "", "coin denom")
	_ = cmd.MarkFlagRequired(flagAddr)
	_ = cmd.MarkFlagRequired(flagDenom)
	return cmd
}

func (c *cli) delegationKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delegation",
		Short: "Delegation and validator keys of a delegator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			delegator, _ := cmd.Flags().GetString(flagDelegator)
			validators, _ := cmd.Flags().GetStringSlice(flagValidator)
			keys, err := icqtypes.DelegationsKVKeys(delegator, validators)
			if err != nil {
				return err
			}
			return c.writeKeys(cmd, keys)
		},
	}
	cmd.Flags().String(flagDelegator, "", "bech32 delegator address")
	cmd.Flags().StringSlice(flagValidator, nil, "bech32 validator operator address, repeatable")
	_ = cmd.MarkFlagRequired(flagDelegator)
	_ = cmd.MarkFlagRequired(flagValidator)
	return cmd
}

// writeKeys prints one "path key" line per key, or the whole list as JSON.
func (c *cli) writeKeys(cmd *cobra.Command, keys []icqtypes.KVKey) error {
	if c.v.GetString(keyOutput) == "json" {
		type jsonKey struct {
			Path string `json:"path"`
			Key  string `json:"key"`
		}
		out := make([]jsonKey, 0, len(keys))
		for _, key := range keys {
			out = append(out, jsonKey{Path: key.Path, Key: hex.EncodeToString(key.Key)})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}
	for _, key := range keys {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), key.Path, " "); err != nil {
			return err
		}
		if err := c.writeBytes(cmd.OutOrStdout(), key.Key); err != nil {
			return err
		}
	}
	return nil
}
