package keeper

import (
	"bytes"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
)

// checkKeys verifies that result holds exactly the keys the query registered.
func checkKeys(expected []types.KVKey, result *types.QueryResult) error {
	if len(result.KvResults) != len(expected) {
		return fmt.Errorf("%w: expected %d values, got %d", types.ErrInvalidQueryResult, len(expected), len(result.KvResults))
	}
	for i, key := range expected {
		if !bytes.Equal(result.KvResults[i].Key, key.Key) {
			return fmt.Errorf("%w: value %d has key %x, expected %x", types.ErrInvalidQueryResult, i, result.KvResults[i].Key, key.Key)
		}
	}
	return nil
}

// decodeBalances reads a bank balance. The bank module stores the amount as
// text; older hosts store a whole Coin. A missing value is a zero balance.
func decodeBalances(identity types.QueryIdentity, result *types.QueryResult) (types.Balances, error) {
	keys, err := types.BalanceKVKeys(identity.Owner, identity.Denom)
	if err != nil {
		return types.Balances{}, err
	}
	if err := checkKeys(keys, result); err != nil {
		return types.Balances{}, err
	}

	value := result.KvResults[0].Value
	amount := sdkmath.ZeroInt()
	if len(value) > 0 {
		if err := amount.Unmarshal(value); err != nil {
			var coin sdk.Coin
			if cerr := proto.Unmarshal(value, &coin); cerr != nil || coin.Denom != identity.Denom {
				return types.Balances{}, fmt.Errorf("%w: cannot decode balance: %s", types.ErrInvalidQueryResult, err)
			}
			amount = coin.Amount
		}
	}
	if amount.IsNegative() {
		return types.Balances{}, fmt.Errorf("%w: negative balance %s", types.ErrInvalidQueryResult, amount)
	}

	return types.Balances{
		Height: result.Height,
		Coins:  sdk.NewCoins(sdk.NewCoin(identity.Denom, amount)),
	}, nil
}

// decodeDelegations reads (delegation, validator) value pairs. A missing
// delegation means the delegator has none with that validator.
func decodeDelegations(identity types.QueryIdentity, result *types.QueryResult) (types.Delegations, error) {
	keys, err := types.DelegationsKVKeys(identity.Owner, identity.Validators)
	if err != nil {
		return types.Delegations{}, err
	}
	if err := checkKeys(keys, result); err != nil {
		return types.Delegations{}, err
	}

	out := types.Delegations{Height: result.Height, Delegations: []types.Delegation{}}
	for i := 0; i < len(result.KvResults); i += 2 {
		delegationValue, validatorValue := result.KvResults[i].Value, result.KvResults[i+1].Value
		if len(delegationValue) == 0 {
			continue
		}

		var delegation stakingtypes.Delegation
		if err := proto.Unmarshal(delegationValue, &delegation); err != nil {
			return types.Delegations{}, fmt.Errorf("%w: cannot decode delegation: %s", types.ErrInvalidQueryResult, err)
		}
		if len(validatorValue) == 0 {
			return types.Delegations{}, fmt.Errorf("%w: validator %s not found", types.ErrInvalidQueryResult, delegation.ValidatorAddress)
		}
		var validator stakingtypes.Validator
		if err := proto.Unmarshal(validatorValue, &validator); err != nil {
			return types.Delegations{}, fmt.Errorf("%w: cannot decode validator: %s", types.ErrInvalidQueryResult, err)
		}

		out.Delegations = append(out.Delegations, types.Delegation{
			Delegator: delegation.DelegatorAddress,
			Validator: delegation.ValidatorAddress,
			Amount:    validator.TokensFromShares(delegation.Shares).TruncateInt(),
		})
	}
	return out, nil
}

// decodeTransfers returns the bank sends to recipient contained in a raw tx.
func decodeTransfers(recipient string, height uint64, hash string, data []byte) ([]types.Transfer, error) {
	var tx txtypes.Tx
	if err := proto.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("%w: cannot decode tx: %s", types.ErrInvalidQueryResult, err)
	}
	if tx.Body == nil {
		return nil, fmt.Errorf("%w: tx has no body", types.ErrInvalidQueryResult)
	}

	var transfers []types.Transfer
	sendURL := sdk.MsgTypeURL(&banktypes.MsgSend{})
	for _, anyMsg := range tx.Body.Messages {
		if anyMsg == nil || anyMsg.TypeUrl != sendURL {
			continue
		}
		var send banktypes.MsgSend
		if err := proto.Unmarshal(anyMsg.Value, &send); err != nil {
			return nil, fmt.Errorf("%w: cannot decode bank send: %s", types.ErrInvalidQueryResult, err)
		}
		if send.ToAddress != recipient {
			continue
		}
		for _, coin := range send.Amount {
			transfers = append(transfers, types.Transfer{
				Sender:    send.FromAddress,
				Recipient: send.ToAddress,
				Denom:     coin.Denom,
				Amount:    coin.Amount,
				Height:    height,
				TxHash:    hash,
			})
		}
	}
	return transfers, nil
}
