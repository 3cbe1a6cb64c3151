package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

const (
	// BankStoreKey is the remote store path of the bank module
	BankStoreKey = "bank"

	// StakingStoreKey is the remote store path of the staking module
	StakingStoreKey = "staking"
)

// balancesPrefix is the bank store prefix of account balances.
var balancesPrefix = []byte{0x02}

// DecodeBech32 returns the human readable prefix and the address bytes.
func DecodeBech32(addr string) (string, []byte, error) {
	hrp, bz, err := bech32.DecodeAndConvert(addr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %s", ErrInvalidAddress, addr, err)
	}
	if err := sdk.VerifyAddressFormat(bz); err != nil {
		return "", nil, fmt.Errorf("%w: %s: %s", ErrInvalidAddress, addr, err)
	}
	return hrp, bz, nil
}

// ConvertPrefix re-encodes addr under prefix.
func ConvertPrefix(addr, prefix string) (string, error) {
	_, bz, err := DecodeBech32(addr)
	if err != nil {
		return "", err
	}
	return bech32.ConvertAndEncode(prefix, bz)
}

// BalanceKey returns the remote bank store key of addr's balance in denom.
func BalanceKey(addr, denom string) ([]byte, error) {
	_, bz, err := DecodeBech32(addr)
	if err != nil {
		return nil, err
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return nil, err
	}
	key := append([]byte{}, balancesPrefix...)
	key = append(key, address.MustLengthPrefix(bz)...)
	return append(key, []byte(denom)...), nil
}

// DelegationKey returns the remote staking store key of a delegation.
func DelegationKey(delegator, validator string) ([]byte, error) {
	_, delBz, err := DecodeBech32(delegator)
	if err != nil {
		return nil, err
	}
	_, valBz, err := DecodeBech32(validator)
	if err != nil {
		return nil, err
	}
	return stakingtypes.GetDelegationKey(sdk.AccAddress(delBz), sdk.ValAddress(valBz)), nil
}

// ValidatorKey returns the remote staking store key of a validator.
func ValidatorKey(valoper string) ([]byte, error) {
	_, bz, err := DecodeBech32(valoper)
	if err != nil {
		return nil, err
	}
	return stakingtypes.GetValidatorKey(sdk.ValAddress(bz)), nil
}

// BalanceKVKeys returns the keys of a balance query.
func BalanceKVKeys(addr, denom string) ([]KVKey, error) {
	key, err := BalanceKey(addr, denom)
	if err != nil {
		return nil, err
	}
	return []KVKey{{Path: BankStoreKey, Key: key}}, nil
}

// DelegationsKVKeys returns the keys of a delegations query: for every
// validator the delegation key followed by the validator key.
func DelegationsKVKeys(delegator string, validators []string) ([]KVKey, error) {
	keys := make([]KVKey, 0, 2*len(validators))
	for _, validator := range validators {
		delKey, err := DelegationKey(delegator, validator)
		if err != nil {
			return nil, err
		}
		valKey, err := ValidatorKey(validator)
		if err != nil {
			return nil, err
		}
		keys = append(keys, KVKey{Path: StakingStoreKey, Key: delKey}, KVKey{Path: StakingStoreKey, Key: valKey})
	}
	return keys, nil
}
