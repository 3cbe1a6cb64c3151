// Package keeper holds helpers shared by the module keepers.
package keeper

import (
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// DefaultAuthority is the gov module account, the authority every module
// uses unless the app wires another one.
func DefaultAuthority() string {
	return authtypes.NewModuleAddress(govtypes.ModuleName).String()
}

// ValidateAuthority checks that the message authority matches the keeper's.
// It gates parameter updates and error-queue cleanup.
//
//	if err := sharedkeeper.ValidateAuthority(k.authority, msg.Authority); err != nil {
//	    return nil, err
//	}
func ValidateAuthority(expected, actual string) error {
	if expected == "" {
		return govtypes.ErrInvalidSigner.Wrap("keeper has no authority configured")
	}
	if expected != actual {
		return govtypes.ErrInvalidSigner.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}
