package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchaintxs/types"
)

// InitGenesis initializes the module state from genesis
func (k Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	for _, account := range gs.Accounts {
		if err := k.Accounts.Set(ctx, account.PortID, account); err != nil {
			return fmt.Errorf("failed to set account %s: %w", account.PortID, err)
		}
	}
	if err := k.engine.Import(ctx, gs.Engine); err != nil {
		return fmt.Errorf("failed to import correlation state: %w", err)
	}
	return nil
}

// ExportGenesis exports the module state to genesis
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()
	gs.Params = k.GetParams(ctx)

	err := k.Accounts.Walk(ctx, nil, func(_ string, account types.InterchainAccount) (bool, error) {
		gs.Accounts = append(gs.Accounts, account)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export accounts: %w", err)
	}

	if gs.Engine, err = k.engine.Export(ctx); err != nil {
		return nil, fmt.Errorf("failed to export correlation state: %w", err)
	}
	return gs, nil
}
