package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/ibctransfer/types"
)

// InitGenesis initializes the module state from genesis
func (k Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	return k.engine.Import(ctx, gs.Engine)
}

// ExportGenesis exports the module state to genesis
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	engine, err := k.engine.Export(ctx)
	if err != nil {
		return nil, err
	}
	return &types.GenesisState{Params: k.GetParams(ctx), Engine: engine}, nil
}
