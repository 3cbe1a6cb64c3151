package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/bandfeed/types"
)

// InitGenesis initializes the module state from genesis
func (k Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	if gs.ChannelID != "" {
		if err := k.Channel.Set(ctx, gs.ChannelID); err != nil {
			return err
		}
	}
	if err := k.engine.Import(ctx, gs.Engine); err != nil {
		return err
	}
	for _, req := range gs.Accepted {
		if err := k.Accepted.Set(ctx, req.RequestID, req); err != nil {
			return err
		}
	}
	for _, rate := range gs.Rates {
		if err := k.Rates.Set(ctx, rate.Symbol, rate); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis exports the module state to genesis
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	engine, err := k.engine.Export(ctx)
	if err != nil {
		return nil, err
	}
	gs := &types.GenesisState{Params: k.GetParams(ctx), Engine: engine}

	channel, err := k.ChannelStatus(ctx)
	if err != nil {
		return nil, err
	}
	gs.ChannelID = channel.ChannelID

	err = k.Accepted.Walk(ctx, nil, func(_ uint64, req types.AcceptedRequest) (bool, error) {
		gs.Accepted = append(gs.Accepted, req)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	err = k.Rates.Walk(ctx, nil, func(_ string, rate types.Rate) (bool, error) {
		gs.Rates = append(gs.Rates, rate)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
