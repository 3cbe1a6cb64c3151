package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
)

// InitGenesis initializes the module state from genesis
func (k Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	if err := k.engine.Import(ctx, gs.Engine); err != nil {
		return fmt.Errorf("failed to import correlation state: %w", err)
	}
	for _, f := range gs.Engine.InFlight {
		if err := k.QueryIDs.Set(ctx, f.Payload.Key(), f.Key.Sequence); err != nil {
			return fmt.Errorf("failed to set query id %d: %w", f.Key.Sequence, err)
		}
	}

	for _, entry := range gs.Balances {
		if err := k.Balances.Set(ctx, entry.QueryID, entry.Balances); err != nil {
			return fmt.Errorf("failed to set balances of query %d: %w", entry.QueryID, err)
		}
	}
	for _, entry := range gs.Delegations {
		if err := k.Delegations.Set(ctx, entry.QueryID, entry.Delegations); err != nil {
			return fmt.Errorf("failed to set delegations of query %d: %w", entry.QueryID, err)
		}
	}

	type txKey struct{ recipient, hash string }
	batches := make(map[txKey][]types.Transfer)
	var order []txKey
	for _, transfer := range gs.Transfers {
		key := txKey{transfer.Recipient, transfer.TxHash}
		if _, ok := batches[key]; !ok {
			order = append(order, key)
		}
		batches[key] = append(batches[key], transfer)
	}
	for _, key := range order {
		if err := k.Transfers.Set(ctx, collections.Join(key.recipient, key.hash), batches[key]); err != nil {
			return fmt.Errorf("failed to set transfers of tx %s: %w", key.hash, err)
		}
	}

	for _, tx := range gs.ProcessedTxs {
		if err := k.ProcessedTxs.Set(ctx, collections.Join(tx.Recipient, tx.TxHash)); err != nil {
			return fmt.Errorf("failed to mark tx %s processed: %w", tx.TxHash, err)
		}
	}
	return nil
}

// ExportGenesis exports the module state to genesis
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()
	gs.Params = k.GetParams(ctx)

	var err error
	if gs.Engine, err = k.engine.Export(ctx); err != nil {
		return nil, fmt.Errorf("failed to export correlation state: %w", err)
	}

	err = k.Balances.Walk(ctx, nil, func(id uint64, balances types.Balances) (bool, error) {
		gs.Balances = append(gs.Balances, types.QueryBalances{QueryID: id, Balances: balances})
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export balances: %w", err)
	}
	err = k.Delegations.Walk(ctx, nil, func(id uint64, delegations types.Delegations) (bool, error) {
		gs.Delegations = append(gs.Delegations, types.QueryDelegationsEntry{QueryID: id, Delegations: delegations})
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export delegations: %w", err)
	}
	err = k.Transfers.Walk(ctx, nil, func(_ collections.Pair[string, string], batch []types.Transfer) (bool, error) {
		gs.Transfers = append(gs.Transfers, batch...)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export transfers: %w", err)
	}
	err = k.ProcessedTxs.Walk(ctx, nil, func(key collections.Pair[string, string]) (bool, error) {
		gs.ProcessedTxs = append(gs.ProcessedTxs, types.ProcessedTx{Recipient: key.K1(), TxHash: key.K2()})
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export processed txs: %w", err)
	}
	return gs, nil
}
