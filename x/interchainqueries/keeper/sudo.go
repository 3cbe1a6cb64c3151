package keeper

import (
	"encoding/hex"
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"github.com/cometbft/cometbft/crypto/tmhash"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/neutron-org/neutron-sdk-sub001/x/interchainqueries/types"
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// Sudo dispatches a host callback.
func (k Keeper) Sudo(ctx sdk.Context, msg correlation.SudoMsg) (*correlation.Response, error) {
	switch m := msg.(type) {
	case correlation.SudoKVQueryResult:
		return k.SudoKVQueryResult(ctx, m)
	case correlation.SudoTxQueryResult:
		return k.SudoTxQueryResult(ctx, m)
	case nil:
		return nil, errorsmod.Wrap(correlation.ErrInvalidSudoMsg, "empty sudo message")
	default:
		return nil, errorsmod.Wrapf(correlation.ErrInvalidSudoMsg, "%s is not handled by %s", correlation.SudoKind(msg), types.ModuleName)
	}
}

// lookup returns the identity of queryID if it is registered with the wanted
// type. Any mismatch is recorded as recoverable and ok is false.
func (k Keeper) lookup(ctx sdk.Context, operation string, queryID uint64, want types.QueryType) (types.QueryIdentity, bool, error) {
	identity, found, err := k.engine.Pending().GetByTransportKey(ctx, queryKey(queryID))
	if err != nil {
		return types.QueryIdentity{}, false, err
	}
	if !found {
		k.engine.LogRecoverable(ctx, operation, correlation.SeverityHigh,
			errorsmod.Wrapf(types.ErrQueryNotFound, "query %d", queryID))
		return types.QueryIdentity{}, false, nil
	}
	if identity.QueryType != want {
		k.engine.LogRecoverable(ctx, operation, correlation.SeverityMedium,
			errorsmod.Wrapf(types.ErrInvalidQueryResult, "query %d is a %s query", queryID, identity.QueryType))
		return types.QueryIdentity{}, false, nil
	}
	return identity, true, nil
}

// SudoKVQueryResult pulls the updated result of a KV query from the host and
// caches its decoded form. Results that cannot be read or decoded are
// recorded in the error queue and the previous value is kept.
func (k Keeper) SudoKVQueryResult(ctx sdk.Context, msg correlation.SudoKVQueryResult) (*correlation.Response, error) {
	const operation = "kv_query_result"
	resp := correlation.NewResponse()

	identity, ok, err := k.lookup(ctx, operation, msg.QueryID, types.QueryTypeKV)
	if err != nil || !ok {
		return resp, err
	}

	result, err := k.icqKeeper.GetQueryResult(ctx, msg.QueryID)
	if err != nil {
		k.engine.LogRecoverable(ctx, operation, correlation.SeverityHigh,
			errorsmod.Wrapf(err, "cannot read result of query %d", msg.QueryID))
		return resp, nil
	}

	switch identity.Kind {
	case types.KindBalance:
		balances, err := decodeBalances(identity, result)
		if err != nil {
			k.engine.LogRecoverable(ctx, operation, correlation.SeverityMedium,
				errorsmod.Wrapf(err, "query %d", msg.QueryID))
			return resp, nil
		}
		if err := k.Balances.Set(ctx, msg.QueryID, balances); err != nil {
			return nil, err
		}
	case types.KindDelegations:
		delegations, err := decodeDelegations(identity, result)
		if err != nil {
			k.engine.LogRecoverable(ctx, operation, correlation.SeverityMedium,
				errorsmod.Wrapf(err, "query %d", msg.QueryID))
			return resp, nil
		}
		if err := k.Delegations.Set(ctx, msg.QueryID, delegations); err != nil {
			return nil, err
		}
	default:
		k.engine.LogRecoverable(ctx, operation, correlation.SeverityMedium,
			errorsmod.Wrapf(types.ErrInvalidQueryResult, "query %d has kind %q", msg.QueryID, identity.Kind))
		return resp, nil
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeKVResult,
			sdk.NewAttribute(types.AttributeKeyQueryID, fmt.Sprintf("%d", msg.QueryID)),
			sdk.NewAttribute(types.AttributeKeyKind, string(identity.Kind)),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", result.Height)),
		),
	)
	return resp.AddAttribute(types.AttributeKeyQueryID, fmt.Sprintf("%d", msg.QueryID)), nil
}

// SudoTxQueryResult records the bank sends to the watched recipient found in
// one transaction. The host does not prove that the transaction matches the
// filter, so a transaction without such a send is rejected.
func (k Keeper) SudoTxQueryResult(ctx sdk.Context, msg correlation.SudoTxQueryResult) (*correlation.Response, error) {
	const operation = "tx_query_result"
	resp := correlation.NewResponse()

	identity, ok, err := k.lookup(ctx, operation, msg.QueryID, types.QueryTypeTX)
	if err != nil || !ok {
		return resp, err
	}
	if msg.Height.RevisionHeight < identity.MinHeight {
		k.engine.LogRecoverable(ctx, operation, correlation.SeverityLow,
			errorsmod.Wrapf(types.ErrInvalidQueryResult, "query %d: tx at height %d is below %d",
				msg.QueryID, msg.Height.RevisionHeight, identity.MinHeight))
		return resp, nil
	}

	hash := strings.ToUpper(hex.EncodeToString(tmhash.Sum(msg.Data)))
	// one tx can pay several watched recipients; each query sees it once
	processedKey := collections.Join(identity.Owner, hash)
	processed, err := k.ProcessedTxs.Has(ctx, processedKey)
	if err != nil {
		return nil, err
	}
	if processed {
		k.Logger(ctx).Debug("transaction already processed", "query_id", msg.QueryID, "tx_hash", hash)
		return resp.AddAttribute(types.AttributeKeyTxHash, hash), nil
	}

	transfers, err := decodeTransfers(identity.Owner, msg.Height.RevisionHeight, hash, msg.Data)
	if err != nil {
		return nil, err
	}
	if len(transfers) == 0 {
		return nil, errorsmod.Wrapf(types.ErrInvalidQueryResult, "tx %s has no transfer to %s", hash, identity.Owner)
	}

	if err := k.ProcessedTxs.Set(ctx, processedKey); err != nil {
		return nil, err
	}
	if err := k.Transfers.Set(ctx, collections.Join(identity.Owner, hash), transfers); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTxResult,
			sdk.NewAttribute(types.AttributeKeyQueryID, fmt.Sprintf("%d", msg.QueryID)),
			sdk.NewAttribute(types.AttributeKeyTxHash, hash),
			sdk.NewAttribute(types.AttributeKeyHeight, fmt.Sprintf("%d", msg.Height.RevisionHeight)),
			sdk.NewAttribute(types.AttributeKeyTransfers, fmt.Sprintf("%d", len(transfers))),
		),
	)
	k.Logger(ctx).Info("incoming transfers recorded",
		"query_id", msg.QueryID,
		"tx_hash", hash,
		"count", len(transfers),
	)
	return resp.
		AddAttribute(types.AttributeKeyTxHash, hash).
		AddAttribute(types.AttributeKeyTransfers, fmt.Sprintf("%d", len(transfers))), nil
}
