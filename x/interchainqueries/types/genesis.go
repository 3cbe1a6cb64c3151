package types

import (
	"fmt"

	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// QueryBalances pairs a query id with its cached balances.
type QueryBalances struct {
	QueryID  uint64   `json:"query_id"`
	Balances Balances `json:"balances"`
}

// QueryDelegationsEntry pairs a query id with its cached delegations.
type QueryDelegationsEntry struct {
	QueryID     uint64      `json:"query_id"`
	Delegations Delegations `json:"delegations"`
}

// GenesisState defines the interchainqueries module's genesis state. The
// identity to id mapping is rebuilt from the in-flight engine entries.
type GenesisState struct {
	Params       Params                           `json:"params"`
	Engine       correlation.State[QueryIdentity] `json:"engine"`
	Balances     []QueryBalances                  `json:"balances,omitempty"`
	Delegations  []QueryDelegationsEntry          `json:"delegations,omitempty"`
	Transfers    []Transfer                       `json:"transfers,omitempty"`
	ProcessedTxs []ProcessedTx                    `json:"processed_txs,omitempty"`
}

// ProcessedTx marks a transaction whose transfers to Recipient are stored.
type ProcessedTx struct {
	Recipient string `json:"recipient"`
	TxHash    string `json:"tx_hash"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Params: DefaultParams()}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if err := gs.Engine.Validate(ReplyRange); err != nil {
		return err
	}

	identities := make(map[string]struct{}, len(gs.Engine.InFlight))
	for _, f := range gs.Engine.InFlight {
		if f.Key.Source != "" {
			return fmt.Errorf("query %d has a non-empty source %q", f.Key.Sequence, f.Key.Source)
		}
		if _, dup := identities[f.Payload.Key()]; dup {
			return fmt.Errorf("duplicate query identity %s", f.Payload.Key())
		}
		identities[f.Payload.Key()] = struct{}{}
	}

	txs := make(map[ProcessedTx]struct{}, len(gs.ProcessedTxs))
	for _, tx := range gs.ProcessedTxs {
		if tx.Recipient == "" || tx.TxHash == "" {
			return fmt.Errorf("processed tx %q of recipient %q is incomplete", tx.TxHash, tx.Recipient)
		}
		if _, dup := txs[tx]; dup {
			return fmt.Errorf("duplicate processed tx %s for %s", tx.TxHash, tx.Recipient)
		}
		txs[tx] = struct{}{}
	}
	return nil
}
