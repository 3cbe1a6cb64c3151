package types

import (
	"fmt"

	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// GenesisState defines the interchaintxs module's genesis state.
type GenesisState struct {
	Params   Params                         `json:"params"`
	Accounts []InterchainAccount            `json:"accounts,omitempty"`
	Engine   correlation.State[SudoPayload] `json:"engine"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	ports := make(map[string]struct{}, len(gs.Accounts))
	for _, acc := range gs.Accounts {
		if acc.PortID == "" {
			return fmt.Errorf("account %s has no port id", acc.InterchainAccountID)
		}
		if _, dup := ports[acc.PortID]; dup {
			return fmt.Errorf("duplicate interchain account for port %s", acc.PortID)
		}
		ports[acc.PortID] = struct{}{}
	}

	return gs.Engine.Validate(ReplyRange)
}
