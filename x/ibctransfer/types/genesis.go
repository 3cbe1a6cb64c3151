package types

import (
	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// GenesisState defines the ibctransfer module's genesis state.
type GenesisState struct {
	Params Params                             `json:"params"`
	Engine correlation.State[TransferPayload] `json:"engine"`
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
	return gs.Engine.Validate(ReplyRange)
}
