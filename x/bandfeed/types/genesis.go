package types

import (
	"fmt"

	"github.com/neutron-org/neutron-sdk-sub001/x/shared/correlation"
)

// GenesisState defines the bandfeed module's genesis state.
type GenesisState struct {
	Params    Params                            `json:"params"`
	ChannelID string                            `json:"channel_id,omitempty"`
	Engine    correlation.State[RequestPayload] `json:"engine"`
	Accepted  []AcceptedRequest                 `json:"accepted,omitempty"`
	Rates     []Rate                            `json:"rates,omitempty"`
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
	if gs.ChannelID != "" {
		if err := ValidateChannelID(gs.ChannelID); err != nil {
			return err
		}
	}
	if err := gs.Engine.Validate(ReplyRange); err != nil {
		return err
	}

	ids := make(map[uint64]struct{}, len(gs.Accepted))
	for _, req := range gs.Accepted {
		if req.RequestID == 0 {
			return fmt.Errorf("accepted request with zero id")
		}
		if _, dup := ids[req.RequestID]; dup {
			return fmt.Errorf("duplicate accepted request %d", req.RequestID)
		}
		ids[req.RequestID] = struct{}{}
	}

	symbols := make(map[string]struct{}, len(gs.Rates))
	for _, rate := range gs.Rates {
		if _, dup := symbols[rate.Symbol]; dup {
			return fmt.Errorf("duplicate rate for %s", rate.Symbol)
		}
		symbols[rate.Symbol] = struct{}{}
	}
	return nil
}
