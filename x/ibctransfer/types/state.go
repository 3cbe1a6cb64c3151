package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TransferPayload is kept for every outgoing transfer until the host reports
// its outcome.
type TransferPayload struct {
	Channel   string   `json:"channel"`
	Recipient string   `json:"recipient"`
	Amount    sdk.Coin `json:"amount"`
	Message   string   `json:"message,omitempty"`
}
