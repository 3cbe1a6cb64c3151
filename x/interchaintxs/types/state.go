package types

import (
	"fmt"
	"strings"

	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"
)

// SudoPayload is kept for every submitted interchain transaction until the
// host reports its outcome. ChannelID is the account channel at submission;
// sequences restart on every channel the account is reopened on.
type SudoPayload struct {
	PortID    string `json:"port_id"`
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
}

// InterchainAccount is an account opened on a remote chain and controlled by
// this module through PortID.
type InterchainAccount struct {
	InterchainAccountID   string `json:"interchain_account_id"`
	PortID                string `json:"port_id"`
	ConnectionID          string `json:"connection_id"`
	ChannelID             string `json:"channel_id"`
	CounterpartyChannelID string `json:"counterparty_channel_id"`
	Address               string `json:"address"`
}

// AccountOwner returns the ICA owner string for interchainAccountID.
func AccountOwner(owner, interchainAccountID string) string {
	return owner + "." + interchainAccountID
}

// PortIDFor returns the controller port of an interchain account.
func PortIDFor(owner, interchainAccountID string) (string, error) {
	return icatypes.NewControllerPortID(AccountOwner(owner, interchainAccountID))
}

// ParsePortID extracts the interchain account id from a controller port of owner.
func ParsePortID(owner, portID string) (string, error) {
	prefix := icatypes.ControllerPortPrefix + owner + "."
	if !strings.HasPrefix(portID, prefix) {
		return "", fmt.Errorf("port %s is not controlled by %s", portID, owner)
	}
	id := strings.TrimPrefix(portID, prefix)
	if err := ValidateInterchainAccountID(id); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateInterchainAccountID checks an interchain account id.
func ValidateInterchainAccountID(id string) error {
	if id == "" {
		return fmt.Errorf("interchain account id cannot be empty")
	}
	if len(id) > 47 {
		return fmt.Errorf("interchain account id longer than 47 characters")
	}
	if strings.ContainsAny(id, "./ ") {
		return fmt.Errorf("interchain account id %q contains a reserved character", id)
	}
	return nil
}
