package types

const (
	EventTypeRegisterAccount   = "interchaintxs_register_account"
	EventTypeAccountOpened     = "interchaintxs_account_opened"
	EventTypeSubmitTx          = "interchaintxs_submit_tx"
	EventTypeTxAcknowledged    = "interchaintxs_tx_acknowledged"
	EventTypeErrorQueueCleared = "interchaintxs_error_queue_cleared"

	AttributeKeyPortID              = "port_id"
	AttributeKeyConnectionID        = "connection_id"
	AttributeKeyChannelID           = "channel_id"
	AttributeKeyAddress             = "address"
	AttributeKeyInterchainAccountID = "interchain_account_id"
	AttributeKeyMsgType             = "msg_type"
	AttributeKeySequence            = "sequence"
	AttributeKeyKind                = "kind"
)
