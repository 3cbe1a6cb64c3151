package types

const (
	EventTypeTransferSent  = "ibctransfer_transfer_sent"
	EventTypeTransferAcked = "ibctransfer_transfer_acknowledged"

	AttributeKeyChannel   = "channel"
	AttributeKeyRecipient = "recipient"
	AttributeKeyAmount    = "amount"
	AttributeKeySequence  = "sequence"
	AttributeKeyKind      = "kind"
)
