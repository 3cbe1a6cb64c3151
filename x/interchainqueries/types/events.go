package types

const (
	EventTypeRegisterQuery = "interchainqueries_register_query"
	EventTypeQueryRemoved  = "interchainqueries_query_removed"
	EventTypeKVResult      = "interchainqueries_kv_result"
	EventTypeTxResult      = "interchainqueries_tx_result"

	AttributeKeyQueryID      = "query_id"
	AttributeKeyQueryType    = "query_type"
	AttributeKeyKind         = "kind"
	AttributeKeyConnectionID = "connection_id"
	AttributeKeyHeight       = "height"
	AttributeKeyTxHash       = "tx_hash"
	AttributeKeyTransfers    = "transfers"
)
