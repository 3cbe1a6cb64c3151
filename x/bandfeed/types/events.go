package types

const (
	EventTypeRequestSent     = "bandfeed_request_sent"
	EventTypeRequestAccepted = "bandfeed_request_accepted"
	EventTypeRatesUpdated    = "bandfeed_rates_updated"

	AttributeKeyClientID  = "client_id"
	AttributeKeyRequestID = "request_id"
	AttributeKeySymbols   = "symbols"
	AttributeKeyChannel   = "channel"
	AttributeKeySequence  = "sequence"
)
