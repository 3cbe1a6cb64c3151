// Package correlation implements the pending-request correlation engine shared by
// every module that issues asynchronous cross-chain requests.
//
// A request moves through three states:
//
//	Issued         payload stored under a locally allocated correlation id
//	ReplyReceived  payload re-keyed under the host-assigned TransportKey
//	Terminal       an AcknowledgementResult recorded for the TransportKey
//
// The reply and terminal steps are driven by host callbacks delivered in later,
// unrelated transactions. Malformed protocol data and violations of the
// single-write invariants are returned as errors so the host rolls the
// transaction back. A missing local payload is logged to the ErrorQueue and the
// callback succeeds, so the channel that delivered it stays open.
package correlation
