package correlation

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/gogoproto/proto"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// ReplyOn tells the host when to call back with the outcome of a submessage.
type ReplyOn string

const (
	ReplyNever     ReplyOn = "never"
	ReplyOnSuccess ReplyOn = "success"
	ReplyOnError   ReplyOn = "error"
	ReplyAlways    ReplyOn = "always"
)

// SubMsg is a message returned to the host for execution after the current
// entry point finishes. ID routes the reply back to the issuing engine.
type SubMsg struct {
	ID      uint64          `json:"id"`
	Msg     *codectypes.Any `json:"msg"`
	ReplyOn ReplyOn         `json:"reply_on"`
}

// PackMsg wraps an SDK message in an Any.
func PackMsg(msg proto.Message) (*codectypes.Any, error) {
	anyMsg, err := codectypes.NewAnyWithValue(msg)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrPackAny, "cannot pack %T: %s", msg, err)
	}
	return anyMsg, nil
}

// NewSubMsg returns a fire-and-forget submessage for msg.
func NewSubMsg(msg proto.Message) (SubMsg, error) {
	anyMsg, err := PackMsg(msg)
	if err != nil {
		return SubMsg{}, err
	}
	return SubMsg{Msg: anyMsg, ReplyOn: ReplyNever}, nil
}

// Reply is the host callback confirming a submessage was executed locally.
// Data holds the encoded message responses on success; Error is set when the
// host could not execute the submessage.
type Reply struct {
	ID    uint64 `json:"id"`
	Data  []byte `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Response is what an entry point hands back to the host.
type Response struct {
	Messages   []SubMsg        `json:"messages,omitempty"`
	Attributes []sdk.Attribute `json:"attributes,omitempty"`
	Data       []byte          `json:"data,omitempty"`
}

// NewResponse returns an empty response.
func NewResponse() *Response {
	return &Response{}
}

// AddMessage appends an outgoing submessage.
func (r *Response) AddMessage(msg SubMsg) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

// AddAttribute appends a key/value attribute.
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, sdk.NewAttribute(key, value))
	return r
}
