package message

import (
	"encoding/json"
	"fmt"

	"github.com/gabapcia/insightwatch/internal/pkg/types"
	"github.com/gabapcia/insightwatch/internal/pkg/validator"
)

// BlockAnnouncement is the hash of a newly announced block.
type BlockAnnouncement string

// String returns the block hash.
func (b BlockAnnouncement) String() string {
	return string(b)
}

// ParseBlockAnnouncement validates a block hash. A Go string may be the bare hash or a JSON
// string literal; raw JSON must be a string literal.
func ParseBlockAnnouncement(v any) (BlockAnnouncement, error) {
	var s string
	switch x := v.(type) {
	case BlockAnnouncement:
		s = string(x)
	case types.HexString:
		s = string(x)
	case string:
		s = x
		if !types.IsHex(s) {
			if err := json.Unmarshal([]byte(x), &s); err != nil {
				return "", fmt.Errorf("%w: block hash %q is not hex", ErrMalformedMessage, x)
			}
		}
	case []byte:
		return ParseBlockAnnouncement(json.RawMessage(x))
	case json.RawMessage:
		if err := json.Unmarshal(x, &s); err != nil {
			return "", fmt.Errorf("%w: block hash must be a JSON string: %w", ErrMalformedMessage, err)
		}
	default:
		return "", fmt.Errorf("%w: block hash must be a string, got %T", ErrMalformedMessage, v)
	}

	if !types.IsHex(s) {
		return "", fmt.Errorf("%w: block hash %q is not hex", ErrMalformedMessage, s)
	}

	return BlockAnnouncement(s), nil
}

// BlockDetail is the fuller block record fetched for an announcement.
type BlockDetail struct {
	Hash              string   `json:"hash" validate:"required,hexstring"`
	PreviousBlockHash string   `json:"previousblockhash" validate:"omitempty,hexstring"`
	Height            int64    `json:"height" validate:"gte=0"`
	Confirmations     int64    `json:"confirmations" validate:"gte=0"`
	Time              int64    `json:"time"`
	TransactionIDs    []string `json:"transactionIds" validate:"dive,hexstring"`
}

// rawBlockDetail mirrors the Insight and bitcoind block records. Pointers tell absent
// fields apart from zero values.
type rawBlockDetail struct {
	Hash              *string   `json:"hash"`
	PreviousBlockHash *string   `json:"previousblockhash"`
	Height            *int64    `json:"height"`
	Confirmations     *int64    `json:"confirmations"`
	Time              *int64    `json:"time"`
	Tx                *[]string `json:"tx"`
	TransactionIDs    *[]string `json:"transactionIds"`
}

// ParseBlockDetail validates a block record. The upstream "tx" list becomes TransactionIDs;
// an encoded BlockDetail ("transactionIds") is accepted as well.
//
// Only the genesis block (height 0) may omit the previous block hash.
func ParseBlockDetail(v any) (BlockDetail, error) {
	var raw rawBlockDetail
	if err := decode(v, &raw); err != nil {
		return BlockDetail{}, err
	}

	switch {
	case raw.Hash == nil:
		return BlockDetail{}, missing("hash")
	case raw.Height == nil:
		return BlockDetail{}, missing("height")
	case raw.Confirmations == nil:
		return BlockDetail{}, missing("confirmations")
	case raw.Time == nil:
		return BlockDetail{}, missing("time")
	case raw.PreviousBlockHash == nil && *raw.Height != 0:
		return BlockDetail{}, missing("previousblockhash")
	}

	txs := raw.Tx
	if txs == nil {
		txs = raw.TransactionIDs
	}
	if txs == nil {
		return BlockDetail{}, missing("tx")
	}

	detail := BlockDetail{
		Hash:           *raw.Hash,
		Height:         *raw.Height,
		Confirmations:  *raw.Confirmations,
		Time:           *raw.Time,
		TransactionIDs: append([]string{}, (*txs)...),
	}
	if raw.PreviousBlockHash != nil {
		detail.PreviousBlockHash = *raw.PreviousBlockHash
	}

	if err := validator.Validate(detail); err != nil {
		return BlockDetail{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	return detail, nil
}

// MarshalJSON is implemented so TransactionIDs is always encoded as an array.
func (b BlockDetail) MarshalJSON() ([]byte, error) {
	type alias BlockDetail
	out := alias(b)
	if out.TransactionIDs == nil {
		out.TransactionIDs = []string{}
	}
	return json.Marshal(out)
}
