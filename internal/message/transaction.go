package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gabapcia/insightwatch/internal/pkg/validator"
)

// Output is one element of an announcement's vout: a single address and the amount it receives.
// It is encoded as the single-key object {"<address>": <amount>}.
type Output struct {
	Address string  `validate:"required"`
	Amount  float64 `validate:"gte=0"`
}

// MarshalJSON encodes the output as a single-key object.
func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{o.Address: o.Amount})
}

// UnmarshalJSON decodes a single-key object with a numeric amount.
func (o *Output) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("%w: vout element is null", ErrMalformedMessage)
	}

	var entry map[string]json.RawMessage
	if err := json.Unmarshal(data, &entry); err != nil {
		return fmt.Errorf("%w: vout element: %w", ErrMalformedMessage, err)
	}

	if len(entry) != 1 {
		return fmt.Errorf("%w: vout element has %d keys, want exactly 1", ErrMalformedMessage, len(entry))
	}

	for address, rawAmount := range entry {
		var amount float64
		if bytes.Equal(bytes.TrimSpace(rawAmount), []byte("null")) {
			return fmt.Errorf("%w: vout amount for %q is null", ErrMalformedMessage, address)
		}
		if err := json.Unmarshal(rawAmount, &amount); err != nil {
			return fmt.Errorf("%w: vout amount for %q: %w", ErrMalformedMessage, address, err)
		}

		*o = Output{Address: address, Amount: amount}
	}

	return nil
}

// TransactionAnnouncement is the broadcast summary of a new transaction.
type TransactionAnnouncement struct {
	TxID     string   `json:"txid" validate:"required,hexstring"`
	ValueOut float64  `json:"valueOut" validate:"gte=0"`
	IsRBF    bool     `json:"isRBF"`
	Vout     []Output `json:"vout" validate:"dive"`
}

type rawTransactionAnnouncement struct {
	TxID     *string   `json:"txid"`
	ValueOut *float64  `json:"valueOut"`
	IsRBF    *bool     `json:"isRBF"`
	Vout     *[]Output `json:"vout"`
}

// MarshalJSON is implemented so Vout is always encoded as an array.
func (t TransactionAnnouncement) MarshalJSON() ([]byte, error) {
	type alias TransactionAnnouncement
	out := alias(t)
	if out.Vout == nil {
		out.Vout = []Output{}
	}
	return json.Marshal(out)
}

// ParseTransactionAnnouncement validates a transaction broadcast. Any malformed vout element
// rejects the whole announcement.
func ParseTransactionAnnouncement(v any, opts ...ParseOption) (TransactionAnnouncement, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var raw rawTransactionAnnouncement
	if err := decode(v, &raw); err != nil {
		return TransactionAnnouncement{}, err
	}

	switch {
	case raw.TxID == nil:
		return TransactionAnnouncement{}, missing("txid")
	case raw.ValueOut == nil:
		return TransactionAnnouncement{}, missing("valueOut")
	case raw.IsRBF == nil:
		return TransactionAnnouncement{}, missing("isRBF")
	case raw.Vout == nil:
		return TransactionAnnouncement{}, missing("vout")
	}

	tx := TransactionAnnouncement{
		TxID:     *raw.TxID,
		ValueOut: *raw.ValueOut,
		IsRBF:    *raw.IsRBF,
		Vout:     append([]Output{}, (*raw.Vout)...),
	}

	if err := validator.Validate(tx); err != nil {
		return TransactionAnnouncement{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	if cfg.addressValidator != nil {
		for i, out := range tx.Vout {
			if !cfg.addressValidator.IsValid(out.Address) {
				return TransactionAnnouncement{}, fmt.Errorf("%w: %w: vout[%d] %q", ErrMalformedMessage, ErrInvalidAddress, i, out.Address)
			}
		}
	}

	return tx, nil
}

// Amount is an output value as found in detail records: Insight encodes it as a decimal
// string, bitcoind as a JSON number. Both decode; it is encoded back as a number.
type Amount float64

// UnmarshalJSON accepts a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: amount is null", ErrMalformedMessage)
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: amount: %w", ErrMalformedMessage, err)
		}
		data = []byte(s)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: amount %q is not a number", ErrMalformedMessage, data)
	}

	*a = Amount(f)
	return nil
}

// DetailOutput is the part of a detail record output the engine relies on.
type DetailOutput struct {
	N         int      `json:"n"`
	Value     Amount   `json:"value" validate:"gte=0"`
	Addresses []string `json:"addresses"`
}

// TransactionDetail is the full transaction record returned by a detail fetch. Besides TxID
// and Vout, the original record is kept and re-encoded verbatim by MarshalJSON.
type TransactionDetail struct {
	TxID string         `validate:"required,hexstring"`
	Vout []DetailOutput `validate:"dive"`

	raw json.RawMessage
}

type rawTransactionDetail struct {
	TxID *string `json:"txid"`
	Vout *[]struct {
		N            int     `json:"n"`
		Value        *Amount `json:"value"`
		ScriptPubKey struct {
			Addresses []string `json:"addresses"`
			Address   string   `json:"address"`
		} `json:"scriptPubKey"`
	} `json:"vout"`
}

// Raw returns the original record.
func (t TransactionDetail) Raw() json.RawMessage {
	return t.raw
}

// MarshalJSON re-emits the original record. A detail built without one is encoded in the
// record shape, with addresses under scriptPubKey.
func (t TransactionDetail) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}

	// Same shape ParseTransactionDetail reads, so a built record survives a re-parse.
	type script struct {
		Addresses []string `json:"addresses,omitempty"`
	}
	type output struct {
		N            int    `json:"n"`
		Value        Amount `json:"value"`
		ScriptPubKey script `json:"scriptPubKey"`
	}
	type view struct {
		TxID string   `json:"txid"`
		Vout []output `json:"vout"`
	}

	vout := make([]output, 0, len(t.Vout))
	for _, out := range t.Vout {
		vout = append(vout, output{N: out.N, Value: out.Value, ScriptPubKey: script{Addresses: out.Addresses}})
	}
	return json.Marshal(view{TxID: t.TxID, Vout: vout})
}

// ParseTransactionDetail validates a transaction record. Output addresses are read from
// scriptPubKey.addresses, or from the single scriptPubKey.address newer nodes report.
func ParseTransactionDetail(v any) (TransactionDetail, error) {
	data, err := payload(v)
	if err != nil {
		return TransactionDetail{}, err
	}

	var raw rawTransactionDetail
	if err := json.Unmarshal(data, &raw); err != nil {
		return TransactionDetail{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	switch {
	case raw.TxID == nil:
		return TransactionDetail{}, missing("txid")
	case raw.Vout == nil:
		return TransactionDetail{}, missing("vout")
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return TransactionDetail{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	detail := TransactionDetail{
		TxID: *raw.TxID,
		Vout: make([]DetailOutput, 0, len(*raw.Vout)),
		raw:  compact.Bytes(),
	}

	for i, out := range *raw.Vout {
		if out.Value == nil {
			return TransactionDetail{}, missing(fmt.Sprintf("vout[%d].value", i))
		}

		addresses := out.ScriptPubKey.Addresses
		if len(addresses) == 0 && out.ScriptPubKey.Address != "" {
			addresses = []string{out.ScriptPubKey.Address}
		}

		detail.Vout = append(detail.Vout, DetailOutput{
			N:         out.N,
			Value:     *out.Value,
			Addresses: addresses,
		})
	}

	if err := validator.Validate(detail); err != nil {
		return TransactionDetail{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	return detail, nil
}
