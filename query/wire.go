// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"fmt"

	"github.com/blinklabs-io/ledgerquery/cbor"
	"github.com/blinklabs-io/ledgerquery/ledger"
)

// ResponseType selects what a node returns for a query
type ResponseType uint8

const (
	ResponseTypeAnswerOnly           ResponseType = 0
	ResponseTypeAnswerStateProof     ResponseType = 1
	ResponseTypeCostAnswer           ResponseType = 2
	ResponseTypeCostAnswerStateProof ResponseType = 3
)

func (r ResponseType) String() string {
	switch r {
	case ResponseTypeAnswerOnly:
		return "ANSWER_ONLY"
	case ResponseTypeAnswerStateProof:
		return "ANSWER_STATE_PROOF"
	case ResponseTypeCostAnswer:
		return "COST_ANSWER"
	case ResponseTypeCostAnswerStateProof:
		return "COST_ANSWER_STATE_PROOF"
	default:
		return fmt.Sprintf("RESPONSE_TYPE_%d", uint8(r))
	}
}

// Header is carried inside every query body
type Header struct {
	Payment      *ledger.SignedTransaction `cbor:"1,keyasint,omitempty"`
	ResponseType ResponseType              `cbor:"2,keyasint"`
}

// Query is the request envelope sent to a node. Exactly one body is set
type Query struct {
	AccountBalance     *AccountBalanceQueryBody     `cbor:"1,keyasint,omitempty"`
	AccountInfo        *AccountInfoQueryBody        `cbor:"2,keyasint,omitempty"`
	TransactionReceipt *TransactionReceiptQueryBody `cbor:"3,keyasint,omitempty"`
}

type AccountBalanceQueryBody struct {
	Header    Header            `cbor:"1,keyasint"`
	AccountID *ledger.AccountID `cbor:"2,keyasint,omitempty"`
}

type AccountInfoQueryBody struct {
	Header    Header            `cbor:"1,keyasint"`
	AccountID *ledger.AccountID `cbor:"2,keyasint,omitempty"`
}

type TransactionReceiptQueryBody struct {
	Header        Header                `cbor:"1,keyasint"`
	TransactionID *ledger.TransactionID `cbor:"2,keyasint,omitempty"`
}

// Clone returns a deep copy of the query that shares no memory with the original
func (q *Query) Clone() (*Query, error) {
	ret := &Query{}
	if err := cbor.DeepCopy(ret, q); err != nil {
		return nil, fmt.Errorf("failed to clone query: %w", err)
	}
	return ret, nil
}

// Encode returns the wire form of the query
func (q *Query) Encode() ([]byte, error) {
	return cbor.Encode(q)
}

// DecodeQuery decodes a query from its wire form
func DecodeQuery(data []byte) (*Query, error) {
	var q Query
	if _, err := cbor.Decode(data, &q); err != nil {
		return nil, fmt.Errorf("failed to decode query: %w", err)
	}
	return &q, nil
}

// ResponseHeader is carried inside every response body
type ResponseHeader struct {
	Status       Status       `cbor:"1,keyasint"`
	ResponseType ResponseType `cbor:"2,keyasint"`
	Cost         uint64       `cbor:"3,keyasint"`
}

// Response is the reply envelope returned by a node. Exactly one body is set
type Response struct {
	AccountBalance     *AccountBalanceResponse     `cbor:"1,keyasint,omitempty"`
	AccountInfo        *AccountInfoResponse        `cbor:"2,keyasint,omitempty"`
	TransactionReceipt *TransactionReceiptResponse `cbor:"3,keyasint,omitempty"`
}

type AccountBalanceResponse struct {
	Header    ResponseHeader   `cbor:"1,keyasint"`
	AccountID ledger.AccountID `cbor:"2,keyasint"`
	Balance   ledger.Amount    `cbor:"3,keyasint"`
}

type AccountInfoResponse struct {
	Header ResponseHeader `cbor:"1,keyasint"`
	Info   *AccountInfo   `cbor:"2,keyasint,omitempty"`
}

// AccountInfo describes an account
type AccountInfo struct {
	AccountID         ledger.AccountID `cbor:"1,keyasint"`
	Key               []byte           `cbor:"2,keyasint"`
	Balance           ledger.Amount    `cbor:"3,keyasint"`
	Deleted           bool             `cbor:"4,keyasint"`
	ExpirationSeconds int64            `cbor:"5,keyasint"`
	AutoRenewSeconds  int64            `cbor:"6,keyasint"`
	Memo              string           `cbor:"7,keyasint"`
}

type TransactionReceiptResponse struct {
	Header  ResponseHeader      `cbor:"1,keyasint"`
	Receipt *TransactionReceipt `cbor:"2,keyasint,omitempty"`
}

// TransactionReceipt is the consensus outcome of a transaction
type TransactionReceipt struct {
	Status    Status            `cbor:"1,keyasint"`
	AccountID *ledger.AccountID `cbor:"2,keyasint,omitempty"`
}

// Encode returns the wire form of the response
func (r *Response) Encode() ([]byte, error) {
	return cbor.Encode(r)
}

// DecodeResponse decodes a response from its wire form
func DecodeResponse(data []byte) (*Response, error) {
	var r Response
	if _, err := cbor.Decode(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &r, nil
}
