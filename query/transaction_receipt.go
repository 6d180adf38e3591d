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
	"time"

	"github.com/blinklabs-io/ledgerquery/ledger"
)

const (
	// MethodTransactionReceipt is the RPC method that answers receipt queries
	MethodTransactionReceipt = "/ledger.CryptoService/GetTransactionReceipt"
	// DefaultReceiptTimeout bounds how long a receipt query waits for consensus
	DefaultReceiptTimeout = 2 * time.Minute
)

// TransactionReceiptQuery waits for and returns the receipt of a transaction.
// Nodes answer it for free. Besides BUSY it keeps polling while the receipt is
// not yet available
type TransactionReceiptQuery struct {
	*Builder[*TransactionReceipt]
}

// NewTransactionReceiptQuery returns a new receipt query
func NewTransactionReceiptQuery(opts ...BuilderOption) *TransactionReceiptQuery {
	q := &Query{
		TransactionReceipt: &TransactionReceiptQueryBody{},
	}
	return &TransactionReceiptQuery{
		Builder: NewBuilder[*TransactionReceipt](transactionReceiptKind{}, q, opts...),
	}
}

// SetTransactionID sets the transaction whose receipt is requested
func (q *TransactionReceiptQuery) SetTransactionID(id ledger.TransactionID) *TransactionReceiptQuery {
	q.query.TransactionReceipt.TransactionID = &id
	return q
}

type transactionReceiptKind struct{}

func (transactionReceiptKind) Method() string {
	return MethodTransactionReceipt
}

func (transactionReceiptKind) Header(q *Query) *Header {
	return &q.TransactionReceipt.Header
}

func (transactionReceiptKind) PaymentRequired() bool {
	return false
}

func (transactionReceiptKind) ExecuteTimeout() time.Duration {
	return DefaultReceiptTimeout
}

func (transactionReceiptKind) ShouldRetry(status Status, resp *Response) bool {
	switch status {
	case StatusBusy, StatusUnknown, StatusReceiptNotFound:
		return true
	case StatusOk:
		// Reached a node before consensus did
		return resp.TransactionReceipt != nil &&
			resp.TransactionReceipt.Receipt != nil &&
			resp.TransactionReceipt.Receipt.Status == StatusUnknown
	default:
		return false
	}
}

func (transactionReceiptKind) ValidateLocal(q *Query, v *Validation) {
	if q.TransactionReceipt.TransactionID == nil {
		v.Addf("transaction ID must be set")
	}
}

func (transactionReceiptKind) MapResponseHeader(resp *Response) (ResponseHeader, error) {
	if resp.TransactionReceipt == nil {
		return ResponseHeader{}, UnexpectedResponseError{Method: MethodTransactionReceipt}
	}
	return resp.TransactionReceipt.Header, nil
}

func (transactionReceiptKind) MapResult(resp *Response) (*TransactionReceipt, error) {
	if resp.TransactionReceipt == nil || resp.TransactionReceipt.Receipt == nil {
		return nil, UnexpectedResponseError{Method: MethodTransactionReceipt}
	}
	return resp.TransactionReceipt.Receipt, nil
}
