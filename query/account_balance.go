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

import "github.com/blinklabs-io/ledgerquery/ledger"

// MethodAccountBalance is the RPC method that answers account balance queries
const MethodAccountBalance = "/ledger.CryptoService/GetAccountBalance"

// AccountBalance is the result of an AccountBalanceQuery
type AccountBalance struct {
	AccountID ledger.AccountID
	Balance   ledger.Amount
}

// AccountBalanceQuery returns the balance of an account. Nodes answer it for free
type AccountBalanceQuery struct {
	*Builder[*AccountBalance]
}

// NewAccountBalanceQuery returns a new balance query
func NewAccountBalanceQuery(opts ...BuilderOption) *AccountBalanceQuery {
	q := &Query{
		AccountBalance: &AccountBalanceQueryBody{},
	}
	return &AccountBalanceQuery{
		Builder: NewBuilder[*AccountBalance](accountBalanceKind{}, q, opts...),
	}
}

// SetAccountID sets the account whose balance is requested
func (q *AccountBalanceQuery) SetAccountID(id ledger.AccountID) *AccountBalanceQuery {
	q.query.AccountBalance.AccountID = &id
	return q
}

type accountBalanceKind struct{}

func (accountBalanceKind) Method() string {
	return MethodAccountBalance
}

func (accountBalanceKind) Header(q *Query) *Header {
	return &q.AccountBalance.Header
}

func (accountBalanceKind) PaymentRequired() bool {
	return false
}

func (accountBalanceKind) ValidateLocal(q *Query, v *Validation) {
	if q.AccountBalance.AccountID == nil {
		v.Addf("account ID must be set")
	}
}

func (accountBalanceKind) MapResponseHeader(resp *Response) (ResponseHeader, error) {
	if resp.AccountBalance == nil {
		return ResponseHeader{}, UnexpectedResponseError{Method: MethodAccountBalance}
	}
	return resp.AccountBalance.Header, nil
}

func (accountBalanceKind) MapResult(resp *Response) (*AccountBalance, error) {
	if resp.AccountBalance == nil {
		return nil, UnexpectedResponseError{Method: MethodAccountBalance}
	}
	return &AccountBalance{
		AccountID: resp.AccountBalance.AccountID,
		Balance:   resp.AccountBalance.Balance,
	}, nil
}
