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

// MethodAccountInfo is the RPC method that answers account info queries
const MethodAccountInfo = "/ledger.CryptoService/GetAccountInfo"

// AccountInfoQuery returns the full state of an account. It must be paid for
type AccountInfoQuery struct {
	*Builder[*AccountInfo]
}

// NewAccountInfoQuery returns a new account info query
func NewAccountInfoQuery(opts ...BuilderOption) *AccountInfoQuery {
	q := &Query{
		AccountInfo: &AccountInfoQueryBody{},
	}
	return &AccountInfoQuery{
		Builder: NewBuilder[*AccountInfo](accountInfoKind{}, q, opts...),
	}
}

// SetAccountID sets the account to describe
func (q *AccountInfoQuery) SetAccountID(id ledger.AccountID) *AccountInfoQuery {
	q.query.AccountInfo.AccountID = &id
	return q
}

type accountInfoKind struct{}

func (accountInfoKind) Method() string {
	return MethodAccountInfo
}

func (accountInfoKind) Header(q *Query) *Header {
	return &q.AccountInfo.Header
}

func (accountInfoKind) ValidateLocal(q *Query, v *Validation) {
	if q.AccountInfo.AccountID == nil {
		v.Addf("account ID must be set")
	}
}

func (accountInfoKind) MapResponseHeader(resp *Response) (ResponseHeader, error) {
	if resp.AccountInfo == nil {
		return ResponseHeader{}, UnexpectedResponseError{Method: MethodAccountInfo}
	}
	return resp.AccountInfo.Header, nil
}

func (accountInfoKind) MapResult(resp *Response) (*AccountInfo, error) {
	if resp.AccountInfo == nil || resp.AccountInfo.Info == nil {
		return nil, UnexpectedResponseError{Method: MethodAccountInfo}
	}
	return resp.AccountInfo.Info, nil
}
