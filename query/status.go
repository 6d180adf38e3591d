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

import "fmt"

// Status is a precheck status code returned by the contacted node
type Status uint32

const (
	StatusOk                       Status = 0
	StatusInvalidTransaction       Status = 1
	StatusPayerAccountNotFound     Status = 2
	StatusInvalidNodeAccount       Status = 3
	StatusTransactionExpired       Status = 4
	StatusInvalidTransactionStart  Status = 5
	StatusInvalidSignature         Status = 7
	StatusInsufficientTxFee        Status = 9
	StatusInsufficientPayerBalance Status = 10
	StatusDuplicateTransaction     Status = 11
	StatusBusy                     Status = 12
	StatusNotSupported             Status = 13
	StatusInvalidAccountID         Status = 15
	StatusReceiptNotFound          Status = 18
	StatusUnknown                  Status = 21
	StatusSuccess                  Status = 22
	StatusAccountDeleted           Status = 72
	StatusPlatformNotActive        Status = 77
)

var statusNames = map[Status]string{
	StatusOk:                       "OK",
	StatusInvalidTransaction:       "INVALID_TRANSACTION",
	StatusPayerAccountNotFound:     "PAYER_ACCOUNT_NOT_FOUND",
	StatusInvalidNodeAccount:       "INVALID_NODE_ACCOUNT",
	StatusTransactionExpired:       "TRANSACTION_EXPIRED",
	StatusInvalidTransactionStart:  "INVALID_TRANSACTION_START",
	StatusInvalidSignature:         "INVALID_SIGNATURE",
	StatusInsufficientTxFee:        "INSUFFICIENT_TX_FEE",
	StatusInsufficientPayerBalance: "INSUFFICIENT_PAYER_BALANCE",
	StatusDuplicateTransaction:     "DUPLICATE_TRANSACTION",
	StatusBusy:                     "BUSY",
	StatusNotSupported:             "NOT_SUPPORTED",
	StatusInvalidAccountID:         "INVALID_ACCOUNT_ID",
	StatusReceiptNotFound:          "RECEIPT_NOT_FOUND",
	StatusUnknown:                  "UNKNOWN",
	StatusSuccess:                  "SUCCESS",
	StatusAccountDeleted:           "ACCOUNT_DELETED",
	StatusPlatformNotActive:        "PLATFORM_NOT_ACTIVE",
}

func (s Status) String() string {
	ret, ok := statusNames[s]
	if !ok {
		return fmt.Sprintf("STATUS_%d", uint32(s))
	}
	return ret
}

// IsExceptional returns true for every status other than OK and SUCCESS
func (s Status) IsExceptional() bool {
	return s != StatusOk && s != StatusSuccess
}
