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

package ledger

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultValidDuration is how long a payment transaction stays valid
	DefaultValidDuration = 120 * time.Second
	// paymentStartSkew backdates the valid-start of a payment to tolerate
	// clock drift between the client and the node
	paymentStartSkew = 10 * time.Second
)

// TransferPaymentBuilder builds and signs query payment transactions that move
// value from a payer account to a node account
type TransferPaymentBuilder struct {
	// Now returns the current time. It defaults to time.Now
	Now func() time.Time
	// ValidDuration defaults to DefaultValidDuration
	ValidDuration time.Duration
	// Memo is attached to every payment built
	Memo string
}

// NewTransferPaymentBuilder returns a TransferPaymentBuilder with default settings
func NewTransferPaymentBuilder() *TransferPaymentBuilder {
	return &TransferPaymentBuilder{
		Now:           time.Now,
		ValidDuration: DefaultValidDuration,
	}
}

// BuildPayment returns a signed transfer of amount from the payer to the node.
// A zero amount is allowed and produces a transfer with zero-valued entries
func (b *TransferPaymentBuilder) BuildPayment(
	from AccountID,
	node AccountID,
	amount Amount,
	maxFee Amount,
	signer Signer,
) (*SignedTransaction, error) {
	if signer == nil {
		return nil, errors.New("a signer is required to build a payment")
	}
	if amount < 0 || maxFee < 0 {
		return nil, ErrNegativeAmount
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	validDuration := b.ValidDuration
	if validDuration <= 0 {
		validDuration = DefaultValidDuration
	}
	body := &TransferTransactionBody{
		TransactionID:  NewTransactionID(from, now().Add(-paymentStartSkew)),
		NodeAccountID:  node,
		TransactionFee: maxFee,
		ValidDuration:  int64(validDuration / time.Second),
		Memo:           b.Memo,
		Transfers: []AccountAmount{
			{
				AccountID: from,
				Amount:    -amount.Units(),
			},
			{
				AccountID: node,
				Amount:    amount.Units(),
			},
		},
	}
	tx, err := NewSignedTransaction(body, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment transaction: %w", err)
	}
	return tx, nil
}

// PaymentNodeAccountID reads the target node back out of a previously built payment
func (b *TransferPaymentBuilder) PaymentNodeAccountID(
	tx *SignedTransaction,
) (AccountID, error) {
	if tx == nil {
		return AccountID{}, errors.New("no payment transaction provided")
	}
	body, err := tx.Body()
	if err != nil {
		return AccountID{}, err
	}
	return body.NodeAccountID, nil
}

// PaymentAmount returns the value transferred to the node by a payment
func PaymentAmount(tx *SignedTransaction) (Amount, error) {
	body, err := tx.Body()
	if err != nil {
		return 0, err
	}
	for _, transfer := range body.Transfers {
		if transfer.AccountID == body.NodeAccountID {
			return NewAmount(transfer.Amount)
		}
	}
	return 0, nil
}
