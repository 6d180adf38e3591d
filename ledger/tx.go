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
	"crypto/ed25519"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/ledgerquery/cbor"
)

// TransactionID identifies a transaction by its payer and valid-start time
type TransactionID struct {
	cbor.StructAsArray
	AccountID         AccountID
	ValidStartSeconds int64
	ValidStartNanos   int32
}

// NewTransactionID returns a TransactionID for the payer starting at the provided time
func NewTransactionID(payer AccountID, validStart time.Time) TransactionID {
	return TransactionID{
		AccountID:         payer,
		ValidStartSeconds: validStart.Unix(),
		ValidStartNanos:   int32(validStart.Nanosecond()), // #nosec G115
	}
}

// ParseTransactionID parses a transaction ID in "shard.realm.num@seconds.nanos" form
func ParseTransactionID(s string) (TransactionID, error) {
	account, start, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return TransactionID{}, fmt.Errorf(
			"invalid transaction ID %q: expected account@seconds.nanos",
			s,
		)
	}
	accountID, err := ParseAccountID(account)
	if err != nil {
		return TransactionID{}, err
	}
	secsStr, nanosStr, _ := strings.Cut(start, ".")
	secs, err := strconv.ParseInt(secsStr, 10, 64)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	var nanos int64
	if nanosStr != "" {
		nanos, err = strconv.ParseInt(nanosStr, 10, 32)
		if err != nil || nanos < 0 || nanos >= int64(time.Second) {
			return TransactionID{}, fmt.Errorf(
				"invalid transaction ID %q: bad nanoseconds",
				s,
			)
		}
	}
	return TransactionID{
		AccountID:         accountID,
		ValidStartSeconds: secs,
		ValidStartNanos:   int32(nanos),
	}, nil
}

func (t TransactionID) String() string {
	return fmt.Sprintf(
		"%s@%d.%09d",
		t.AccountID.String(),
		t.ValidStartSeconds,
		t.ValidStartNanos,
	)
}

// AccountAmount is a single signed balance adjustment within a transfer
type AccountAmount struct {
	cbor.StructAsArray
	AccountID AccountID
	Amount    int64
}

// TransferTransactionBody is the body of a transfer-of-value transaction
type TransferTransactionBody struct {
	cbor.StructAsArray
	TransactionID  TransactionID
	NodeAccountID  AccountID
	TransactionFee Amount
	ValidDuration  int64
	Memo           string
	Transfers      []AccountAmount
}

// SignaturePair is a public key and the signature it made over a transaction body
type SignaturePair struct {
	cbor.StructAsArray
	PublicKey []byte
	Signature []byte
}

// SignedTransaction is a serialized transaction body plus its signatures
type SignedTransaction struct {
	cbor.StructAsArray
	BodyBytes  []byte
	Signatures []SignaturePair
}

// NewSignedTransaction encodes the body and signs it with each signer
func NewSignedTransaction(
	body *TransferTransactionBody,
	signers ...Signer,
) (*SignedTransaction, error) {
	bodyBytes, err := cbor.Encode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction body: %w", err)
	}
	tx := &SignedTransaction{
		BodyBytes: bodyBytes,
	}
	for _, signer := range signers {
		if err := tx.AddSignature(signer); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// AddSignature signs the transaction body with the provided signer
func (t *SignedTransaction) AddSignature(signer Signer) error {
	sig, err := signer.Sign(t.BodyBytes)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	t.Signatures = append(
		t.Signatures,
		SignaturePair{
			PublicKey: signer.PublicKey(),
			Signature: sig,
		},
	)
	return nil
}

// Body decodes and returns the transfer body of the transaction
func (t *SignedTransaction) Body() (*TransferTransactionBody, error) {
	var body TransferTransactionBody
	if _, err := cbor.Decode(t.BodyBytes, &body); err != nil {
		return nil, PaymentBodyError{Err: err}
	}
	return &body, nil
}

// Hash returns the Blake2b-256 hash of the transaction body
func (t *SignedTransaction) Hash() Blake2b256 {
	return Blake2b256Hash(t.BodyBytes)
}

// Verify checks that the transaction is signed and that every signature
// matches the body
func (t *SignedTransaction) Verify() error {
	if len(t.Signatures) == 0 {
		return ErrUnsigned
	}
	for _, pair := range t.Signatures {
		if err := ValidatePublicKey(pair.PublicKey); err != nil {
			return err
		}
		if !ed25519.Verify(pair.PublicKey, t.BodyBytes, pair.Signature) {
			return SignatureVerificationError{PublicKey: pair.PublicKey}
		}
	}
	return nil
}
