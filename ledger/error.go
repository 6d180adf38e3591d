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
)

var (
	// ErrNegativeAmount indicates an attempt to construct a negative amount
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrAmountOverflow indicates an amount outside the representable range
	ErrAmountOverflow = errors.New("amount exceeds representable range")
	// ErrInvalidPublicKey indicates a public key that is not a valid ed25519 point
	ErrInvalidPublicKey = errors.New("invalid ed25519 public key")
	// ErrUnsigned indicates a transaction carrying no signatures
	ErrUnsigned = errors.New("transaction has no signatures")
)

// SignatureVerificationError indicates a signature that does not match the
// transaction body for the given public key
type SignatureVerificationError struct {
	PublicKey []byte
}

func (e SignatureVerificationError) Error() string {
	return fmt.Sprintf(
		"signature verification failed for public key %x",
		e.PublicKey,
	)
}

// PaymentBodyError indicates a payment transaction whose body could not be read
type PaymentBodyError struct {
	Err error
}

func (e PaymentBodyError) Error() string {
	return fmt.Sprintf("failed to decode payment transaction body: %v", e.Err)
}

func (e PaymentBodyError) Unwrap() error { return e.Err }
