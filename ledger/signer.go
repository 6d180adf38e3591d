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
	"encoding/hex"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
)

// Signer produces signatures over transaction bodies
type Signer interface {
	PublicKey() []byte
	Sign(message []byte) ([]byte, error)
}

// Ed25519Signer signs with an in-memory ed25519 private key
type Ed25519Signer struct {
	privateKey ed25519.PrivateKey
}

// NewEd25519SignerFromSeed returns a signer for the 32-byte private key seed
func NewEd25519SignerFromSeed(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf(
			"invalid ed25519 seed length: got %d, expected %d",
			len(seed),
			ed25519.SeedSize,
		)
	}
	return &Ed25519Signer{
		privateKey: ed25519.NewKeyFromSeed(seed),
	}, nil
}

// NewEd25519SignerFromHex returns a signer for a hex-encoded private key seed
func NewEd25519SignerFromHex(seedHex string) (*Ed25519Signer, error) {
	seed, err := hex.DecodeString(
		strings.TrimPrefix(strings.TrimSpace(seedHex), "0x"),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	return NewEd25519SignerFromSeed(seed)
}

func (s *Ed25519Signer) PublicKey() []byte {
	return s.privateKey.Public().(ed25519.PublicKey)
}

func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.privateKey, message), nil
}

// ValidatePublicKey checks that the provided bytes decode to a point on the
// ed25519 curve
func ValidatePublicKey(publicKey []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf(
			"%w: got %d bytes, expected %d",
			ErrInvalidPublicKey,
			len(publicKey),
			ed25519.PublicKeySize,
		)
	}
	if _, err := new(edwards25519.Point).SetBytes(publicKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return nil
}
