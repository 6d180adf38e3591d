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

// Package cbor provides the CBOR encoding used for every message exchanged with
// a ledger node.
//
// This package wraps github.com/fxamacker/cbor/v2. Encoding is always
// deterministic (core deterministic map key ordering), which makes the encoded
// form of a query or transaction body stable enough to hash, sign and compare
// byte-for-byte.
//
// Embed StructAsArray to encode struct fields as a CBOR array instead of a map.
//
// DeepCopy produces an independent copy of a message, which is how a query is
// cloned before a modified variant of it is sent.
package cbor
