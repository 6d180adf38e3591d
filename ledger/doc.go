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

// Package ledger contains the ledger primitives used when talking to a node:
// monetary amounts, account and transaction identifiers, signed transfer
// transactions and the payment builder that produces query payments.
//
// Amounts are always non-negative and expressed in the smallest unit. One whole
// unit is UnitsPerWhole smallest units.
package ledger
