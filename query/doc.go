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


// Package query implements building, pricing and executing read-only ledger
// queries against network nodes.
//
// A query is configured through a Builder and then run with Execute, which
// settles the query payment, validates the query locally and submits it to a
// single node. Nodes that report BUSY are retried with randomized exponential
// backoff until the query deadline elapses. GetCost asks a node what a query
// would cost without answering it.
package query
