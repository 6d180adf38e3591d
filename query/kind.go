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

import "time"

// Kind is implemented by each concrete query variant. The execution engine
// only depends on this interface
type Kind[T any] interface {
	// Method returns the full RPC method name used to submit the query
	Method() string
	// Header returns the header embedded in this kind's body of q
	Header(q *Query) *Header
	// ValidateLocal records any kind-specific problems with q
	ValidateLocal(q *Query, v *Validation)
	// MapResponseHeader extracts the response header from this kind's response body
	MapResponseHeader(resp *Response) (ResponseHeader, error)
	// MapResult converts a successful response into the typed result
	MapResult(resp *Response) (T, error)
}

// PaymentOptional is implemented by kinds that can be answered without payment
type PaymentOptional interface {
	PaymentRequired() bool
}

// TimeoutOverrider is implemented by kinds with a non-default execute deadline
type TimeoutOverrider interface {
	ExecuteTimeout() time.Duration
}

// Retrier is implemented by kinds that retry on more than BUSY
type Retrier interface {
	ShouldRetry(status Status, resp *Response) bool
}
