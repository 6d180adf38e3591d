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

// paymentRequiredMessage names the setters that satisfy the payment check
const paymentRequiredMessage = "one of `SetPayment()` or `SetQueryPayment()` is required"

const paymentInvalidMessage = "payment signature invalid"

// Validation collects local precondition failures rather than stopping at the first
type Validation struct {
	messages []string
}

// Addf records a failed precondition
func (v *Validation) Addf(format string, args ...any) {
	v.messages = append(v.messages, fmt.Sprintf(format, args...))
}

// Messages returns the recorded failures in the order they were added
func (v *Validation) Messages() []string {
	return v.messages
}

// Err returns a ValidationError carrying every failure, or nil if there were none
func (v *Validation) Err() error {
	if len(v.messages) == 0 {
		return nil
	}
	ret := make([]string, len(v.messages))
	copy(ret, v.messages)
	return ValidationError{Messages: ret}
}

// validate runs the payment checks (when requested) followed by the
// kind-specific checks. An attached payment must carry valid signatures
func (b *Builder[T]) validate(checkPayment bool) error {
	v := &Validation{}
	if checkPayment && b.paymentRequired() {
		payment := b.kind.Header(b.query).Payment
		if payment == nil {
			v.Addf(paymentRequiredMessage)
		} else if err := payment.Verify(); err != nil {
			v.Addf("%s: %s", paymentInvalidMessage, err)
		}
	}
	b.kind.ValidateLocal(b.query, v)
	return v.Err()
}
