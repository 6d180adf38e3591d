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

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

const backoffBaseMs = 500

var (
	// randFloat64 returns a value in [0, 1)
	randFloat64 = rand.Float64
	// sleep waits for d or until ctx is done
	sleep = sleepContext
)

// backoffDelay returns floor(500ms * r * (2^attempt - 1)) for r in [0, 1)
func backoffDelay(attempt int, r float64) time.Duration {
	if attempt <= 0 {
		return 0
	}
	ms := math.Floor(backoffBaseMs * r * (math.Exp2(float64(attempt)) - 1))
	if ms >= float64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// maxBackoffDelay is the exclusive upper bound of backoffDelay for attempt
func maxBackoffDelay(attempt int) time.Duration {
	return backoffDelay(attempt, 1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
