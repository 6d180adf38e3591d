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

package cbor

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// DeepCopy copies src into dest, allocating new values for every pointer, slice
// and map so that the two objects share no memory afterward. Both arguments must
// be pointers to the same struct type
func DeepCopy(dest any, src any) error {
	valueDest := reflect.ValueOf(dest)
	valueSrc := reflect.ValueOf(src)
	if valueDest.Kind() != reflect.Pointer || valueSrc.Kind() != reflect.Pointer {
		return fmt.Errorf("source and destination must be pointers")
	}
	if valueDest.Type() != valueSrc.Type() {
		return fmt.Errorf(
			"source and destination types differ: %s != %s",
			valueSrc.Type(),
			valueDest.Type(),
		)
	}
	return copier.CopyWithOption(
		dest,
		src,
		copier.Option{
			DeepCopy: true,
		},
	)
}
