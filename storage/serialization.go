// Copyright 2025 Poiesic Systems
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

package storage

import "fmt"

// Marshal serializes v with codec into a freshly allocated buffer.
func Marshal[T any](codec Codec[T], v T) []byte {
	buf := make([]byte, codec.Size(v))
	codec.Marshal(v, buf)
	return buf
}

// Unmarshal deserializes a value with codec.
// Trailing bytes are reported as ErrTruncatedData.
func Unmarshal[T any](codec Codec[T], data []byte) (T, error) {
	v, n, err := codec.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		var zero T
		return zero, fmt.Errorf("%w: %w: read %d of %d bytes", ErrSerializationFailed, ErrTruncatedData, n, len(data))
	}
	return v, nil
}
