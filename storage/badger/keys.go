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

package badger

// Key layout: <namespace>:<document id>
const (
	defaultNamespace = "doc"
	keySeparator     = ":"
)

// makeDocPrefix generates the key prefix shared by every document in a namespace.
func makeDocPrefix(namespace string) []byte {
	return []byte(namespace + keySeparator)
}

// makeDocKey generates the key for a document by namespace and id.
func makeDocKey(prefix []byte, id string) []byte {
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id)
	return buf
}

// idFromKey strips the namespace prefix from a document key.
func idFromKey(prefix, key []byte) string {
	return string(key[len(prefix):])
}
