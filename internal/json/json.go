// SPDX-License-Identifier: Apache-2.0

package json

import (
	json "github.com/bytedance/sonic"
)

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
