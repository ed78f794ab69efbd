// Copyright 2025 The Rivaas Authors
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

package extract

import (
	"context"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/middleware/realip"
)

// RealIP extracts the client address resolved by middleware/realip,
// rejecting with [corehttp.NewMissingExtension] if that layer was not
// installed.
func RealIP[S any]() FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		ip, ok := corehttp.Get[realip.RealIP](&parts.Extensions)
		if !ok {
			return "", corehttp.NewMissingExtension("realip.RealIP")
		}
		return string(ip), nil
	}
}
