/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mirc

import (
    `github.com/cloudwego/mirc/internal/opts`
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithDataflowVerification re-checks the dominance and phi invariants after
// the domination information is computed. A violation is a compiler bug and
// aborts the compilation, so this is mainly useful for debugging.
func WithDataflowVerification(v bool) Option {
    return func(o *opts.Options) { o.VerifyDataflow = v }
}
