/*
 * Copyright 2025 tomoncle.
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

package entity

import (
	"context"

	"github.com/google/uuid"
)

type auditorKey struct{}

// WithAuditor returns a context whose writes are attributed to name.
func WithAuditor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, auditorKey{}, name)
}

// AuditorFromContext returns the current auditor, or a random UUID when the
// context does not carry one.
func AuditorFromContext(ctx context.Context) string {
	if ctx != nil {
		if name, ok := ctx.Value(auditorKey{}).(string); ok && name != "" {
			return name
		}
	}
	return uuid.NewString()
}
