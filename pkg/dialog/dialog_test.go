// Copyright 2025 walteh LLC
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

package dialog

import (
	"context"
	"testing"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestWrap(t *testing.T) {
	ctx := zerolog.New(zerolog.TestWriter{T: t}).WithContext(context.Background())

	tests := []struct {
		name       string
		err        error
		isCanceled bool
		contains   string
	}{
		{name: "canceled", err: zenity.ErrCanceled, isCanceled: true, contains: "dialog canceled"},
		{name: "wrapped_canceled", err: errors.Errorf("outer: %w", zenity.ErrCanceled), isCanceled: true},
		{name: "failure", err: errors.New("no display"), contains: "open dialog: no display"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap(ctx, "open", tt.err)
			assert.Equal(t, tt.isCanceled, errors.Is(got, ErrCanceled))
			if tt.contains != "" {
				assert.Contains(t, got.Error(), tt.contains)
			}
		})
	}
}

func TestNewZenityFilters(t *testing.T) {
	z := NewZenity()
	assert.Len(t, z.Filters, 2)
	assert.Equal(t, []string{"*.lua", "*.luau"}, z.Filters[0].Patterns)
}
