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

package bridge

// 📬 Mailbox is a single-slot inbox between one writer goroutine and one reader.
// A newer value replaces an unread older one.
type Mailbox[T any] struct {
	ch chan T
}

// 🏭 NewMailbox creates an empty mailbox
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// 📤 Send stores v, dropping any value the reader has not picked up yet. It never blocks.
func (m *Mailbox[T]) Send(v T) {
	for {
		select {
		case m.ch <- v:
			return
		default:
		}

		select {
		case <-m.ch:
		default:
		}
	}
}

// 📥 Poll takes the pending value, if any, without blocking
func (m *Mailbox[T]) Poll() (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// C exposes the underlying channel for callers that are allowed to block.
func (m *Mailbox[T]) C() <-chan T {
	return m.ch
}
