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

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚦 State is where a Task is in its lifecycle
type State int

const (
	Idle State = iota
	InFlight
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// 🧵 Task runs at most one background goroutine for one kind of operation and
// hands its single terminal value back through a Mailbox.
//
// Start, Poll, Take, Receive and Cancel must all be called from the owning goroutine.
type Task[T any] struct {
	name   string
	box    *Mailbox[T]
	state  State
	result T
	cancel context.CancelFunc
	id     uuid.UUID
}

// 🏭 NewTask creates an idle task
func NewTask[T any](name string) *Task[T] {
	return &Task[T]{
		name: name,
		box:  NewMailbox[T](),
	}
}

func (t *Task[T]) Name() string { return t.name }

func (t *Task[T]) State() State { return t.state }

// ID returns the id of the most recent run, or uuid.Nil if the task never started.
func (t *Task[T]) ID() uuid.UUID { return t.id }

// Pending reports whether a run has started and its result has not been taken yet.
func (t *Task[T]) Pending() bool { return t.state != Idle }

// 🚀 Start spawns fn on a new goroutine. It returns false without doing anything
// when a previous run is still pending.
func (t *Task[T]) Start(ctx context.Context, fn func(ctx context.Context) T) bool {
	if t.state != Idle {
		zerolog.Ctx(ctx).Debug().Str("task", t.name).Str("id", t.id.String()).Msg("task already pending, ignoring start")
		return false
	}

	t.id = uuid.New()
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.state = InFlight

	logger := zerolog.Ctx(ctx).With().Str("task", t.name).Str("id", t.id.String()).Logger()
	runCtx = logger.WithContext(runCtx)

	box := t.box
	go func() {
		defer cancel()
		logger.Debug().Msg("task started")
		v := fn(runCtx)
		logger.Debug().Msg("task finished")
		box.Send(v)
	}()

	return true
}

// 🔍 Poll checks the mailbox without blocking and reports whether a result is ready
func (t *Task[T]) Poll() bool {
	switch t.state {
	case Completed:
		return true
	case InFlight:
		v, ok := t.box.Poll()
		if !ok {
			return false
		}
		t.result = v
		t.state = Completed
		return true
	default:
		return false
	}
}

// 📦 Take consumes a completed result and returns the task to Idle
func (t *Task[T]) Take() (T, bool) {
	var zero T
	if t.state != Completed {
		return zero, false
	}
	v := t.result
	t.result = zero
	t.state = Idle
	t.cancel = nil
	return v, true
}

// Receive is Poll followed by Take.
func (t *Task[T]) Receive() (T, bool) {
	if !t.Poll() {
		var zero T
		return zero, false
	}
	return t.Take()
}

// 🛑 Cancel cancels the context of the running goroutine. The task stays pending
// until the goroutine delivers its result.
func (t *Task[T]) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

// ⏳ Await blocks until the running goroutine delivers its result. It is for
// callers that are not a render loop, such as startup.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	var zero T
	switch t.state {
	case Idle:
		return zero, errors.Errorf("task %s: not started", t.name)
	case Completed:
		v, _ := t.Take()
		return v, nil
	}

	select {
	case v := <-t.box.C():
		t.result = v
		t.state = Completed
		v, _ = t.Take()
		return v, nil
	case <-ctx.Done():
		return zero, errors.Errorf("task %s: waiting for result: %w", t.name, ctx.Err())
	}
}
