// Package lifecycle implements the single-in-flight request state machine
// shared by every mmprobe component.
//
// # Overview
//
// A component is built from four pieces:
//
//   - Model: the observable state (fields, last response, last error, in-flight flag)
//   - Intent: the closed set of events that may change the Model
//   - Reduce: the pure transition function (Model, Intent) -> (Model, Outcome)
//   - Runner: the effect runner that turns a trigger into exactly one request
//
// Renderers never mutate a Model. They turn raw input into Intents (see
// FieldFromInput) and hand them to whatever serial queue hosts the
// component: a Bubble Tea program in the TUI, or Host for scripted commands.
//
// # State Machine
//
//	┌────────────┐  TriggerAction   ┌────────────┐
//	│   idle     │ ───────────────> │  in flight │ ── TriggerAction (swallowed)
//	│            │ <─────────────── │            │
//	└────────────┘ RequestCompleted └────────────┘
//	      │
//	      └── FieldChanged (any state)
//
// A RequestCompleted arriving while idle is stale and ignored.
//
// # Effects
//
// Runner.Start returns a tea.Cmd. Executing the command submits one request
// to the Transport and yields a RequestCompleted message, which the hosting
// queue feeds back through Reduce. There is no cancellation; the only way a
// request stops being in flight is by settling.
//
// # Usage Example
//
//	comp := lifecycle.NewComponent("ping", runner)
//	comp, render, cmd := comp.Update(lifecycle.Trigger(lifecycle.ActionPing))
//	// render == true, cmd != nil; run cmd and feed its message back in.
package lifecycle
