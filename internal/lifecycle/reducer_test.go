package lifecycle

import (
	"errors"
	"reflect"
	"testing"
)

type statusPayload struct {
	Status string `json:"status"`
}

func TestReduce_InitialModelIsIdle(t *testing.T) {
	var m Model[statusPayload]

	if m.RequestInFlight {
		t.Error("initial model should not be in flight")
	}
	if m.HasResponse() || m.HasError() {
		t.Error("initial model should have no response and no error")
	}
	if _, ok := m.Field("email"); ok {
		t.Error("initial model should have no fields")
	}
}

func TestReduce_TransitionTable(t *testing.T) {
	ok := statusPayload{Status: "OK"}

	tests := []struct {
		name        string
		start       Model[statusPayload]
		intent      Intent
		wantInF     bool
		wantRender  bool
		wantDispat  bool
		wantErr     string
		wantStatus  string
		wantEmail   string
		wantEmailOK bool
	}{
		{
			name:        "field changed while idle",
			intent:      FieldChanged{Field: "email", Value: "a@b.com"},
			wantRender:  true,
			wantEmail:   "a@b.com",
			wantEmailOK: true,
		},
		{
			name:        "field changed while in flight",
			start:       Model[statusPayload]{RequestInFlight: true},
			intent:      FieldChanged{Field: "email", Value: "x@y.z"},
			wantInF:     true,
			wantRender:  true,
			wantEmail:   "x@y.z",
			wantEmailOK: true,
		},
		{
			name:       "field decode failure",
			intent:     FieldChanged{Field: "email", Err: errors.New("bad event")},
			wantRender: true,
			wantErr:    "bad event",
		},
		{
			name:       "trigger while idle",
			intent:     Trigger(ActionSignUp),
			wantInF:    true,
			wantRender: true,
			wantDispat: true,
		},
		{
			name:    "trigger while in flight is swallowed",
			start:   Model[statusPayload]{RequestInFlight: true},
			intent:  Trigger(ActionSignUp),
			wantInF: true,
		},
		{
			name:       "completed ok",
			start:      Model[statusPayload]{RequestInFlight: true},
			intent:     Succeeded(ok),
			wantRender: true,
			wantStatus: "OK",
		},
		{
			name:       "completed error",
			start:      Model[statusPayload]{RequestInFlight: true},
			intent:     Failed[statusPayload](errors.New("network down")),
			wantRender: true,
			wantErr:    "network down",
		},
		{
			name:   "stale completion while idle",
			intent: Succeeded(ok),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, out := Reduce(tt.start, tt.intent)

			if got.RequestInFlight != tt.wantInF {
				t.Errorf("RequestInFlight = %v, want %v", got.RequestInFlight, tt.wantInF)
			}
			if out.Render != tt.wantRender {
				t.Errorf("Render = %v, want %v", out.Render, tt.wantRender)
			}
			if out.Dispatch != tt.wantDispat {
				t.Errorf("Dispatch = %v, want %v", out.Dispatch, tt.wantDispat)
			}
			if got.LastError != tt.wantErr {
				t.Errorf("LastError = %q, want %q", got.LastError, tt.wantErr)
			}
			status := ""
			if got.LastResponse != nil {
				status = got.LastResponse.Status
			}
			if status != tt.wantStatus {
				t.Errorf("LastResponse.Status = %q, want %q", status, tt.wantStatus)
			}
			email, ok := got.Field("email")
			if ok != tt.wantEmailOK || email != tt.wantEmail {
				t.Errorf("Field(email) = %q, %v, want %q, %v", email, ok, tt.wantEmail, tt.wantEmailOK)
			}
		})
	}
}

func TestReduce_SwallowedTriggerLeavesModelUnchanged(t *testing.T) {
	start := Model[statusPayload]{
		Fields:          map[string]string{"email": "a@b.com"},
		LastResponse:    &statusPayload{Status: "OK"},
		LastError:       "earlier",
		RequestInFlight: true,
	}

	got, out := Reduce(start, Trigger(ActionSignUp))

	if out != (Outcome{}) {
		t.Errorf("Outcome = %+v, want zero", out)
	}
	if !reflect.DeepEqual(got, start) {
		t.Errorf("model changed: got %+v, want %+v", got, start)
	}
}

func TestReduce_SuccessKeepsStaleError(t *testing.T) {
	start := Model[statusPayload]{LastError: "network down", RequestInFlight: true}

	got, _ := Reduce(start, Succeeded(statusPayload{Status: "OK"}))

	if got.LastError != "network down" {
		t.Errorf("LastError = %q, want stale value kept", got.LastError)
	}
	if got.LastResponse == nil || got.LastResponse.Status != "OK" {
		t.Errorf("LastResponse = %+v, want OK", got.LastResponse)
	}
	if got.RequestInFlight {
		t.Error("RequestInFlight should be false after completion")
	}
}

func TestReduce_FailureKeepsStaleResponse(t *testing.T) {
	start := Model[statusPayload]{LastResponse: &statusPayload{Status: "OK"}, RequestInFlight: true}

	got, _ := Reduce(start, Failed[statusPayload](errors.New("boom")))

	if got.LastResponse == nil || got.LastResponse.Status != "OK" {
		t.Errorf("LastResponse = %+v, want stale OK kept", got.LastResponse)
	}
	if got.LastError != "boom" {
		t.Errorf("LastError = %q, want boom", got.LastError)
	}
}

func TestReduce_FieldChangeNeverTouchesRequestState(t *testing.T) {
	resp := &statusPayload{Status: "OK"}
	starts := []Model[statusPayload]{
		{},
		{RequestInFlight: true},
		{LastResponse: resp, LastError: "old"},
		{LastResponse: resp, LastError: "old", RequestInFlight: true},
	}

	for _, start := range starts {
		got, _ := Reduce(start, FieldChanged{Field: "email", Value: "v"})
		if got.RequestInFlight != start.RequestInFlight {
			t.Errorf("RequestInFlight changed from %v", start.RequestInFlight)
		}
		if got.LastError != start.LastError {
			t.Errorf("LastError changed from %q to %q", start.LastError, got.LastError)
		}
		if got.LastResponse != start.LastResponse {
			t.Errorf("LastResponse changed")
		}
	}
}

func TestReduce_DoesNotMutateInputFields(t *testing.T) {
	start := Model[statusPayload]{Fields: map[string]string{"email": "old"}}

	got, _ := Reduce(start, FieldChanged{Field: "email", Value: "new"})

	if start.Fields["email"] != "old" {
		t.Errorf("input model mutated: email = %q", start.Fields["email"])
	}
	if got.Fields["email"] != "new" {
		t.Errorf("email = %q, want new", got.Fields["email"])
	}
}

func TestReduce_DuplicateCompletionIsNoop(t *testing.T) {
	m := Model[statusPayload]{RequestInFlight: true}
	done := Succeeded(statusPayload{Status: "OK"})

	m, first := Reduce(m, done)
	if !first.Render {
		t.Fatal("first completion should render")
	}

	again, second := Reduce(m, done)
	if second.Render || second.Dispatch {
		t.Errorf("second completion outcome = %+v, want zero", second)
	}
	if again.RequestInFlight {
		t.Error("second completion must not toggle RequestInFlight")
	}
	if !reflect.DeepEqual(again, m) {
		t.Errorf("second completion changed model: %+v -> %+v", m, again)
	}
}

func TestReduce_CompletionForOtherPayloadIgnored(t *testing.T) {
	type other struct{ N int }
	m := Model[statusPayload]{RequestInFlight: true}

	got, out := Reduce(m, Succeeded(other{N: 1}))

	if out.Render || !got.RequestInFlight {
		t.Errorf("foreign completion should be ignored, got outcome %+v in flight %v", out, got.RequestInFlight)
	}
}
