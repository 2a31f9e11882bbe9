package lifecycle

// Model is the complete observable state of one component instance.
//
// The zero value is the initial state: no fields, no response, no error and
// no request in flight.
type Model[P any] struct {
	// Fields holds user-entered values keyed by field name. A missing key
	// means the field has never been set.
	Fields map[string]string

	// LastResponse is the payload of the most recent successful request.
	LastResponse *P

	// LastError is the most recent error message. Empty means none.
	LastError string

	// RequestInFlight is true between dispatch and settlement.
	RequestInFlight bool
}

// Field returns the value of a field and whether it has been set.
func (m Model[P]) Field(name string) (string, bool) {
	v, ok := m.Fields[name]
	return v, ok
}

// HasError reports whether an error message is recorded.
func (m Model[P]) HasError() bool {
	return m.LastError != ""
}

// HasResponse reports whether a response payload is recorded.
func (m Model[P]) HasResponse() bool {
	return m.LastResponse != nil
}

// Clone returns a copy that shares no mutable state with m.
func (m Model[P]) Clone() Model[P] {
	out := m
	out.Fields = cloneFields(m.Fields)
	if m.LastResponse != nil {
		resp := *m.LastResponse
		out.LastResponse = &resp
	}
	return out
}

func cloneFields(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	dup := make(map[string]string, len(fields))
	for k, v := range fields {
		dup[k] = v
	}
	return dup
}
