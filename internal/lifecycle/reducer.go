package lifecycle

// Outcome tells the host what to do after a transition.
type Outcome struct {
	// Render is true when the Model changed in a way the renderer should show.
	Render bool

	// Dispatch is true when the transition started a request and the host
	// must ask the Runner for the effect.
	Dispatch bool
}

// Reduce computes the next Model for one intent. It never mutates m.
//
//	in flight  intent                  result
//	any        FieldChanged(ok)        field set, render
//	any        FieldChanged(err)       LastError set, render
//	false      TriggerAction           in flight, dispatch + render
//	true       TriggerAction           unchanged
//	true       RequestCompleted(ok)    response set, idle, render
//	true       RequestCompleted(err)   LastError set, idle, render
//	false      RequestCompleted(any)   unchanged (stale)
func Reduce[P any](m Model[P], in Intent) (Model[P], Outcome) {
	switch in := in.(type) {
	case FieldChanged:
		if in.Err != nil {
			m.LastError = in.Err.Error()
			return m, Outcome{Render: true}
		}
		fields := cloneFields(m.Fields)
		if fields == nil {
			fields = make(map[string]string, 1)
		}
		fields[in.Field] = in.Value
		m.Fields = fields
		return m, Outcome{Render: true}

	case TriggerAction:
		if m.RequestInFlight {
			return m, Outcome{}
		}
		m.RequestInFlight = true
		return m, Outcome{Render: true, Dispatch: true}

	case RequestCompleted[P]:
		if !m.RequestInFlight {
			return m, Outcome{}
		}
		m.RequestInFlight = false
		switch {
		case in.Err != nil:
			m.LastError = in.Err.Error()
		case in.Response != nil:
			resp := *in.Response
			m.LastResponse = &resp
		default:
			m.LastError = "request completed without a response"
		}
		return m, Outcome{Render: true}
	}

	return m, Outcome{}
}
