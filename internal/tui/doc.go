// Package tui provides the interactive Bubble Tea screens for mmprobe.
//
// Each screen wraps one lifecycle component. Key presses and input edits
// become intents, the component's effect comes back as a tea.Cmd, and the
// completion it produces arrives as an ordinary message. The Bubble Tea
// program loop is the serial event queue, so screens never lock.
//
// # Screens
//
//   - SignupModel: email input, sign-up button, "Your email is:" line
//   - PingModel: ping button, health status, client version table, and an
//     optional server event stream that re-checks health on config, license,
//     and plugin changes
//
// Usage:
//
//	form := signup.New(client)
//	final, err := tui.RunSignup(form, client.BaseURL(), tea.WithAltScreen())
//
// The response and the error are drawn independently: a failed retry leaves
// the previous server status on screen next to the new error.
package tui
