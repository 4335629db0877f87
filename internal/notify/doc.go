// Package notify delivers error notifications to the user.
//
// Every type here satisfies normalize.Notifier:
//
//	notifier := notify.Multi{
//	    notify.NewWriter(os.Stderr),
//	    notify.NewDesktop("transcriptor", notify.NewWriter(os.Stderr)),
//	}
//	session := normalize.NewSession(settings, normalize.WithNotifier(notifier))
//
// Recorder queues notifications so an event loop (the TUI) can pick them
// up and render them itself.
package notify
