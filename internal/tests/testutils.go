// Package tests contains helpers shared by this module's tests.
package tests

import (
	"net/url"
	"sync"
)

// MustURL parses s, panicking if it's not a valid URL.
func MustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}

	return u
}

// Notes records the messages sent to a client's notifier. Pass Notify to
// fsfetch.WithNotifier. The zero value is ready to use.
type Notes struct {
	msgs []string
	mu   sync.Mutex
}

// Notify records msg.
func (n *Notes) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.msgs = append(n.msgs, msg)
}

// Messages returns the messages recorded so far, oldest first.
func (n *Notes) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.msgs...)
}
