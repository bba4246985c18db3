package service

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// User-facing messages. Each failure category has a fixed text.
const (
	MsgAddOutOfStock    = "Requested quantity is out of stock"
	MsgUpdateOutOfStock = "Requested quantity is out of stock"
	MsgAddFailed        = "Error adding product"
	MsgRemoveFailed     = "Error removing product"
	MsgUpdateFailed     = "Error changing product quantity"
)

// Notifier delivers fire-and-forget error messages to the user.
type Notifier interface {
	Error(msg string)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (n LogNotifier) Error(msg string) {
	n.Log.WithField("notification", msg).Info("user notified")
}

// Recorder buffers notifications until they are drained.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// Drain returns buffered messages and clears the buffer. It never returns nil.
func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.msgs
	r.msgs = nil
	if out == nil {
		out = []string{}
	}
	return out
}

// Notifiers fans a message out to every notifier in the list.
type Notifiers []Notifier

func (ns Notifiers) Error(msg string) {
	for _, n := range ns {
		n.Error(msg)
	}
}
