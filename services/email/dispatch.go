package emailsvc

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
)

// deliverFunc hands one rendered message to a transport.
type deliverFunc func(msg core.EmailMessage) error

// dispatch renders and delivers messages, each in its own goroutine unless sync is set.
// Messages without recipients or content are dropped.
func dispatch(messages []*core.EmailMessage, sync bool, deliver deliverFunc, onErr func(error)) {
	run := func(msg *core.EmailMessage) {
		if err := msg.Render(); err != nil {
			onErr(errors.Wrapf(err, "rendering %q email", msg.TemplateName))
			return
		}
		if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
			return
		}
		if err := deliver(*msg); err != nil {
			onErr(errors.Wrapf(err, "delivering %q email", msg.Subject))
		}
	}

	for _, msg := range messages {
		if sync {
			run(msg)
		} else {
			go run(msg)
		}
	}
}

func subjectPrefix(conf *core.Config) string {
	return "[" + conf.AppName + "] "
}

// outbox records the messages delivered by the console service.
type outbox struct {
	mu   sync.Mutex
	msgs []core.EmailMessage
}

var sent outbox

func (o *outbox) add(msg core.EmailMessage) {
	o.mu.Lock()
	o.msgs = append(o.msgs, msg)
	o.mu.Unlock()
}

func (o *outbox) to(address string) []core.EmailMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	msgs := make([]core.EmailMessage, 0)
	for _, msg := range o.msgs {
		for _, to := range msg.To {
			if to.Address == address {
				msgs = append(msgs, msg)
				break
			}
		}
	}
	return msgs
}

// SentTo returns the messages the console service delivered to address so far.
func SentTo(address string) []core.EmailMessage {
	return sent.to(address)
}
