package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/edugrade/portal/core"
)

const rule = "----------------------------------------------------------------"

// ConsoleService prints emails instead of sending them. Used in debug mode and by the admin CLI.
type ConsoleService struct {
	from   mail.Address
	prefix string
	out    *log.Logger // nil when silent
	sync   bool
}

var _ core.EmailService = (*ConsoleService)(nil)

func NewConsoleService(conf *core.Config) *ConsoleService {
	return &ConsoleService{
		from:   conf.DefaultFromEmail(),
		prefix: subjectPrefix(conf),
		out:    log.New(os.Stdout, "MAIL : ", log.LstdFlags),
	}
}

// NewConsoleServiceMock delivers synchronously and silently; delivered messages are visible through SentTo.
func NewConsoleServiceMock(conf *core.Config) *ConsoleService {
	svc := NewConsoleService(conf)
	svc.out = nil
	svc.sync = true
	return svc
}

func (svc *ConsoleService) SendMessages(messages ...*core.EmailMessage) {
	dispatch(messages, svc.sync, svc.deliver, func(err error) {
		log.Printf("%+v", err)
	})
}

func (svc *ConsoleService) deliver(msg core.EmailMessage) error {
	sent.add(msg)
	if svc.out != nil {
		svc.out.Println("\n" + svc.preview(msg))
	}
	return nil
}

// preview lays the message out for a terminal: headers, text body, then attachment names.
func (svc *ConsoleService) preview(msg core.EmailMessage) string {
	var b strings.Builder
	header := func(name string, addrs ...mail.Address) {
		if len(addrs) > 0 {
			fmt.Fprintf(&b, "%-8s %s\n", name+":", joinAddresses(addrs))
		}
	}

	b.WriteString(rule + "\n")
	header("From", svc.from)
	header("To", msg.To...)
	header("Cc", msg.Cc...)
	header("Bcc", msg.Bcc...)
	fmt.Fprintf(&b, "%-8s %s\n", "Subject:", svc.prefix+msg.Subject)
	fmt.Fprintf(&b, "%-8s %s\n", "Date:", time.Now().Format(time.RFC1123Z))
	if msg.TemplateName != "" {
		fmt.Fprintf(&b, "%-8s %s (+html)\n", "Template:", msg.TemplateName)
	}
	b.WriteString(rule + "\n")
	b.WriteString(strings.TrimSpace(msg.TextContent) + "\n")
	for _, at := range msg.Attachments {
		fmt.Fprintf(&b, "[attachment] %s (%s, %d bytes base64)\n", at.Filename, at.ContentType, at.Content.Len())
	}
	b.WriteString(rule)
	return b.String()
}

func joinAddresses(addrs []mail.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}
