package emailsvc

import (
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"sync"

	"github.com/kicentre/madrasa/core"
)

// consoleService writes emails to an io.Writer instead of sending them; used
// in DEV and TEST modes.
type consoleService struct {
	mu  sync.Mutex
	out io.Writer

	// SentMessages records everything "sent"; only populated in test mode.
	SentMessages []*core.EmailMessage
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService() *consoleService {
	return &consoleService{out: os.Stdout}
}

// NewConsoleServiceMock swallows output and records messages for assertions.
func NewConsoleServiceMock() *consoleService {
	return &consoleService{out: io.Discard}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, msg := range messages {
		if err := msg.Render(); err != nil {
			fmt.Fprintf(svc.out, "rendering email: %v\n", err)
			continue
		}
		if !(msg.HasRecipients() && msg.HasContent()) {
			continue
		}
		if core.Conf.TestMode {
			svc.SentMessages = append(svc.SentMessages, msg)
		}
		fmt.Fprintf(svc.out, "---------- EMAIL ----------\n")
		fmt.Fprintf(svc.out, "To: %s\n", joinAddresses(msg.To))
		fmt.Fprintf(svc.out, "Subject: [%s] %s\n", core.Conf.AppName, msg.Subject)
		fmt.Fprintf(svc.out, "%s\n", msg.TextContent)
		fmt.Fprintf(svc.out, "---------------------------\n")
	}
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, len(addrs))
	for i, a := range addrs {
		strs[i] = a.String()
	}
	return strings.Join(strs, ", ")
}
