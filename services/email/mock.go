package emailsvc

import (
	"sync"

	"github.com/pepschool/obshub/core"
)

// mockService records messages synchronously for test assertions.
type mockService struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*mockService)(nil)

func NewMockService() *mockService {
	return &mockService{}
}

func (svc *mockService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		if err := msg.Render(); err != nil {
			continue
		}
		if msg.HasRecipients() && msg.HasContent() {
			svc.sent = append(svc.sent, *msg)
		}
	}
}

// SentMessages returns a snapshot of everything sent so far.
func (svc *mockService) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]core.EmailMessage, len(svc.sent))
	copy(out, svc.sent)
	return out
}

// Reset clears the recorded messages.
func (svc *mockService) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = nil
}
