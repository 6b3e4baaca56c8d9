package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"anoa.com/jornalufc/pkg/mailer"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	gate chan struct{}
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestDispatcherDeliversQueuedMessagesOnClose(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, zerolog.Nop(), Options{Workers: 2, QueueSize: 10})

	for i := 0; i < 5; i++ {
		d.Send("assunto", []string{"a@ufc.br"}, "<p>oi</p>")
	}
	d.Close()

	if got := sender.count(); got != 5 {
		t.Fatalf("delivered %d messages, want 5", got)
	}
	if d.Dropped() != 0 {
		t.Fatalf("dropped %d messages, want 0", d.Dropped())
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sender := &fakeSender{gate: make(chan struct{})}
	d := NewDispatcher(sender, zerolog.Nop(), Options{Workers: 1, QueueSize: 1})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			d.Send("assunto", []string{"a@ufc.br"}, "corpo")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a full queue")
	}

	close(sender.gate)
	d.Close()

	if d.Dropped() == 0 {
		t.Fatal("expected at least one dropped message")
	}
	if got := sender.count(); got+int(d.Dropped()) != 3 {
		t.Fatalf("delivered %d + dropped %d, want 3 total", got, d.Dropped())
	}
}

func TestDispatcherSwallowsSenderErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, zerolog.Nop(), Options{})

	d.Send("assunto", []string{"a@ufc.br"}, "corpo")
	d.Close()

	if sender.count() != 1 {
		t.Fatalf("delivered %d messages, want 1", sender.count())
	}
}

func TestDispatcherIgnoresSendAfterClose(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, zerolog.Nop(), Options{})
	d.Close()
	d.Close()

	d.Send("assunto", []string{"a@ufc.br"}, "corpo")

	if sender.count() != 0 {
		t.Fatal("message sent after close")
	}
	if d.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", d.Dropped())
	}
}

func TestTemplates(t *testing.T) {
	msg := ProfessorActivation("http://localhost:8080", "Ana <Lima>", "ana+prof@ufc.br")
	if msg.Recipients[0] != "ana+prof@ufc.br" {
		t.Errorf("recipient = %q", msg.Recipients[0])
	}
	if !strings.Contains(msg.HTMLBody, "/api/auth/verify?email=ana%2Bprof%40ufc.br") {
		t.Errorf("activation link missing from body: %s", msg.HTMLBody)
	}
	if strings.Contains(msg.HTMLBody, "<Lima>") {
		t.Error("name was not escaped")
	}

	reset := PasswordReset("a@ufc.br", "tok", 10*time.Minute)
	if !strings.Contains(reset.HTMLBody, "tok") || !strings.Contains(reset.HTMLBody, "10 minutos") {
		t.Errorf("unexpected reset body: %s", reset.HTMLBody)
	}
}
