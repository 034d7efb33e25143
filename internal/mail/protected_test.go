package mail

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedMailer struct {
	err   error
	calls int
}

func (m *scriptedMailer) Send(_ context.Context, _ Message) error {
	m.calls++
	return m.err
}

func TestProtectedMailerStaysClosedOnSuccess(t *testing.T) {
	inner := &scriptedMailer{}
	pm := NewProtectedMailer(inner, ProtectedMailerConfig{})

	for i := 0; i < 5; i++ {
		if err := pm.Send(context.Background(), Message{To: "a@b.com"}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if inner.calls != 5 {
		t.Fatalf("inner calls = %d, want 5", inner.calls)
	}
}

func TestProtectedMailerOpensAfterThreshold(t *testing.T) {
	inner := &scriptedMailer{err: errors.New("smtp down")}
	pm := NewProtectedMailer(inner, ProtectedMailerConfig{
		FailureThreshold: 3,
		Cooldown:         time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := pm.Send(ctx, Message{}); err == nil {
			t.Fatalf("send %d should fail", i)
		}
	}

	// circuit is now open: the provider must not be called again
	err := pm.Send(ctx, Message{})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
	if inner.calls != 3 {
		t.Fatalf("inner calls = %d, want 3 (fail fast while open)", inner.calls)
	}
}

func TestProtectedMailerHalfOpenRecovery(t *testing.T) {
	inner := &scriptedMailer{err: errors.New("smtp down")}
	pm := NewProtectedMailer(inner, ProtectedMailerConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
	})
	ctx := context.Background()

	if err := pm.Send(ctx, Message{}); err == nil {
		t.Fatal("first send should fail and open the circuit")
	}
	if !errors.Is(pm.Send(ctx, Message{}), ErrCircuitOpen) {
		t.Fatal("circuit should be open")
	}

	time.Sleep(20 * time.Millisecond)

	// provider recovered; the half-open trial closes the circuit
	inner.err = nil
	if err := pm.Send(ctx, Message{}); err != nil {
		t.Fatalf("half-open trial: %v", err)
	}
	if err := pm.Send(ctx, Message{}); err != nil {
		t.Fatalf("after recovery: %v", err)
	}
}

func TestProtectedMailerHalfOpenFailureReopens(t *testing.T) {
	inner := &scriptedMailer{err: errors.New("smtp down")}
	pm := NewProtectedMailer(inner, ProtectedMailerConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
	})
	ctx := context.Background()

	if err := pm.Send(ctx, Message{}); err == nil {
		t.Fatal("first send should fail")
	}

	time.Sleep(20 * time.Millisecond)

	// the trial call fails: straight back to open
	if err := pm.Send(ctx, Message{}); err == nil {
		t.Fatal("trial send should fail")
	}
	if !errors.Is(pm.Send(ctx, Message{}), ErrCircuitOpen) {
		t.Fatal("circuit should reopen after a failed trial")
	}
}

func TestProtectedMailerTimeout(t *testing.T) {
	slow := mailerFunc(func(ctx context.Context, _ Message) error {
		<-ctx.Done()
		return ctx.Err()
	})
	pm := NewProtectedMailer(slow, ProtectedMailerConfig{Timeout: 10 * time.Millisecond})

	start := time.Now()
	err := pm.Send(context.Background(), Message{})
	if err == nil {
		t.Fatal("stalled provider should time out")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("send took %v, timeout not enforced", elapsed)
	}
}

type mailerFunc func(ctx context.Context, msg Message) error

func (f mailerFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
