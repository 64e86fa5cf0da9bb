package session

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"blackjackd/internal/netx"
)

func newTestSession(t *testing.T) (*Session, net.Conn, *bufio.Reader) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { _ = server.Close(); _ = client.Close() })
	s := New("tok", "Alice", "pipe", netx.NewConn(server), 1000, zerolog.Nop())
	return s, client, bufio.NewReader(client)
}

func TestInteractReturnsAllowedVerb(t *testing.T) {
	s, client, r := newTestSession(t)

	done := make(chan struct{})
	var verb, noun string
	var err error
	go func() {
		verb, noun, err = s.Interact(time.Now().Add(time.Second), "ACT go", []string{"HIT", "STAND"}, "STAND", nil, nil)
		close(done)
	}()

	prompt, rerr := r.ReadString('\n')
	if rerr != nil || prompt != "ACT go\n" {
		t.Fatalf("prompt = %q, err %v", prompt, rerr)
	}
	if _, werr := client.Write([]byte("stand\n")); werr != nil {
		t.Fatalf("write: %v", werr)
	}

	<-done
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if verb != "STAND" || noun != "" {
		t.Fatalf("got (%q,%q), want (STAND,\"\")", verb, noun)
	}
}

func TestInteractInvalidReprompt(t *testing.T) {
	s, client, r := newTestSession(t)

	done := make(chan struct{})
	var verb string
	go func() {
		verb, _, _ = s.Interact(time.Now().Add(time.Second), "ACT go", []string{"HIT", "STAND"}, "STAND", nil, nil)
		close(done)
	}()

	if _, err := r.ReadString('\n'); err != nil { // prompt
		t.Fatalf("read prompt: %v", err)
	}
	if _, err := client.Write([]byte("FOO\n")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	reply, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read invalid: %v", err)
	}
	if reply[:7] != "INVALID" {
		t.Fatalf("expected an INVALID reply, got %q", reply)
	}
	if _, err := client.Write([]byte("HIT\n")); err != nil {
		t.Fatalf("write hit: %v", err)
	}

	<-done
	if verb != "HIT" {
		t.Fatalf("verb = %q, want HIT", verb)
	}
}

func TestInteractTimeoutSubstitutesVerb(t *testing.T) {
	s, _, r := newTestSession(t)

	done := make(chan struct{})
	var verb, noun string
	var err error
	go func() {
		verb, noun, err = s.Interact(time.Now().Add(20*time.Millisecond), "ACT go", []string{"HIT", "STAND"}, "STAND", nil, nil)
		close(done)
	}()

	if _, rerr := r.ReadString('\n'); rerr != nil { // prompt
		t.Fatalf("read prompt: %v", rerr)
	}
	line, rerr := r.ReadString('\n')
	if rerr != nil || line != "TIMEOUT\n" {
		t.Fatalf("expected a TIMEOUT line, got %q err %v", line, rerr)
	}

	<-done
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if verb != "STAND" || noun != "" {
		t.Fatalf("got (%q,%q), want (STAND,\"\") on timeout", verb, noun)
	}
	if !s.TimedOut {
		t.Fatal("expected TimedOut to be set")
	}
}

func TestInteractTransportClosedPropagates(t *testing.T) {
	s, client, _ := newTestSession(t)
	_ = client.Close()

	_, _, err := s.Interact(time.Now().Add(time.Second), "ACT go", []string{"HIT", "STAND"}, "STAND", nil, nil)
	if err == nil {
		t.Fatal("expected an error once the peer has gone away")
	}
	if !s.Disconnected() {
		t.Fatal("expected the session to be marked disconnected")
	}
}

func TestInteractNotifyCalledOnce(t *testing.T) {
	s, client, r := newTestSession(t)

	calls := 0
	done := make(chan struct{})
	go func() {
		_, _, _ = s.Interact(time.Now().Add(time.Second), "ACT go", []string{"STAND"}, "STAND", nil, func() { calls++ })
		close(done)
	}()

	if _, err := r.ReadString('\n'); err != nil {
		t.Fatalf("read prompt: %v", err)
	}
	if _, err := client.Write([]byte("STAND\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	<-done

	if calls != 1 {
		t.Fatalf("notify called %d times, want 1", calls)
	}
}

func TestShowCommsConsultedOnEveryLine(t *testing.T) {
	s, client, r := newTestSession(t)

	checks := 0
	s.ShowComms = func() bool { checks++; return true }

	done := make(chan struct{})
	go func() {
		_, _, _ = s.Interact(time.Now().Add(time.Second), "ACT go", []string{"HIT", "STAND"}, "STAND", nil, nil)
		close(done)
	}()

	if _, err := r.ReadString('\n'); err != nil { // prompt: one SendLine check
		t.Fatalf("read prompt: %v", err)
	}
	if _, err := client.Write([]byte("STAND\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	<-done

	if checks != 2 {
		t.Fatalf("ShowComms consulted %d times, want 2 (one send, one recv)", checks)
	}
}
