package main

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSessionValueRoundTrip(t *testing.T) {
	sessions, err := newSessionService("secret")
	if err != nil {
		t.Fatalf("new session service: %v", err)
	}

	id := uuid.NewString()
	got, ok := sessions.verify(sessions.sign(id))
	if !ok || got != id {
		t.Fatalf("expected %q to verify, got %q ok=%v", id, got, ok)
	}
}

func TestSessionValueRejectsTampering(t *testing.T) {
	sessions, _ := newSessionService("secret")
	other, _ := newSessionService("another-secret")

	value := sessions.sign(uuid.NewString())
	payload, signature, _ := strings.Cut(value, ".")

	cases := map[string]string{
		"no separator":     payload,
		"bad hex":          payload + ".zz",
		"wrong key":        other.sign(uuid.NewString()),
		"swapped payload":  sessions.sign(uuid.NewString())[:len(payload)] + "." + signature,
		"not a session id": sessions.sign("admin@example.com"),
	}
	for name, v := range cases {
		if _, ok := sessions.verify(v); ok {
			t.Fatalf("%s: expected verification failure", name)
		}
	}
}

func TestSessionServiceWithoutSecretUsesRandomKey(t *testing.T) {
	a, err := newSessionService("")
	if err != nil {
		t.Fatalf("new session service: %v", err)
	}
	b, _ := newSessionService("")

	if _, ok := b.verify(a.sign(uuid.NewString())); ok {
		t.Fatalf("sessions signed with different random keys must not verify")
	}
}
