package audit

import (
	"testing"
	"time"
)

func TestNew_DefaultsActor(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	l := New("KYN0001", "", ActionLogin, "login", at)
	if l.UserID != SystemActor {
		t.Fatalf("actor = %q, want %q", l.UserID, SystemActor)
	}
	if l.ID == "" {
		t.Fatal("id not assigned")
	}
	if l.Timestamp.Location() != time.UTC || !l.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v", l.Timestamp)
	}
	if other := New("KYN0001", "u1", ActionLogin, "", at); other.ID == l.ID || other.UserID != "u1" {
		t.Fatalf("unexpected entry: %+v", other)
	}
}
