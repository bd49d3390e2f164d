package mail

import "testing"

func TestSplitRecipients(t *testing.T) {
	tests := []struct {
		in      []string
		wantTo  string
		wantBcc int
	}{
		{[]string{"a@example.com"}, "a@example.com", 0},
		{[]string{"a@example.com", "b@example.com", "c@example.com"}, "a@example.com", 2},
		{nil, "", 0},
	}
	for _, tt := range tests {
		to, bcc := SplitRecipients(tt.in)
		if to != tt.wantTo {
			t.Errorf("SplitRecipients(%v) to = %q, want %q", tt.in, to, tt.wantTo)
		}
		if len(bcc) != tt.wantBcc {
			t.Errorf("SplitRecipients(%v) bcc = %d entries, want %d", tt.in, len(bcc), tt.wantBcc)
		}
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "user", "pass", "from@example.com")
	if _, err := s.Send(nil, Message{Subject: "no recipient"}); err == nil {
		t.Error("expected error for message without primary recipient")
	}
}
