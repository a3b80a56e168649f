package agent

import (
	"testing"

	"github.com/Iron-Ham/lanes/internal/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{name: "", wantNil: true},
		{name: "  ", wantNil: true},
		{name: "claude", wantName: "claude"},
		{name: "Codex", wantName: "codex"},
		{name: "gemini", wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("expected validation error, got %v", err)
			}
			if tt.wantNil {
				if a != nil {
					t.Errorf("Lookup(%q) = %v, want nil", tt.name, a)
				}
				return
			}
			if a.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", a.Name(), tt.wantName)
			}
		})
	}
}

func TestFileNames(t *testing.T) {
	if got := SessionFileName(nil); got != ".claude-session" {
		t.Errorf("SessionFileName(nil) = %q", got)
	}
	if got := StatusFileName(nil); got != ".claude-status" {
		t.Errorf("StatusFileName(nil) = %q", got)
	}
	if got := SessionFileName(Codex{}); got != ".codex-session" {
		t.Errorf("SessionFileName(Codex) = %q", got)
	}
	if got := StatusFileName(Claude{}); got != ".claude-status" {
		t.Errorf("StatusFileName(Claude) = %q", got)
	}
}

func TestParseLegacySessionData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantID  string
		wantOK  bool
	}{
		{"valid", `{"sessionId":"abc-123_DEF","workflow":"tdd"}`, "abc-123_DEF", true},
		{"shell metacharacters", `{"sessionId":"abc; rm -rf /"}`, "", false},
		{"empty id", `{"sessionId":""}`, "", false},
		{"numeric id", `{"sessionId":42}`, "", false},
		{"missing id", `{"workflow":"tdd"}`, "", false},
		{"not an object", `["abc"]`, "", false},
		{"garbage", `not json`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := ParseLegacySessionData([]byte(tt.content))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && data.SessionID != tt.wantID {
				t.Errorf("SessionID = %q, want %q", data.SessionID, tt.wantID)
			}
		})
	}
}

func TestParseLegacyStatus(t *testing.T) {
	for _, s := range BuiltinStates() {
		st, ok := ParseLegacyStatus([]byte(`{"status":"` + string(s) + `","message":"hi","timestamp":"2024-01-01T00:00:00Z"}`))
		if !ok {
			t.Errorf("state %q rejected", s)
			continue
		}
		if st.State != s || st.Message != "hi" || st.Timestamp == "" {
			t.Errorf("unexpected status %+v", st)
		}
	}

	for _, bad := range []string{`{"status":"bogus"}`, `{"status":1}`, `{}`, `[]`, ``} {
		if st, ok := ParseLegacyStatus([]byte(bad)); ok {
			t.Errorf("ParseLegacyStatus(%q) = %+v, want rejection", bad, st)
		}
	}
}

func TestClaude(t *testing.T) {
	var a Agent = Claude{}

	data, ok := a.ParseSessionData([]byte(`{"sessionId":"s1"}`))
	if !ok {
		t.Fatal("expected valid session data")
	}
	if data.AgentName != "claude" {
		t.Errorf("AgentName = %q, want claude default", data.AgentName)
	}

	// Claude's parser returns any string status; validation happens against ValidStatusStates.
	st, ok := a.ParseStatus([]byte(`{"status":"bogus"}`))
	if !ok || ContainsState(a.ValidStatusStates(), st.State) {
		t.Errorf("expected bogus status to parse but fail validation, got %+v ok=%v", st, ok)
	}
}

func TestCodex(t *testing.T) {
	var a Agent = Codex{}

	if _, ok := a.ParseSessionData([]byte(`{"sessionId":"not-a-uuid"}`)); ok {
		t.Error("non-UUID session id should be rejected")
	}
	data, ok := a.ParseSessionData([]byte(`{"sessionId":"123e4567-e89b-12d3-a456-426614174000"}`))
	if !ok {
		t.Fatal("UUID session id should be accepted")
	}
	if data.AgentName != "codex" {
		t.Errorf("AgentName = %q, want codex", data.AgentName)
	}
	if ContainsState(a.ValidStatusStates(), StateActive) {
		t.Error("codex should not report the active state")
	}
}

func TestValidSessionID(t *testing.T) {
	valid := []string{"a", "ABC_123", "x-y-z"}
	invalid := []string{"", "a b", "a/b", "a.b", "../x", "ü"}

	for _, id := range valid {
		if !ValidSessionID(id) {
			t.Errorf("ValidSessionID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidSessionID(id) {
			t.Errorf("ValidSessionID(%q) = true, want false", id)
		}
	}
}
