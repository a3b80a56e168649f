package agent

import "github.com/google/uuid"

// Codex is the OpenAI Codex CLI agent. Codex session ids are UUIDs and the
// agent never reports the "active" state.
type Codex struct{}

func (Codex) Name() string            { return "codex" }
func (Codex) SessionFileName() string { return ".codex-session" }
func (Codex) StatusFileName() string  { return ".codex-status" }

func (Codex) ParseSessionData(content []byte) (*SessionData, bool) {
	data, ok := parseSessionDocument(content, validUUID)
	if !ok {
		return nil, false
	}
	if data.AgentName == "" {
		data.AgentName = "codex"
	}
	return data, true
}

func (Codex) ParseStatus(content []byte) (*Status, bool) {
	return parseStatusDocument(content)
}

func (Codex) ValidStatusStates() []State {
	return []State{StateIdle, StateWorking, StateWaitingForUser, StateError}
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
