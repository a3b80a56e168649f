package agent

// Claude is the configured Claude Code agent. Its files share names with
// the legacy format but the agent owns their validation.
type Claude struct{}

func (Claude) Name() string            { return "claude" }
func (Claude) SessionFileName() string { return ".claude-session" }
func (Claude) StatusFileName() string  { return ".claude-status" }

func (Claude) ParseSessionData(content []byte) (*SessionData, bool) {
	data, ok := parseSessionDocument(content, ValidSessionID)
	if !ok {
		return nil, false
	}
	if data.AgentName == "" {
		data.AgentName = "claude"
	}
	return data, true
}

func (Claude) ParseStatus(content []byte) (*Status, bool) {
	return parseStatusDocument(content)
}

func (Claude) ValidStatusStates() []State {
	return BuiltinStates()
}
