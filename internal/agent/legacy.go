package agent

import "github.com/Iron-Ham/lanes/internal/document"

// ParseLegacySessionData parses the historical Claude session file: a JSON
// object whose sessionId must match ValidSessionID.
func ParseLegacySessionData(content []byte) (*SessionData, bool) {
	return parseSessionDocument(content, ValidSessionID)
}

// ParseLegacyStatus parses a JSON status object and accepts only the
// built-in states.
func ParseLegacyStatus(content []byte) (*Status, bool) {
	status, ok := parseStatusDocument(content)
	if !ok || !ContainsState(BuiltinStates(), status.State) {
		return nil, false
	}
	return status, true
}

func parseSessionDocument(content []byte, validID func(string) bool) (*SessionData, bool) {
	doc, ok := document.Parse(content)
	if !ok {
		return nil, false
	}
	id, ok := doc.GetString("sessionId")
	if !ok || !validID(id) {
		return nil, false
	}
	data := &SessionData{SessionID: id}
	data.Timestamp, _ = doc.GetString("timestamp")
	data.Workflow, _ = doc.GetString("workflow")
	data.PermissionMode, _ = doc.GetString("permissionMode")
	data.AgentName, _ = doc.GetString("agentName")
	return data, true
}

func parseStatusDocument(content []byte) (*Status, bool) {
	doc, ok := document.Parse(content)
	if !ok {
		return nil, false
	}
	raw, ok := doc.GetString("status")
	if !ok {
		return nil, false
	}
	status := &Status{State: State(raw)}
	status.Timestamp, _ = doc.GetString("timestamp")
	status.Message, _ = doc.GetString("message")
	return status, true
}
