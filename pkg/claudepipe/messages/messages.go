package messages

import (
	"encoding/json"
	"fmt"
)

// MessageType identifies the shape of a [Message].
type MessageType string

const (
	// MessageTypeUser identifies a [UserMessage].
	MessageTypeUser MessageType = "user"
	// MessageTypeAssistant identifies an [AssistantMessage].
	MessageTypeAssistant MessageType = "assistant"
	// MessageTypeSystem identifies a [SystemMessage].
	MessageTypeSystem MessageType = "system"
	// MessageTypeResult identifies a [ResultMessage].
	MessageTypeResult MessageType = "result"
)

// SystemSubtypeError is the system-message subtype used for error notices.
const SystemSubtypeError = "error"

// Message is the sealed union over the four message shapes the CLI emits.
type Message interface {
	// MessageType returns the discriminator tag for this message.
	MessageType() MessageType
	// GetSessionID returns the session identifier, possibly empty.
	GetSessionID() string
}

// UserMessage echoes content submitted to the CLI.
type UserMessage struct {
	// Content is the echoed prompt text.
	Content string `json:"content"`
	// SessionID identifies the conversation session.
	SessionID string `json:"session_id,omitempty"`
}

// MessageType returns [MessageTypeUser].
func (*UserMessage) MessageType() MessageType { return MessageTypeUser }

// GetSessionID returns the session identifier.
func (m *UserMessage) GetSessionID() string { return m.SessionID }

// AssistantMessage carries the model's response as ordered content blocks.
type AssistantMessage struct {
	// Content is the ordered block list.
	Content []ContentBlock
	// SessionID identifies the conversation session.
	SessionID string
}

// MessageType returns [MessageTypeAssistant].
func (*AssistantMessage) MessageType() MessageType { return MessageTypeAssistant }

// GetSessionID returns the session identifier.
func (m *AssistantMessage) GetSessionID() string { return m.SessionID }

// SystemMessage carries session announcements and error notices.
type SystemMessage struct {
	// Subtype tags the announcement kind (e.g. "init", "error").
	Subtype string `json:"subtype,omitempty"`
	// Data holds free-form detail keyed by field name.
	Data map[string]any `json:"data,omitempty"`
	// SessionID identifies the conversation session.
	SessionID string `json:"session_id,omitempty"`
}

// MessageType returns [MessageTypeSystem].
func (*SystemMessage) MessageType() MessageType { return MessageTypeSystem }

// GetSessionID returns the session identifier.
func (m *SystemMessage) GetSessionID() string { return m.SessionID }

// ErrorText returns the embedded message text of an error-subtype system
// message, or "" when this is not an error notice.
func (m *SystemMessage) ErrorText() string {
	if m.Subtype != SystemSubtypeError {
		return ""
	}
	if text, ok := m.Data["message"].(string); ok {
		return text
	}

	return ""
}

// ResultMessage is the terminal summary of a query.
type ResultMessage struct {
	// Content is the final response text.
	Content string `json:"content"`
	// Usage holds token counters when the CLI reported them.
	Usage *UsageStats `json:"usage,omitempty"`
	// Cost holds the cost breakdown when the CLI reported it.
	Cost *CostInfo `json:"cost,omitempty"`
	// SessionID identifies the conversation session.
	SessionID string `json:"session_id,omitempty"`
}

// MessageType returns [MessageTypeResult].
func (*ResultMessage) MessageType() MessageType { return MessageTypeResult }

// GetSessionID returns the session identifier.
func (m *ResultMessage) GetSessionID() string { return m.SessionID }

// messageEnvelope is the JSON wire shape shared by all message kinds.
type messageEnvelope struct {
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content,omitempty"`
	Subtype   string          `json:"subtype,omitempty"`
	Data      map[string]any  `json:"data,omitempty"`
	Usage     *UsageStats     `json:"usage,omitempty"`
	Cost      *CostInfo       `json:"cost,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
}

// decodeMessage converts a raw envelope into a typed Message.
// Unknown message tags return (nil, nil) so callers can skip them.
func decodeMessage(env messageEnvelope) (Message, error) {
	switch MessageType(env.Type) {
	case MessageTypeUser:
		var content string
		if len(env.Content) > 0 {
			if err := json.Unmarshal(env.Content, &content); err != nil {
				return nil, fmt.Errorf("user message content: %w", err)
			}
		}

		return &UserMessage{Content: content, SessionID: env.SessionID}, nil

	case MessageTypeAssistant:
		var raw []blockEnvelope
		if len(env.Content) > 0 {
			if err := json.Unmarshal(env.Content, &raw); err != nil {
				return nil, fmt.Errorf("assistant message content: %w", err)
			}
		}

		return &AssistantMessage{Content: decodeBlocks(raw), SessionID: env.SessionID}, nil

	case MessageTypeSystem:
		data := env.Data
		if data == nil {
			data = make(map[string]any)
		}

		return &SystemMessage{Subtype: env.Subtype, Data: data, SessionID: env.SessionID}, nil

	case MessageTypeResult:
		var content string
		if len(env.Content) > 0 {
			if err := json.Unmarshal(env.Content, &content); err != nil {
				return nil, fmt.Errorf("result message content: %w", err)
			}
		}

		return &ResultMessage{
			Content:   content,
			Usage:     env.Usage,
			Cost:      env.Cost,
			SessionID: env.SessionID,
		}, nil

	default:
		return nil, nil
	}
}

// encodeMessage converts a typed Message back into a wire envelope.
func encodeMessage(msg Message) (messageEnvelope, error) {
	env := messageEnvelope{Type: string(msg.MessageType()), SessionID: msg.GetSessionID()}

	switch m := msg.(type) {
	case *UserMessage:
		content, err := json.Marshal(m.Content)
		if err != nil {
			return env, err
		}
		env.Content = content

	case *AssistantMessage:
		raw, err := encodeBlocks(m.Content)
		if err != nil {
			return env, err
		}
		content, err := json.Marshal(raw)
		if err != nil {
			return env, err
		}
		env.Content = content

	case *SystemMessage:
		env.Subtype = m.Subtype
		env.Data = m.Data

	case *ResultMessage:
		content, err := json.Marshal(m.Content)
		if err != nil {
			return env, err
		}
		env.Content = content
		env.Usage = m.Usage
		env.Cost = m.Cost

	default:
		return env, fmt.Errorf("unsupported message %T", msg)
	}

	return env, nil
}
