package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecordType identifies the kind of a decoded stdout line.
type RecordType string

const (
	// RecordTypeMessage identifies a [MessageRecord].
	RecordTypeMessage RecordType = "message"
	// RecordTypeError identifies an [ErrorRecord].
	RecordTypeError RecordType = "error"
	// RecordTypeEnd identifies an [EndRecord].
	RecordTypeEnd RecordType = "end"
)

// OutputRecord is the sealed union over the record kinds the CLI writes,
// one record per stdout line.
type OutputRecord interface {
	// RecordType returns the discriminator tag for this record.
	RecordType() RecordType
}

// MessageRecord wraps a [Message] payload.
type MessageRecord struct {
	// Message is the decoded payload.
	Message Message
}

// RecordType returns [RecordTypeMessage].
func (*MessageRecord) RecordType() RecordType { return RecordTypeMessage }

// ErrorRecord is a structured mid-stream error description. Receiving one
// terminates the message sequence with a protocol error.
type ErrorRecord struct {
	// Message is the human-readable error text.
	Message string `json:"message"`
	// Code is an optional machine-readable error code.
	Code string `json:"code,omitempty"`
}

// RecordType returns [RecordTypeError].
func (*ErrorRecord) RecordType() RecordType { return RecordTypeError }

// EndRecord is the sentinel signaling clean protocol termination. When
// present it must be the last record on the stream.
type EndRecord struct{}

// RecordType returns [RecordTypeEnd].
func (*EndRecord) RecordType() RecordType { return RecordTypeEnd }

// recordEnvelope is the JSON wire shape shared by all record kinds.
type recordEnvelope struct {
	Type  string           `json:"type"`
	Data  *messageEnvelope `json:"data,omitempty"`
	Error *ErrorRecord     `json:"error,omitempty"`
}

// DecodeRecord decodes exactly one line of CLI stdout into an
// OutputRecord. A record or message with an unknown tag decodes to
// (nil, nil) so the caller can skip it; malformed JSON is an error.
func DecodeRecord(line []byte) (OutputRecord, error) {
	// The CLI may emit a bare JSON array on a line. It carries no record
	// envelope and is skipped the same way as an unknown tag.
	if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 && trimmed[0] == '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("decode record: malformed JSON array line")
		}

		return nil, nil
	}

	var env recordEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}

	switch RecordType(env.Type) {
	case RecordTypeMessage:
		if env.Data == nil {
			return nil, fmt.Errorf("decode record: message record without data")
		}
		msg, err := decodeMessage(*env.Data)
		if err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if msg == nil {
			// Unknown message shape: tolerated, not yielded.
			return nil, nil
		}

		return &MessageRecord{Message: msg}, nil

	case RecordTypeError:
		if env.Error != nil {
			return &ErrorRecord{Message: env.Error.Message, Code: env.Error.Code}, nil
		}

		return &ErrorRecord{}, nil

	case RecordTypeEnd:
		return &EndRecord{}, nil

	default:
		return nil, nil
	}
}

// EncodeRecord renders a record as a single JSON line without the trailing
// newline. DecodeRecord is its left inverse.
func EncodeRecord(record OutputRecord) ([]byte, error) {
	env := recordEnvelope{Type: string(record.RecordType())}

	switch r := record.(type) {
	case *MessageRecord:
		data, err := encodeMessage(r.Message)
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		env.Data = &data

	case *ErrorRecord:
		env.Error = r

	case *EndRecord:
		// Tag only.

	default:
		return nil, fmt.Errorf("encode record: unsupported record %T", record)
	}

	return json.Marshal(env)
}
