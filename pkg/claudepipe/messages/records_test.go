package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordMessages(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Message
	}{
		{
			name: "user",
			line: `{"type":"message","data":{"type":"user","content":"hi","session_id":"s1"}}`,
			want: &UserMessage{Content: "hi", SessionID: "s1"},
		},
		{
			name: "assistant with blocks",
			line: `{"type":"message","data":{"type":"assistant","content":[` +
				`{"type":"text","text":"hello"},` +
				`{"type":"tool_use","id":"t1","name":"Read","input":{"path":"main.go"}},` +
				`{"type":"tool_result","tool_use_id":"t1","content":"package main","is_error":false}` +
				`],"session_id":"s1"}}`,
			want: &AssistantMessage{
				Content: []ContentBlock{
					TextBlock{Text: "hello"},
					ToolUseBlock{ID: "t1", Name: "Read", Input: map[string]any{"path": "main.go"}},
					ToolResultBlock{ToolUseID: "t1", Content: "package main"},
				},
				SessionID: "s1",
			},
		},
		{
			name: "system error notice",
			line: `{"type":"message","data":{"type":"system","subtype":"error","data":{"message":"rate limited"},"session_id":"s1"}}`,
			want: &SystemMessage{
				Subtype:   "error",
				Data:      map[string]any{"message": "rate limited"},
				SessionID: "s1",
			},
		},
		{
			name: "result with usage and cost",
			line: `{"type":"message","data":{"type":"result","content":"done",` +
				`"usage":{"input_tokens":10,"output_tokens":20,"cache_read_input_tokens":5},` +
				`"cost":{"total_usd":0.01},"session_id":"s1"}}`,
			want: &ResultMessage{
				Content:   "done",
				Usage:     &UsageStats{InputTokens: 10, OutputTokens: 20, CacheReadInputTokens: 5},
				Cost:      &CostInfo{TotalUSD: 0.01},
				SessionID: "s1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := DecodeRecord([]byte(tt.line))
			require.NoError(t, err)

			msgRecord, ok := record.(*MessageRecord)
			require.True(t, ok)
			assert.Equal(t, tt.want, msgRecord.Message)
		})
	}
}

func TestDecodeRecordError(t *testing.T) {
	record, err := DecodeRecord([]byte(`{"type":"error","error":{"message":"overloaded","code":"overloaded_error"}}`))
	require.NoError(t, err)

	errRecord, ok := record.(*ErrorRecord)
	require.True(t, ok)
	assert.Equal(t, "overloaded", errRecord.Message)
	assert.Equal(t, "overloaded_error", errRecord.Code)
}

func TestDecodeRecordEnd(t *testing.T) {
	record, err := DecodeRecord([]byte(`{"type":"end"}`))
	require.NoError(t, err)
	assert.IsType(t, &EndRecord{}, record)
}

func TestDecodeRecordUnknownTagsSkipped(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unknown record tag", `{"type":"heartbeat","data":{}}`},
		{"unknown message tag", `{"type":"message","data":{"type":"thinking","content":"..."}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := DecodeRecord([]byte(tt.line))
			require.NoError(t, err)
			assert.Nil(t, record)
		})
	}
}

func TestDecodeRecordUnknownBlockSkipped(t *testing.T) {
	line := `{"type":"message","data":{"type":"assistant","content":[` +
		`{"type":"thinking","text":"hmm"},{"type":"text","text":"answer"}]}}`

	record, err := DecodeRecord([]byte(line))
	require.NoError(t, err)

	msg := record.(*MessageRecord).Message.(*AssistantMessage)
	require.Len(t, msg.Content, 1)
	assert.Equal(t, TextBlock{Text: "answer"}, msg.Content[0])
}

func TestDecodeRecordArrayLineSkipped(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"numbers", `[1,2,3]`},
		{"strings", `["partial","tool","output"]`},
		{"empty", `[]`},
		{"leading space", `  ["x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := DecodeRecord([]byte(tt.line))
			require.NoError(t, err)
			assert.Nil(t, record)
		})
	}
}

func TestDecodeRecordMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"truncated object", `{"type":"message","data":`},
		{"truncated array", `[1,2,`},
		{"message without data", `{"type":"message"}`},
		{"wrong content shape", `{"type":"message","data":{"type":"user","content":42}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(tt.line))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRecordRoundTrip(t *testing.T) {
	records := []OutputRecord{
		&MessageRecord{Message: &UserMessage{Content: "hi", SessionID: "s1"}},
		&MessageRecord{Message: &AssistantMessage{
			Content: []ContentBlock{
				TextBlock{Text: "hello"},
				ToolUseBlock{ID: "t1", Name: "Bash", Input: map[string]any{"command": "ls"}},
				ToolResultBlock{ToolUseID: "t1", Content: "a b c", IsError: true},
			},
			SessionID: "s1",
		}},
		&MessageRecord{Message: &SystemMessage{
			Subtype: "error", Data: map[string]any{"message": "oops"}, SessionID: "s1",
		}},
		&MessageRecord{Message: &ResultMessage{
			Content:   "done",
			Usage:     &UsageStats{InputTokens: 1, OutputTokens: 2},
			SessionID: "s1",
		}},
		&ErrorRecord{Message: "overloaded", Code: "overloaded_error"},
		&EndRecord{},
	}

	for _, record := range records {
		line, err := EncodeRecord(record)
		require.NoError(t, err)

		decoded, err := DecodeRecord(line)
		require.NoError(t, err)
		assert.Equal(t, record, decoded)
	}
}

func TestErrorTextOnlyOnErrorSubtype(t *testing.T) {
	errMsg := &SystemMessage{Subtype: "error", Data: map[string]any{"message": "bad"}}
	assert.Equal(t, "bad", errMsg.ErrorText())

	initMsg := &SystemMessage{Subtype: "init", Data: map[string]any{"message": "bad"}}
	assert.Empty(t, initMsg.ErrorText())

	noText := &SystemMessage{Subtype: "error", Data: map[string]any{"message": 7}}
	assert.Empty(t, noText.ErrorText())
}

func TestUsageStatsTotal(t *testing.T) {
	usage := &UsageStats{
		InputTokens:          10,
		OutputTokens:         20,
		CacheReadInputTokens: 5,
	}
	assert.Equal(t, 30, usage.TotalTokens())
}
