package messages

import "fmt"

// BlockType identifies the kind of a content block within an assistant
// message.
type BlockType string

const (
	// BlockTypeText identifies a [TextBlock].
	BlockTypeText BlockType = "text"
	// BlockTypeToolUse identifies a [ToolUseBlock].
	BlockTypeToolUse BlockType = "tool_use"
	// BlockTypeToolResult identifies a [ToolResultBlock].
	BlockTypeToolResult BlockType = "tool_result"
)

// ContentBlock is the sealed union over assistant content block shapes.
type ContentBlock interface {
	// BlockType returns the discriminator tag for this block.
	BlockType() BlockType
}

// TextBlock is a plain text fragment of an assistant response.
type TextBlock struct {
	// Text is the fragment content.
	Text string `json:"text"`
}

// BlockType returns [BlockTypeText].
func (TextBlock) BlockType() BlockType { return BlockTypeText }

// ToolUseBlock records the model invoking a tool.
type ToolUseBlock struct {
	// ID uniquely identifies this invocation within the session.
	ID string `json:"id"`
	// Name is the tool name (e.g. "Read", "Bash").
	Name string `json:"name"`
	// Input is the structured tool input.
	Input map[string]any `json:"input,omitempty"`
}

// BlockType returns [BlockTypeToolUse].
func (ToolUseBlock) BlockType() BlockType { return BlockTypeToolUse }

// ToolResultBlock carries the outcome of an earlier tool invocation.
// ToolUseID references the originating [ToolUseBlock].
type ToolResultBlock struct {
	// ToolUseID references the tool_use block this result answers.
	ToolUseID string `json:"tool_use_id"`
	// Content is the tool output.
	Content string `json:"content,omitempty"`
	// IsError marks a failed tool execution.
	IsError bool `json:"is_error,omitempty"`
}

// BlockType returns [BlockTypeToolResult].
func (ToolResultBlock) BlockType() BlockType { return BlockTypeToolResult }

// blockEnvelope is the JSON wire shape shared by all block kinds.
type blockEnvelope struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

// decodeBlocks converts raw block envelopes into typed blocks.
// Unknown block tags are skipped.
func decodeBlocks(raw []blockEnvelope) []ContentBlock {
	var blocks []ContentBlock
	for _, env := range raw {
		switch BlockType(env.Type) {
		case BlockTypeText:
			blocks = append(blocks, TextBlock{Text: env.Text})
		case BlockTypeToolUse:
			blocks = append(blocks, ToolUseBlock{ID: env.ID, Name: env.Name, Input: env.Input})
		case BlockTypeToolResult:
			blocks = append(blocks, ToolResultBlock{
				ToolUseID: env.ToolUseID,
				Content:   env.Content,
				IsError:   env.IsError,
			})
		}
	}

	return blocks
}

// encodeBlocks converts typed blocks back into wire envelopes.
func encodeBlocks(blocks []ContentBlock) ([]blockEnvelope, error) {
	raw := make([]blockEnvelope, 0, len(blocks))
	for _, b := range blocks {
		switch block := b.(type) {
		case TextBlock:
			raw = append(raw, blockEnvelope{Type: string(BlockTypeText), Text: block.Text})
		case ToolUseBlock:
			raw = append(raw, blockEnvelope{
				Type:  string(BlockTypeToolUse),
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		case ToolResultBlock:
			raw = append(raw, blockEnvelope{
				Type:      string(BlockTypeToolResult),
				ToolUseID: block.ToolUseID,
				Content:   block.Content,
				IsError:   block.IsError,
			})
		default:
			return nil, fmt.Errorf("unsupported content block %T", b)
		}
	}

	return raw, nil
}
