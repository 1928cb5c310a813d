// Package messages defines the wire types emitted by the Claude Code CLI
// when invoked with --output-format stream-json, and a codec for the
// newline-delimited JSON framing.
//
// Each stdout line is one JSON object tagged by a "type" field. The tag
// discriminates between three record kinds:
//
//   - "message" ([MessageRecord]): carries a [Message] payload in "data".
//   - "error" ([ErrorRecord]): a structured mid-stream error description.
//   - "end" ([EndRecord]): a sentinel signaling clean protocol termination.
//
// A [Message] is itself a union over four shapes (user, assistant, system
// and result), and an assistant message carries an ordered list of
// [ContentBlock] values (text, tool_use, tool_result).
//
// All unions are sealed interfaces: a closed set of implementing structs
// with a discriminator method. Consumers switch exhaustively on the
// concrete type; unknown tags decode to nothing rather than failing, so
// newer CLI versions can add record kinds without breaking older SDKs.
//
// This is the lowest-level package in the SDK and depends only on the
// standard library.
package messages
