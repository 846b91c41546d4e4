package shared

import (
	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/domain/coin"
	"zoracoin/pkg/errors"
)

// Outcome classifies how a tool call ended
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeInBandError Outcome = "in_band_error" // delegated call failed, reported as text
	OutcomeRejected    Outcome = "rejected"      // arguments violated the input contract
	OutcomeFailed      Outcome = "failed"        // propagated as a protocol error
)

// Reply is the uniform envelope: one text block and an optional structured payload
type Reply struct {
	Text       string
	Structured any
}

// Result converts the reply to an MCP tool result. The error flag is never set.
func (r Reply) Result() *mcp.CallToolResult {
	if r.Structured == nil {
		return mcp.NewToolResultText(r.Text)
	}
	return mcp.NewToolResultStructured(r.Structured, r.Text)
}

// Success builds a reply carrying both text and payload
func Success(text string, structured any) *mcp.CallToolResult {
	return Reply{Text: text, Structured: structured}.Result()
}

// InBandError reports a delegated failure as a text-only reply: label followed by describe(err)
func InBandError(label string, describe coin.Describer, err error) *mcp.CallToolResult {
	return Reply{Text: label + describe(err)}.Result()
}

// Classify derives the outcome of a finished call
func Classify(result *mcp.CallToolResult, err error) Outcome {
	if err != nil {
		var vErr *errors.ValidationError
		if errors.As(err, &vErr) {
			return OutcomeRejected
		}
		return OutcomeFailed
	}
	if result == nil || result.StructuredContent == nil {
		return OutcomeInBandError
	}
	return OutcomeSuccess
}

// TextOf returns the first text block of a result
func TextOf(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}
