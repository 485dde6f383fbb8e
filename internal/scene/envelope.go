package scene

import (
	"bytes"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// chatRequest is the chat-completions body. Stream is always sent, so it
// carries no omitempty.
type chatRequest struct {
	Model          string                               `json:"model"`
	Messages       []openai.ChatCompletionMessage       `json:"messages"`
	Temperature    float64                              `json:"temperature"`
	ResponseFormat *openai.ChatCompletionResponseFormat `json:"response_format"`
	Stream         bool                                 `json:"stream"`
}

type chatEnvelope struct {
	Model   json.RawMessage `json:"model"`
	Choices []struct {
		Message *struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *openai.Usage `json:"usage,omitempty"`
}

type contentKind int

const (
	contentText contentKind = iota
	contentParts
)

// messageContent is the resolved shape of choices[0].message.content: either
// one string or a list of parts.
type messageContent struct {
	kind  contentKind
	text  string
	parts []string
}

// Text joins list parts into one string.
func (c messageContent) Text() string {
	if c.kind == contentText {
		return c.text
	}
	return strings.Join(c.parts, "")
}

// completion is a parsed envelope.
type completion struct {
	model   string
	content messageContent
	usage   *openai.Usage
}

func decodeEnvelope(body []byte) (completion, error) {
	var env chatEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return completion{}, failf(MalformedEnvelope, "decode envelope: %w", err)
	}
	if len(env.Choices) == 0 {
		return completion{}, failf(MalformedEnvelope, "no choices in response")
	}
	msg := env.Choices[0].Message
	if msg == nil {
		return completion{}, failf(MalformedEnvelope, "first choice has no message")
	}
	content, err := decodeContent(msg.Content)
	if err != nil {
		return completion{}, err
	}
	return completion{
		model:   strings.TrimSpace(coerceString(env.Model)),
		content: content,
		usage:   env.Usage,
	}, nil
}

func decodeContent(raw json.RawMessage) (messageContent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return messageContent{}, failf(MalformedEnvelope, "message content missing")
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return messageContent{}, failf(MalformedEnvelope, "decode content: %w", err)
		}
		return messageContent{kind: contentText, text: s}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return messageContent{}, failf(MalformedEnvelope, "decode content parts: %w", err)
		}
		parts := make([]string, 0, len(items))
		for i, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) > 0 && item[0] == '{' {
				var p openai.ChatMessagePart
				if err := json.Unmarshal(item, &p); err != nil {
					return messageContent{}, failf(MalformedEnvelope, "decode content part %d: %w", i, err)
				}
				parts = append(parts, p.Text)
				continue
			}
			parts = append(parts, coerceString(item))
		}
		return messageContent{kind: contentParts, parts: parts}, nil
	}
	return messageContent{}, failf(MalformedEnvelope, "unsupported content type %s", raw[:1])
}

// parseScene strictly parses content as a JSON object and extracts the two
// scene fields.
func parseScene(content string) (sceneText, imagePrompt string, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return "", "", failf(InvalidSceneJSON, "parse scene json: %w", err)
	}
	sceneText = strings.TrimSpace(coerceString(fields["scene_text"]))
	imagePrompt = strings.TrimSpace(coerceString(fields["image_prompt"]))
	if sceneText == "" || imagePrompt == "" {
		return "", "", failf(InvalidSceneJSON, "scene json missing scene_text or image_prompt")
	}
	return sceneText, imagePrompt, nil
}

// coerceString renders a JSON value as text: strings are unquoted, null and
// absent values are empty, anything else keeps its compact JSON form.
func coerceString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
