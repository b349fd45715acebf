package stylize

import (
	"encoding/json"
	"strings"
	"sync"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
)

// MessageUpdatePrompt is the message type that sets the prompt.
const MessageUpdatePrompt = "updatePrompt"

// Message is an inbound message on the prompt channel.
type Message struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// PromptContext holds the prompt last received on the message channel.
// It is safe for concurrent use.
type PromptContext struct {
	mu     sync.RWMutex
	prompt string
}

// NewPromptContext returns a context holding initial.
func NewPromptContext(initial string) *PromptContext {
	return &PromptContext{prompt: initial}
}

// Prompt returns the current prompt. Empty means the default applies.
func (p *PromptContext) Prompt() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prompt
}

// Set replaces the prompt.
func (p *PromptContext) Set(prompt string) {
	p.mu.Lock()
	p.prompt = prompt
	p.mu.Unlock()
}

// Handle applies msg. Messages of other types are ignored and reported
// as not handled.
func (p *PromptContext) Handle(msg Message) (bool, error) {
	if msg.Type != MessageUpdatePrompt {
		return false, nil
	}
	prompt := strings.TrimSpace(msg.Prompt)
	if prompt != "" {
		if err := dkerrors.ValidatePrompt(prompt); err != nil {
			return false, err
		}
	}
	p.Set(prompt)
	return true, nil
}

// HandleJSON decodes and applies a raw message.
func (p *PromptContext) HandleJSON(data []byte) (bool, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return false, dkerrors.Wrap(dkerrors.ErrCodeInvalidInput, err, "decode message")
	}
	return p.Handle(msg)
}
