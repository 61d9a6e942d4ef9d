// Package inference declares the boundary with the hosted multimodal model
// service. This repository never talks to the model itself; workers only
// receive already-materialized images and records through these interfaces.
package inference

import "context"

// EncodedImage is an encoded image plus its declared media type, as returned
// by or handed to the model service.
type EncodedImage struct {
	Data []byte `json:"data"`
	MIME string `json:"mime"`
}

// LineItem is one extracted bill line.
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Bill is the typed record produced by structured extraction.
type Bill struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

// Role identifies who authored a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Conversation is a caller-owned append-only log. The full log is passed
// wholesale on every request instead of holding a session handle on the
// service side; recreating the context each turn is a deliberate
// simplicity/cost tradeoff, not a defect.
type Conversation struct {
	messages []Message
}

// Append adds a turn to the log and returns the conversation for chaining.
func (c *Conversation) Append(role Role, text string) *Conversation {
	c.messages = append(c.messages, Message{Role: role, Text: text})
	return c
}

// Messages returns a copy of the log; callers cannot mutate history through
// it.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

// BillExtractor turns a bill photo into a typed record of line items and a
// total.
type BillExtractor interface {
	ExtractBill(ctx context.Context, img EncodedImage) (*Bill, error)
}

// TextExtractor returns the plain text visible in an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, img EncodedImage) (string, error)
}

// ImageGenerator produces an encoded image for a prompt and aspect ratio.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (*EncodedImage, error)
}

// ImageEditor applies a free-text instruction to an existing image.
type ImageEditor interface {
	EditImage(ctx context.Context, img EncodedImage, instruction string) (*EncodedImage, error)
}

// ChatCompleter answers the latest user turn given the whole conversation.
type ChatCompleter interface {
	Complete(ctx context.Context, conv *Conversation) (string, error)
}
