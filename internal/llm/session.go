package llm

import (
	"context"

	"github.com/spherical/pdf-transcriber/internal/continuity"
)

// Session is a multi-turn conversation with the extraction model over one
// document. Earlier windows stay in the conversation history so the model
// keeps style and numbering consistent, but every prompt also embeds the
// full continuity context explicitly: the history is an aid, never the
// source of truth.
type Session struct {
	client  *Client
	fileURI string
	history []Content
}

// NewSession starts a conversation over the uploaded document. A new session
// is created per document run.
func (c *Client) NewSession(fileURI string) *Session {
	return &Session{
		client:  c,
		fileURI: fileURI,
	}
}

// Send issues one window's extraction call and returns the raw response
// text. Failed calls leave the history untouched so a retry replays the
// identical conversation.
func (s *Session) Send(ctx context.Context, cc continuity.Context) (string, error) {
	prompt := BuildPrompt(cc)

	user := Content{
		Role: "user",
		Parts: []Part{
			{Text: prompt},
			{FileData: &FileData{MimeType: "application/pdf", FileURI: s.fileURI}},
		},
	}

	contents := make([]Content, 0, len(s.history)+1)
	contents = append(contents, s.history...)
	contents = append(contents, user)

	text, err := s.client.generate(ctx, contents)
	if err != nil {
		return "", err
	}

	s.history = append(s.history, user, Content{
		Role:  "model",
		Parts: []Part{{Text: text}},
	})
	return text, nil
}
