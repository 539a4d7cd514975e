// Package agent drives the LLM-backed research workflow: one analyst chat
// per session, prompted with depot data and asked to write research notes in
// the structure the depot package can parse back.
package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Analyst represents a chat with an equity research analyst.
type Analyst struct {
	Name      string                       `json:"name"`
	ModelName string                       `json:"model_name"`
	Config    *genai.GenerateContentConfig `json:"config"`
	chat      *genai.Chat
}

// NewAnalyst creates the standard research analyst, grounded with Google
// Search so figures and news are not hallucinated from stale training data.
func NewAnalyst() *Analyst {
	return &Analyst{
		Name:      "Analyst",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a sell-side equity research analyst writing for a private investor
			based in Germany. You leverage Google Search to ground every figure in a
			current, verifiable source.

			Write in markdown, keep the section structure you are asked for exactly,
			and always commit to a single recommendation label (STRONG BUY, BUY, HOLD,
			SELL or STRONG SELL). Hedged non-answers are useless to the reader.
				`}}},
		},
	}
}

// Start opens the chat session.
func (a *Analyst) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, a.ModelName, a.Config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends a prompt and returns the analyst's text response.
func (a *Analyst) Ask(ctx context.Context, prompt string) (string, error) {
	if a.chat == nil {
		return "", fmt.Errorf("analyst %s has no open chat, call Start first", a.Name)
	}
	resp, err := a.chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from analyst %s", a.Name)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
