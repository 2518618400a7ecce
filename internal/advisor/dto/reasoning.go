package dto

// PositionReviewRequest is the structured context handed to the reasoning
// assistant for an edge candidate.
type PositionReviewRequest struct {
	Strategy          string         `json:"strategy"`
	Symbol            string         `json:"symbol"`
	Account           string         `json:"account"`
	OptionType        string         `json:"option_type"`
	Side              string         `json:"side"`
	Strike            float64        `json:"strike"`
	Contracts         int            `json:"contracts"`
	EntryPremium      float64        `json:"entry_premium"`
	DTE               int            `json:"dte"`
	PLPercent         float64        `json:"pl_percent"`
	Metrics           *MarketMetrics `json:"metrics"`
	Conditions        MarketConditions `json:"conditions"`
	PreliminaryAction string         `json:"preliminary_action"`
	PreliminaryReason string         `json:"preliminary_reason"`
	AllowedActions    []string       `json:"allowed_actions"`
}

// PositionReviewResult is the assistant's verdict. Recommendation must be one
// of the allowed actions or the caller discards the override.
type PositionReviewResult struct {
	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning"`
}

// GeminiAPIRequest is the generateContent request body.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content is a single Gemini conversation turn.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is one text chunk in a Gemini turn.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the generateContent response body.
type GeminiAPIResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ChatCompletionRequest is the OpenAI-compatible request used by the Grok
// provider.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// ChatMessage is one OpenAI-compatible chat turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the OpenAI-compatible response body.
type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}
