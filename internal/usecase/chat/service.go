// Package chat implements the catalog-grounded advisor conversation.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// DefaultContextCards is how many retrieved cards ground a completion.
const DefaultContextCards = 5

const systemPrompt = `You are CardCompare AI, a friendly and knowledgeable financial card advisor for the Indian market. You help users find the best credit, debit, forex, and prepaid cards based on their needs.

GUIDELINES:
- Be concise but helpful. Use bullet points for clarity.
- When recommending cards, mention specific card names from what you know.
- Consider the user's lifestyle: travel, dining, shopping, fuel, etc.
- Mention annual fees, cashback rates, reward points, and key benefits.
- If asked about eligibility, mention income requirements and credit score needs.
- Always clarify that you provide informational guidance, not financial advice.
- Keep responses under 300 words unless the user asks for detailed comparisons.
- Use ₹ for Indian Rupees.`

// Service grounds advisor conversations in the catalog before streaming the
// completion. Retrieval always finishes before the provider call starts.
type Service struct {
	completer    Completer
	retriever    Retriever
	contextCards int
}

// New creates a chat service.
func New(completer Completer, retriever Retriever) *Service {
	return &Service{
		completer:    completer,
		retriever:    retriever,
		contextCards: DefaultContextCards,
	}
}

// WithContextCards overrides the grounding retrieval cap.
func (s *Service) WithContextCards(n int) *Service {
	if n > 0 {
		s.contextCards = n
	}
	return s
}

// Stream runs one grounded completion turn. The most recent user message
// seeds keyword retrieval; matching cards are appended to the system
// instructions as a compact context block. Without a user message no
// retrieval occurs and no context is added.
func (s *Service) Stream(ctx context.Context, messages []domain.ChatMessage, onDelta func(string) error) error {
	conversation := filterConversation(messages)
	if len(conversation) == 0 {
		return domain.ErrInvalidMessages
	}

	system := systemPrompt
	if last, ok := lastUserMessage(conversation); ok {
		cards, err := s.retriever.Search(ctx, last, s.contextCards)
		if err != nil {
			return fmt.Errorf("ground conversation: %w", err)
		}
		system += formatCardContext(cards)
	}

	final := make([]domain.ChatMessage, 0, len(conversation)+1)
	final = append(final, domain.ChatMessage{Role: domain.RoleSystem, Content: system})
	final = append(final, conversation...)

	return s.completer.StreamCompletion(ctx, final, onDelta)
}

// filterConversation keeps only user and assistant turns; clients cannot
// inject system instructions.
func filterConversation(messages []domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == domain.RoleUser || m.Role == domain.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

func lastUserMessage(messages []domain.ChatMessage) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}

// formatCardContext renders retrieved cards as a compact grounding block.
// Returns "" for an empty retrieval.
func formatCardContext(cards []domain.Card) string {
	if len(cards) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nRELEVANT CARDS FROM OUR DATABASE:\n")
	for i, c := range cards {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s) — %s, %s, Fee: ₹%s, %s, Highlight: %s",
			c.Name, c.Issuer, c.CardType, c.Network,
			formatAmount(c.AnnualFee), formatReward(c), orNA(c.Highlight))
	}
	return b.String()
}

func formatReward(c domain.Card) string {
	if c.RewardsType == nil {
		return "N/A"
	}
	rate := c.RewardRate()
	if rate == 0 {
		return fmt.Sprintf("%s: N/A", *c.RewardsType)
	}
	suffix := "X"
	if *c.RewardsType == domain.RewardsCashback {
		suffix = "%"
	}
	return fmt.Sprintf("%s: %s%s", *c.RewardsType, formatAmount(rate), suffix)
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
