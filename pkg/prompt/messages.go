package prompt

import (
	"fmt"
	"strings"

	"github.com/barekit/orbitai/pkg/llm"
	"github.com/barekit/orbitai/pkg/slot"
)

// HistoryWindow is how many transcript messages are replayed to the provider.
const HistoryWindow = 10

const systemTemplate = `You are an expert assistant who helps people configure and deploy their own L3 blockchain (an Arbitrum Orbit chain).

Your job:
1. Explain technical ideas in plain language. Assume the user is not a blockchain expert.
2. Ask one question at a time to collect configuration values.
3. Suggest defaults that fit the user's use case.
4. Stay friendly and patient.

Concepts you may need to explain:
%s

Conversation phase: %s
Current step: %s
Collected values:
%s

Guidelines:
- Keep replies to 2-4 sentences.
- Do not use emojis.
- Use bullet points when listing options.
- Always end with a question or a clear next action.
- If the user says "use my wallet", their connected wallet becomes the owner.
- If the input is unclear, ask for clarification.

Reply in plain text for the user. Never output JSON.`

type exchange struct {
	user, assistant string
}

var fewShot = []exchange{
	{
		user:      "I want to build a gaming chain",
		assistant: "Great pick! Games need fast blocks for a smooth player experience, so I'll tune everything for that.\n\nWhat would you like to call your chain?",
	},
	{
		user:      "GameVerse",
		assistant: "GameVerse, nice!\n\nNow for the parent chain. While you're testing I'd suggest Arbitrum Sepolia. Sound good?",
	},
	{
		user:      "go with anytrust",
		assistant: "AnyTrust it is. Your players will enjoy lower gas fees.\n\nHow many validators would you like? Three is plenty for a gaming chain.",
	},
}

// System renders the system instruction for one turn.
func System(phase string, step slot.Slot, values *slot.Values, concepts []string) string {
	return fmt.Sprintf(systemTemplate, bullets(concepts), phase, step, Collected(values))
}

// Collected lists the values gathered so far in slot order, marking preset defaults.
func Collected(values *slot.Values) string {
	if values == nil || values.Len() == 0 {
		return "- none yet"
	}
	var b strings.Builder
	for _, s := range slot.All() {
		v, ok := values.Get(s)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s", s, v.String())
		if values.IsDefault(s) {
			b.WriteString(" (suggested default)")
		}
	}
	return b.String()
}

// FewShot returns the illustrative exchanges as alternating user/assistant messages.
func FewShot() []llm.Message {
	out := make([]llm.Message, 0, 2*len(fewShot))
	for _, e := range fewShot {
		out = append(out, llm.User(e.user), llm.Assistant(e.assistant))
	}
	return out
}

// StepHint steers the reply toward the question for step.
func StepHint(step slot.Slot, question string) string {
	return fmt.Sprintf("Context: You should be asking about '%s'. The default question is: %s", step, question)
}

// BackfillHint asks the reply to acknowledge a value filled out of order.
func BackfillHint(v slot.Value) string {
	return fmt.Sprintf("The user's last message also answered '%s' with %s. Acknowledge that in one short sentence, then continue with the question above.", v.Slot(), v.String())
}

// Turn is everything needed to build one request.
type Turn struct {
	Phase    string
	Step     slot.Slot
	Values   *slot.Values
	Concepts []string
	// History is the transcript before the current message.
	History []llm.Message
	Message string
	// Question is the canned question for Step.
	Question string
	// Backfilled is set when this message answered a slot other than Step.
	Backfilled slot.Value
}

// BuildMessages lays out the request: system instruction, few-shot exchanges,
// recent history, the user's message, then the step hint and an optional
// backfill hint.
func BuildMessages(t Turn) []llm.Message {
	history := t.History
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	msgs := make([]llm.Message, 0, 1+2*len(fewShot)+len(history)+3)
	msgs = append(msgs, llm.System(System(t.Phase, t.Step, t.Values, t.Concepts)))
	msgs = append(msgs, FewShot()...)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.User(t.Message))
	msgs = append(msgs, llm.System(StepHint(t.Step, t.Question)))
	if t.Backfilled != nil {
		msgs = append(msgs, llm.System(BackfillHint(t.Backfilled)))
	}
	return msgs
}

func bullets(lines []string) string {
	if len(lines) == 0 {
		return "- (none)"
	}
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(l)
	}
	return b.String()
}
