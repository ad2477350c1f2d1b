package assistant

import (
	"context"
	"strings"

	"github.com/barekit/orbitai/pkg/assembler"
	"github.com/barekit/orbitai/pkg/intent"
	"github.com/barekit/orbitai/pkg/llm"
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/preset"
	"github.com/barekit/orbitai/pkg/prompt"
	"github.com/barekit/orbitai/pkg/session"
	"github.com/barekit/orbitai/pkg/slot"
)

// Submit processes one user message. An unknown or expired session id starts
// a new session under that id. Turns on one session are serialized.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sess, created := s.sessions.GetOrCreate(req.SessionID, req.UserID, req.WalletAddress)
	if created {
		s.logger.Info("Session created", "session_id", sess.ID)
		s.metrics.Sessions(s.sessions.Len())
	}

	sess.Lock()
	defer sess.Unlock()

	history := sess.Recent(prompt.HistoryWindow)
	sess.AddMessage(session.RoleUser, message)

	turn := &intent.Turn{Cursor: sess.Step, Values: sess.Values, Wallet: sess.WalletAddress}
	out := s.router.Route(turn, message)
	sess.Step = turn.Cursor
	s.metrics.Turn(string(out.Kind))

	advancePhase(sess, out)

	var reply string
	switch {
	case out.Kind == intent.KindGoBack:
		reply = prompt.GoBack(sess.Step, out.Moved, activePreset(sess))
	case sess.Step == slot.Complete:
		reply = s.review(ctx, sess, out, history, message)
	default:
		reply = s.generate(ctx, sess, out, history, message, prompt.Question(sess.Step, activePreset(sess)))
	}

	sess.AddMessage(session.RoleAssistant, reply)

	r := &Reply{
		SessionID:    sess.ID,
		Message:      reply,
		Phase:        sess.Phase,
		CurrentStep:  sess.Step,
		Progress:     sess.Progress(),
		Collected:    sess.Values.Snapshot(),
		Defaults:     sess.Values.Defaults(),
		Deployment:   deployment(sess),
		QuickActions: quickActions(sess.Step),
	}
	if sess.Config != nil {
		b := sess.Config.Backend()
		r.Config = &b
	}
	return r, nil
}

// advancePhase applies the phase transitions a routed message can cause.
// Deployment phases are only left through deployment status updates.
func advancePhase(sess *session.Session, out intent.Outcome) {
	if sess.Phase == session.PhaseDeploying || sess.Phase == session.PhaseDeployed {
		return
	}
	if sess.Phase == session.PhaseGreeting && out.Kind != intent.KindCasual {
		sess.Phase = session.PhaseDiscovery
	}
	if sess.Phase == session.PhaseDiscovery && sess.Values.Has(slot.UseCase) {
		sess.Phase = session.PhaseConfiguration
	}
	switch {
	case sess.Step == slot.Complete:
		sess.Phase = session.PhaseReview
	case sess.Phase == session.PhaseReview:
		// went back from the review
		sess.Phase = session.PhaseConfiguration
		sess.Config = nil
	}
}

// review rebuilds the record. A message that completed the slots or changed a
// value gets the summary; anything else goes to the generator with the summary
// as the question.
func (s *Service) review(ctx context.Context, sess *session.Session, out intent.Outcome, history []session.Message, message string) string {
	cfg, err := s.build(sess)
	if err != nil {
		s.logger.Error("Failed to build configuration", "session_id", sess.ID, "error", err)
		return s.generate(ctx, sess, out, history, message, prompt.Question(slot.Complete, activePreset(sess)))
	}
	sess.Config = cfg

	summary := prompt.Review(cfg)
	if ok, problems := assembler.Validate(cfg); !ok {
		summary += "\n\nBefore deploying, please fix:\n- " + strings.Join(problems, "\n- ")
	}

	if out.Completed() || out.Kind == intent.KindCrossSlot {
		if out.Kind == intent.KindCrossSlot {
			return prompt.Acknowledge(out.Value) + "\n\n" + summary
		}
		return summary
	}
	return s.generate(ctx, sess, out, history, message, summary)
}

// build assembles the record for sess, keeping the chain id stable across rebuilds.
func (s *Service) build(sess *session.Session) (*orbit.Config, error) {
	cfg, err := s.assembler.Build(assembler.Input{
		Values:  sess.Values,
		ChainID: sess.ChainID,
		Wallet:  sess.WalletAddress,
	})
	if err != nil {
		return nil, err
	}
	sess.ChainID = cfg.ChainID
	return cfg, nil
}

// generate asks the text generator for the reply and falls back to the canned
// question when it is missing or fails.
func (s *Service) generate(ctx context.Context, sess *session.Session, out intent.Outcome, history []session.Message, message, question string) string {
	var backfilled slot.Value
	if out.Kind == intent.KindCrossSlot {
		backfilled = out.Value
	}
	fallback := prompt.Fallback(question, backfilled)

	if s.generator == nil {
		return fallback
	}

	msgs := prompt.BuildMessages(prompt.Turn{
		Phase:      string(sess.Phase),
		Step:       sess.Step,
		Values:     sess.Values,
		Concepts:   s.glossary.Lookup(ctx, message),
		History:    transcript(history),
		Message:    message,
		Question:   question,
		Backfilled: backfilled,
	})

	resp, err := s.generator.Chat(ctx, msgs)
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		s.logger.Warn("Text generation unavailable, using canned reply", "session_id", sess.ID, "step", sess.Step, "error", err)
		s.metrics.Fallback("canned")
		return fallback
	}
	return strings.TrimSpace(resp.Content)
}

func transcript(msgs []session.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case session.RoleUser:
			out = append(out, llm.User(m.Content))
		case session.RoleAssistant:
			out = append(out, llm.Assistant(m.Content))
		}
	}
	return out
}

func activePreset(sess *session.Session) preset.Preset {
	if uc, ok := slot.Lookup[slot.UseCaseValue](sess.Values, slot.UseCase); ok {
		return preset.Get(uc.UseCase)
	}
	return preset.Get(orbit.UseCaseGeneral)
}
