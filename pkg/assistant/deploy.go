package assistant

import (
	"context"
	"errors"

	"github.com/barekit/orbitai/pkg/assembler"
	"github.com/barekit/orbitai/pkg/deploy"
	"github.com/barekit/orbitai/pkg/ledger"
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/session"
)

// Deploy submits the session's record to the deployment service.
//
// The record is rebuilt from the collected values when the session has none yet,
// validated, and checked against the parent chain when preflight is enabled.
// A failed submission leaves the session's deployment state untouched.
func (s *Service) Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error) {
	sess, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	cfg := sess.Config
	if cfg == nil {
		cfg, err = s.build(sess)
		if errors.Is(err, assembler.ErrNoValues) {
			return nil, ErrConfigIncomplete
		}
		if err != nil {
			return nil, err
		}
		sess.Config = cfg
	}

	if ok, problems := assembler.Validate(cfg); !ok {
		return nil, &ValidationError{Problems: problems}
	}

	if s.preflight != nil {
		report, err := s.preflight.Run(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if !report.OK {
			s.logger.Warn("Preflight checks failed", "session_id", sess.ID, "failures", report.Failures())
			return nil, &PreflightError{Report: report}
		}
	}

	sub, err := s.submit(ctx, cfg, req.ConfigID)
	if err != nil {
		s.logger.Error("Deployment submission failed", "session_id", sess.ID, "chain", cfg.Name, "error", err)
		s.metrics.Deploy(submissionResult(err))
		s.record(ctx, ledger.Event{
			Kind:        ledger.KindRejected,
			SessionID:   sess.ID,
			ConfigID:    req.ConfigID,
			ChainName:   cfg.ChainConfig.ChainName,
			ChainID:     cfg.ChainID,
			ParentChain: string(cfg.ParentChain),
			Error:       err.Error(),
		})
		return nil, err
	}

	sess.DeploymentID = sub.DeploymentID
	sess.DeploymentStatus = deploy.StatusStarted
	sess.Phase = session.PhaseDeploying
	sess.Touch()

	s.metrics.Deploy("submitted")
	s.logger.Info("Deployment submitted", "session_id", sess.ID, "deployment_id", sub.DeploymentID, "chain", cfg.Name)
	s.record(ctx, ledger.Event{
		Kind:         ledger.KindSubmitted,
		SessionID:    sess.ID,
		DeploymentID: sub.DeploymentID,
		ConfigID:     sub.ConfigID,
		ChainName:    cfg.ChainConfig.ChainName,
		ChainID:      cfg.ChainID,
		ParentChain:  string(cfg.ParentChain),
		Status:       deploy.StatusStarted,
	})

	return &DeployResult{
		DeploymentID: sub.DeploymentID,
		ConfigID:     sub.ConfigID,
		Status:       deploy.StatusStarted,
		Message:      "Deployment initiated for " + cfg.ChainConfig.ChainName,
	}, nil
}

func (s *Service) submit(ctx context.Context, cfg *orbit.Config, configID string) (*deploy.Submission, error) {
	if configID == "" {
		return s.deployer.Submit(ctx, cfg.Backend())
	}
	id, err := s.deployer.StartDeployment(ctx, configID)
	if err != nil {
		return nil, err
	}
	return &deploy.Submission{ConfigID: configID, DeploymentID: id}, nil
}

// DeployStatus polls the deployment service. The owning session, when it is
// still live, follows the status: completed moves it to deployed and failed
// returns it to review.
func (s *Service) DeployStatus(ctx context.Context, deploymentID string) (*deploy.Status, error) {
	st, err := s.deployer.Status(ctx, deploymentID)
	if err != nil {
		return nil, err
	}

	last, err := s.ledger.Latest(ctx, deploymentID)
	if err != nil {
		if !errors.Is(err, ledger.ErrNotFound) {
			s.logger.Warn("Failed to look up deployment owner", "deployment_id", deploymentID, "error", err)
		}
		return st, nil
	}

	if last.Status != st.Status || last.Progress != st.Progress {
		s.record(ctx, ledger.Event{
			Kind:         ledger.KindStatus,
			SessionID:    last.SessionID,
			DeploymentID: deploymentID,
			ConfigID:     last.ConfigID,
			ChainName:    last.ChainName,
			ChainID:      last.ChainID,
			ParentChain:  last.ParentChain,
			Status:       st.Status,
			Progress:     st.Progress,
			Error:        st.Error,
		})
	}

	s.follow(last.SessionID, st)
	return st, nil
}

func (s *Service) follow(sessionID string, st *deploy.Status) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	if sess.DeploymentID != st.DeploymentID {
		return
	}
	sess.DeploymentStatus = st.Status
	switch st.Status {
	case deploy.StatusCompleted:
		if sess.Phase != session.PhaseDeployed {
			s.logger.Info("Deployment completed", "session_id", sess.ID, "deployment_id", st.DeploymentID)
		}
		sess.Phase = session.PhaseDeployed
	case deploy.StatusFailed:
		sess.Phase = session.PhaseReview
	}
}

func (s *Service) record(ctx context.Context, e ledger.Event) {
	if err := s.ledger.Append(ctx, e); err != nil {
		s.logger.Error("Failed to record deployment event", "session_id", e.SessionID, "kind", e.Kind, "error", err)
	}
}

func submissionResult(err error) string {
	var apiErr *deploy.APIError
	switch {
	case errors.As(err, &apiErr):
		return "rejected"
	case errors.Is(err, deploy.ErrUnavailable):
		return "unavailable"
	}
	return "error"
}
