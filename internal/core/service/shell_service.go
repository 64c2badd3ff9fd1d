package service

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/gharunnepal/marketplace/internal/api/metrics"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// ShellRequest is one load or navigation of the application shell.
type ShellRequest struct {
	SessionID   string
	URL         *url.URL
	Identity    *domain.Identity
	AuthLoading bool
	Flags       ports.SessionFlags
}

// ShellResult is the state the client should render.
type ShellResult struct {
	State    domain.ViewState
	CleanURL string
}

// ShellService ties together entry detection, the view router, the
// per-session view state and the session flags.
type ShellService struct {
	detector *EntryDetector
	router   *ViewRouter
	states   ports.ViewStateStore
	log      zerolog.Logger
}

func NewShellService(detector *EntryDetector, router *ViewRouter, states ports.ViewStateStore, log zerolog.Logger) *ShellService {
	return &ShellService{detector: detector, router: router, states: states, log: log}
}

// Load runs entry detection and the automatic routing rules.
func (s *ShellService) Load(ctx context.Context, req ShellRequest) *ShellResult {
	det := s.detector.Detect(req.URL, req.Flags)
	if det.CleanURL != "" {
		return &ShellResult{State: s.load(ctx, req.SessionID), CleanURL: det.CleanURL}
	}

	state := s.load(ctx, req.SessionID)
	state.OpsDetected = det.OpsDetected
	state.ShowSetup = det.ShowSetup

	settled := s.router.Settle(state, domain.Session{Identity: req.Identity, Loading: req.AuthLoading})
	if settled.ClearOps {
		s.clearOps(req.Flags)
	}
	s.save(ctx, req.SessionID, settled.State)
	return &ShellResult{State: settled.State}
}

// Navigate applies an explicit navigation request.
func (s *ShellService) Navigate(ctx context.Context, req ShellRequest, target string) Navigation {
	state := s.load(ctx, req.SessionID)
	state.OpsDetected = s.opsPending(req.Flags)

	nav := s.router.Navigate(state, target, req.Identity)
	if nav.State.View != state.View {
		s.save(ctx, req.SessionID, nav.State)
	}
	return nav
}

// CancelOps abandons a pending ops entry and returns the visitor home.
func (s *ShellService) CancelOps(ctx context.Context, req ShellRequest) domain.ViewState {
	s.clearOps(req.Flags)
	state := s.load(ctx, req.SessionID)
	state.View = domain.ViewHome
	state.OpsDetected = false
	s.save(ctx, req.SessionID, state)
	return state
}

// CompleteOpsLogin finishes an ops entry after an internal identity signed in.
func (s *ShellService) CompleteOpsLogin(ctx context.Context, req ShellRequest) domain.ViewState {
	state := s.load(ctx, req.SessionID)
	state.OpsDetected = true
	settled := s.router.Settle(state, domain.Session{Identity: req.Identity})
	if settled.ClearOps {
		s.clearOps(req.Flags)
	}
	s.save(ctx, req.SessionID, settled.State)
	return settled.State
}

func (s *ShellService) load(ctx context.Context, sessionID string) domain.ViewState {
	if sessionID == "" {
		return domain.InitialViewState()
	}
	state, err := s.states.Load(ctx, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("view state load failed, using initial state")
		return domain.InitialViewState()
	}
	return state
}

func (s *ShellService) save(ctx context.Context, sessionID string, state domain.ViewState) {
	if sessionID == "" {
		return
	}
	if err := s.states.Save(ctx, sessionID, state); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("view state save failed")
	}
}

func (s *ShellService) opsPending(flags ports.SessionFlags) bool {
	if flags == nil {
		return false
	}
	pending, err := flags.OpsPending()
	if err != nil {
		metrics.SessionFlagErrorsTotal.Inc()
		return false
	}
	return pending
}

func (s *ShellService) clearOps(flags ports.SessionFlags) {
	if flags == nil {
		return
	}
	if err := flags.ClearOpsPending(); err != nil {
		metrics.SessionFlagErrorsTotal.Inc()
		s.log.Debug().Err(err).Msg("session flag clear failed")
	}
}
