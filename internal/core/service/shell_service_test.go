package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

type stubViewStates struct {
	states  map[string]domain.ViewState
	loadErr error
	saveErr error
	saves   int
}

func newStubViewStates() *stubViewStates {
	return &stubViewStates{states: make(map[string]domain.ViewState)}
}

func (s *stubViewStates) Load(_ context.Context, sid string) (domain.ViewState, error) {
	if s.loadErr != nil {
		return domain.InitialViewState(), s.loadErr
	}
	st, ok := s.states[sid]
	if !ok {
		return domain.InitialViewState(), nil
	}
	return st, nil
}

func (s *stubViewStates) Save(_ context.Context, sid string, st domain.ViewState) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	// Only the persisted fields survive, as with the real store.
	s.states[sid] = domain.ViewState{View: st.View, Redirected: st.Redirected}
	return nil
}

func newShellSvc(states *stubViewStates) *ShellService {
	return NewShellService(newDetector(), NewViewRouter(), states, discardLogger)
}

func TestShellService_OpsEntryScenario(t *testing.T) {
	states := newStubViewStates()
	svc := newShellSvc(states)
	flags := &stubFlags{}
	ctx := context.Background()

	first := svc.Load(ctx, ShellRequest{SessionID: "sid", URL: mustURL(t, "/?ops=ops-456"), Flags: flags})
	if first.CleanURL != "/" {
		t.Fatalf("expected redirect to clean URL, got %q", first.CleanURL)
	}
	if !flags.pending {
		t.Fatal("expected session flag set")
	}

	// The client follows the redirect.
	second := svc.Load(ctx, ShellRequest{SessionID: "sid", URL: mustURL(t, first.CleanURL), Flags: flags})
	if second.CleanURL != "" {
		t.Errorf("clean URL must not redirect again, got %q", second.CleanURL)
	}
	if second.State.View != domain.ViewAdminLogin || !second.State.OpsDetected {
		t.Errorf("expected admin login, got %+v", second.State)
	}

	// A staff member signs in.
	view := svc.CompleteOpsLogin(ctx, ShellRequest{SessionID: "sid", Identity: identity(domain.RoleOperations), Flags: flags})
	if view.View != domain.ViewAdminDashboard {
		t.Errorf("expected admin dashboard, got %s", view.View)
	}
	if flags.pending || flags.clears != 1 {
		t.Errorf("expected flag cleared once, pending=%v clears=%d", flags.pending, flags.clears)
	}
	if states.states["sid"].View != domain.ViewAdminDashboard {
		t.Errorf("expected dashboard persisted, got %+v", states.states["sid"])
	}
}

func TestShellService_OpsWithClientIdentityStaysOnLogin(t *testing.T) {
	svc := newShellSvc(newStubViewStates())
	flags := &stubFlags{pending: true}

	res := svc.Load(context.Background(), ShellRequest{SessionID: "sid", URL: mustURL(t, "/"), Identity: identity(domain.RoleClient), Flags: flags})
	if res.State.View != domain.ViewAdminLogin {
		t.Errorf("expected admin login, got %s", res.State.View)
	}
	if !flags.pending {
		t.Error("flag must survive a wrong-role identity")
	}
}

func TestShellService_LoadSkipsWhileAuthLoading(t *testing.T) {
	svc := newShellSvc(newStubViewStates())

	res := svc.Load(context.Background(), ShellRequest{SessionID: "sid", URL: mustURL(t, "/"), Identity: identity(domain.RoleClient), AuthLoading: true})
	if res.State.View != domain.ViewHome || res.State.Redirected {
		t.Errorf("expected untouched initial state, got %+v", res.State)
	}
}

func TestShellService_ClientRedirectedOnce(t *testing.T) {
	states := newStubViewStates()
	svc := newShellSvc(states)
	ctx := context.Background()
	req := ShellRequest{SessionID: "sid", URL: mustURL(t, "/"), Identity: identity(domain.RoleClient), Flags: &stubFlags{}}

	if res := svc.Load(ctx, req); res.State.View != domain.ViewClientDashboard {
		t.Fatalf("expected client dashboard, got %s", res.State.View)
	}

	nav := svc.Navigate(ctx, req, "rides")
	if nav.State.View != domain.ViewRides {
		t.Fatalf("expected rides, got %s", nav.State.View)
	}

	if res := svc.Load(ctx, req); res.State.View != domain.ViewRides {
		t.Errorf("reload must keep the manually chosen view, got %s", res.State.View)
	}
}

func TestShellService_NavigateModalDoesNotSave(t *testing.T) {
	states := newStubViewStates()
	svc := newShellSvc(states)

	nav := svc.Navigate(context.Background(), ShellRequest{SessionID: "sid"}, domain.TargetDashboard)
	if nav.Modal != domain.ModalSignIn {
		t.Fatalf("expected sign-in modal, got %+v", nav)
	}
	if states.saves != 0 {
		t.Errorf("expected no save, got %d", states.saves)
	}
}

func TestShellService_StoreFailuresDegrade(t *testing.T) {
	states := newStubViewStates()
	states.loadErr = errors.New("redis down")
	states.saveErr = errors.New("redis down")
	svc := newShellSvc(states)

	res := svc.Load(context.Background(), ShellRequest{SessionID: "sid", URL: mustURL(t, "/"), Identity: identity(domain.RoleProvider)})
	if res.State.View != domain.ViewProviderDashboard {
		t.Errorf("expected routing to work without storage, got %s", res.State.View)
	}
}

func TestShellService_NoSessionIDIsStateless(t *testing.T) {
	states := newStubViewStates()
	svc := newShellSvc(states)

	svc.Load(context.Background(), ShellRequest{URL: mustURL(t, "/"), Identity: identity(domain.RoleClient)})
	if states.saves != 0 {
		t.Errorf("expected no save without a session id, got %d", states.saves)
	}
}

func TestShellService_CancelOps(t *testing.T) {
	states := newStubViewStates()
	states.states["sid"] = domain.ViewState{View: domain.ViewAdminLogin}
	svc := newShellSvc(states)
	flags := &stubFlags{pending: true}

	st := svc.CancelOps(context.Background(), ShellRequest{SessionID: "sid", Flags: flags})
	if st.View != domain.ViewHome || st.OpsDetected {
		t.Errorf("expected home without ops, got %+v", st)
	}
	if flags.pending {
		t.Error("expected flag cleared")
	}
}
