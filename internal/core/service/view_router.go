package service

import (
	"github.com/gharunnepal/marketplace/internal/api/metrics"
	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// Settlement is the result of re-evaluating the derived view rules.
type Settlement struct {
	State domain.ViewState
	// ClearOps is set when the ops entry reached its destination and the
	// session flag must be dropped.
	ClearOps bool
}

// Navigation is the result of an explicit navigation request. When Modal or
// Notice is set the view is left unchanged.
type Navigation struct {
	State     domain.ViewState
	Modal     domain.Modal
	Notice    domain.Notice
	ScrollTop bool
}

// ViewRouter decides which screen the shell shows. It holds no state; every
// call takes the current ViewState and returns the next one.
type ViewRouter struct{}

func NewViewRouter() *ViewRouter {
	return &ViewRouter{}
}

// Settle applies the automatic routing rules for the given session.
func (r *ViewRouter) Settle(state domain.ViewState, sess domain.Session) Settlement {
	if sess.Loading || state.ShowSetup {
		return Settlement{State: state}
	}

	id := sess.Identity

	if state.OpsDetected {
		if id != nil && id.Role.IsInternal() {
			state.View = domain.ViewAdminDashboard
			state.OpsDetected = false
			state.Redirected = true
			metrics.AutoRedirectsTotal.WithLabelValues("ops_dashboard").Inc()
			return Settlement{State: state, ClearOps: true}
		}
		// Anonymous and wrong-role visitors land on the same screen.
		if state.View != domain.ViewAdminLogin {
			metrics.AutoRedirectsTotal.WithLabelValues("ops_login").Inc()
		}
		state.View = domain.ViewAdminLogin
		return Settlement{State: state}
	}

	switch {
	case id != nil && !state.Redirected:
		state.Redirected = true
		state.View = domain.DashboardFor(id.Role)
		metrics.AutoRedirectsTotal.WithLabelValues("post_login").Inc()
	case id == nil && state.Redirected:
		state.Redirected = false
		state.View = domain.ViewHome
		metrics.AutoRedirectsTotal.WithLabelValues("sign_out").Inc()
	}
	return Settlement{State: state}
}

// Navigate applies an explicit navigation request from the user.
func (r *ViewRouter) Navigate(state domain.ViewState, target string, id *domain.Identity) Navigation {
	switch {
	case domain.IsAdminTarget(target):
		// Denial looks exactly like a normal trip home.
		if id != nil && id.Role.IsInternal() {
			return r.apply(state, "admin", domain.ViewAdminDashboard)
		}
		return r.apply(state, "admin", domain.ViewHome)

	case target == domain.TargetDashboard:
		if id == nil {
			return r.modal(state, target, domain.ModalSignIn)
		}
		return r.apply(state, target, domain.DashboardFor(id.Role))

	case target == string(domain.ViewProviderPortal):
		switch {
		case id == nil:
			return r.modal(state, target, domain.ModalSignIn)
		case id.Role == domain.RoleProvider:
			return r.apply(state, target, domain.ViewProviderDashboard)
		case id.Role.IsInternal():
			return r.apply(state, target, domain.ViewAdminDashboard)
		default:
			metrics.NavigationTotal.WithLabelValues(target, "notice").Inc()
			return Navigation{State: state, Notice: domain.NoticeAccessDenied}
		}

	case target == domain.TargetSubmitRequest:
		switch {
		case id == nil:
			return r.modal(state, target, domain.ModalSignIn)
		case id.Role == domain.RoleClient:
			return r.apply(state, target, domain.ViewClientDashboard)
		default:
			return r.modal(state, target, domain.ModalRequestForm)
		}
	}

	return r.apply(state, "other", domain.ParseView(target))
}

func (r *ViewRouter) apply(state domain.ViewState, label string, v domain.View) Navigation {
	outcome := "view"
	if v == domain.ViewHome && label == "admin" {
		outcome = "redirect_home"
	}
	metrics.NavigationTotal.WithLabelValues(label, outcome).Inc()
	state.View = v
	return Navigation{State: state, ScrollTop: true}
}

func (r *ViewRouter) modal(state domain.ViewState, label string, m domain.Modal) Navigation {
	metrics.NavigationTotal.WithLabelValues(label, "modal").Inc()
	return Navigation{State: state, Modal: m}
}
