package domain

// View is one of the mutually exclusive screens of the application shell.
type View string

const (
	ViewHome              View = "home"
	ViewProviders         View = "providers"
	ViewHowItWorks        View = "how-it-works"
	ViewTrackRequest      View = "track-request"
	ViewAdminDashboard    View = "admin-dashboard"
	ViewAdminLogin        View = "admin-login"
	ViewProviderPortal    View = "provider-portal"
	ViewRequest           View = "request"
	ViewRegister          View = "register"
	ViewTerms             View = "terms"
	ViewPrivacy           View = "privacy"
	ViewRefundPolicy      View = "refund-policy"
	ViewRides             View = "rides"
	ViewClientDashboard   View = "client-dashboard"
	ViewProviderDashboard View = "provider-dashboard"
	ViewRoleSelection     View = "role-selection"
)

var knownViews = map[View]struct{}{
	ViewHome: {}, ViewProviders: {}, ViewHowItWorks: {}, ViewTrackRequest: {},
	ViewAdminDashboard: {}, ViewAdminLogin: {}, ViewProviderPortal: {}, ViewRequest: {},
	ViewRegister: {}, ViewTerms: {}, ViewPrivacy: {}, ViewRefundPolicy: {},
	ViewRides: {}, ViewClientDashboard: {}, ViewProviderDashboard: {}, ViewRoleSelection: {},
}

// ParseView returns the view named by s, or ViewHome when s names nothing.
func ParseView(s string) View {
	v := View(s)
	if _, ok := knownViews[v]; ok {
		return v
	}
	return ViewHome
}

// Navigation targets that are not plain view names.
const (
	TargetAdmin         = "admin"
	TargetDashboard     = "dashboard"
	TargetSubmitRequest = "submit-request"
)

// IsAdminTarget reports whether a navigation target names an internal screen.
func IsAdminTarget(target string) bool {
	switch target {
	case TargetAdmin, string(ViewAdminDashboard), string(ViewAdminLogin):
		return true
	}
	return false
}

// Modal is an overlay the client opens instead of changing views.
type Modal string

const (
	ModalNone        Modal = ""
	ModalSignIn      Modal = "sign-in"
	ModalRequestForm Modal = "request-form"
)

// Notice is a visible, non-blocking message shown by the client.
type Notice string

const (
	NoticeNone         Notice = ""
	NoticeAccessDenied Notice = "access-denied"
)

// ViewState is the shell state for one browser session. Only View and
// Redirected are persisted; the flags are recomputed on every load.
type ViewState struct {
	View        View `json:"view"`
	Redirected  bool `json:"redirected"`
	OpsDetected bool `json:"-"`
	ShowSetup   bool `json:"-"`
}

// InitialViewState is the state of a fresh browser session.
func InitialViewState() ViewState {
	return ViewState{View: ViewHome}
}

// Session is the authentication state as seen by the router.
type Session struct {
	Identity *Identity
	Loading  bool
}

// DashboardFor returns the landing view for an identity's role.
func DashboardFor(r Role) View {
	switch {
	case r.IsInternal():
		return ViewAdminDashboard
	case r == RoleClient:
		return ViewClientDashboard
	case r == RoleProvider:
		return ViewProviderDashboard
	default:
		return ViewHome
	}
}
