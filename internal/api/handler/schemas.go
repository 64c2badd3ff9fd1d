package handler

import (
	"time"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// --- shell ---

type navigateRequest struct {
	Target string `json:"target" validate:"required,max=64"`
}

type shellResponse struct {
	View          domain.View      `json:"view"`
	Redirected    bool             `json:"redirected"`
	OpsDetected   bool             `json:"ops_detected"`
	ShowSetup     bool             `json:"show_setup"`
	Modal         domain.Modal     `json:"modal,omitempty"`
	ModalMessage  string           `json:"modal_message,omitempty"`
	Notice        domain.Notice    `json:"notice,omitempty"`
	NoticeMessage string           `json:"notice_message,omitempty"`
	ScrollTop     bool             `json:"scroll_top,omitempty"`
	Identity      *domain.Identity `json:"identity,omitempty"`
}

// --- auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type bootstrapRequest struct {
	SetupKey string `json:"setup_key" validate:"required"`
	Name     string `json:"name"      validate:"required,max=120"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
}

type passwordStrengthRequest struct {
	Password string `json:"password"`
}

type passwordStrengthResponse struct {
	Score      int    `json:"score"`
	Label      string `json:"label"`
	Text       string `json:"text"`
	Acceptable bool   `json:"acceptable"`
}

type authResponse struct {
	Token string             `json:"token,omitempty"`
	User  *domain.User       `json:"user,omitempty"`
	Shell *domain.ViewState  `json:"shell,omitempty"`
	Gate  *domain.GateStatus `json:"gate,omitempty"`
}

// --- terms ---

type acceptTermsRequest struct {
	Consent bool `json:"consent"`
}

// --- requests ---

type locationRequest struct {
	District     string `json:"district"     validate:"required"`
	Municipality string `json:"municipality" validate:"required"`
	Ward         int    `json:"ward"         validate:"omitempty,min=1,max=35"`
	Landmark     string `json:"landmark"     validate:"omitempty,max=200"`
}

type contactRequest struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"required,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
}

type submitRequestRequest struct {
	Category      string          `json:"category"       validate:"required,max=64"`
	Description   string          `json:"description"    validate:"required,max=2000"`
	Location      locationRequest `json:"location"       validate:"required"`
	Contact       contactRequest  `json:"contact"        validate:"required"`
	PreferredDate time.Time       `json:"preferred_date"`
}

type submitRequestResponse struct {
	TrackingCode string    `json:"tracking_code"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type trackResponse struct {
	TrackingCode  string                      `json:"tracking_code"`
	Category      string                      `json:"category"`
	Status        string                      `json:"status"`
	District      string                      `json:"district"`
	CreatedAt     time.Time                   `json:"created_at"`
	StatusHistory []domain.StatusHistoryEntry `json:"status_history"`
}

type requestListResponse struct {
	Items []*domain.ServiceRequest `json:"items"`
	Count int                      `json:"count"`
}

type statusChangeRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in_progress completed cancelled"`
	Notes  string `json:"notes"  validate:"omitempty,max=500"`
}

type assignRequest struct {
	ProviderID string `json:"provider_id" validate:"required,hexadecimal,len=24"`
}

// --- admin ---

type dashboardResponse struct {
	Counts map[domain.RequestStatus]int64 `json:"counts"`
	Total  int64                          `json:"total"`
}

type manualNotificationRequest struct {
	To        string `json:"to"        validate:"required,email"`
	Name      string `json:"name"      validate:"omitempty,max=120"`
	Subject   string `json:"subject"   validate:"required,max=200"`
	Message   string `json:"message"   validate:"required,max=5000"`
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

type acceptedResponse struct {
	Status string `json:"status"`
}
