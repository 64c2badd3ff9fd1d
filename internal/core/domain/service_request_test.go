package domain

import "testing"

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		want     bool
	}{
		{StatusSubmitted, StatusConfirmed, true},
		{StatusSubmitted, StatusCancelled, true},
		{StatusSubmitted, StatusAssigned, false},
		{StatusConfirmed, StatusAssigned, true},
		{StatusAssigned, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusSubmitted, false},
		{StatusCancelled, StatusConfirmed, false},
		{RequestStatus("bogus"), StatusConfirmed, false},
	}

	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestEventForStatus(t *testing.T) {
	if ev, ok := EventForStatus(StatusInProgress); !ok || ev != EventRequestInProgress {
		t.Errorf("unexpected event %q %v", ev, ok)
	}
	if _, ok := EventForStatus(StatusCancelled); ok {
		t.Error("cancelled requests send no notification")
	}
}
