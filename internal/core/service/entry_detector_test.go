package service

import (
	"errors"
	"net/url"
	"testing"
)

type stubFlags struct {
	pending  bool
	readErr  error
	writeErr error
	sets     int
	clears   int
}

func (f *stubFlags) OpsPending() (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.pending, nil
}

func (f *stubFlags) SetOpsPending() error {
	f.sets++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.pending = true
	return nil
}

func (f *stubFlags) ClearOpsPending() error {
	f.clears++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.pending = false
	return nil
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func newDetector() *EntryDetector {
	return NewEntryDetector("setup-123", "ops-456", discardLogger)
}

func TestEntryDetector_Setup(t *testing.T) {
	flags := &stubFlags{}

	got := newDetector().Detect(mustURL(t, "/?setup=setup-123&ops=ops-456"), flags)
	if !got.ShowSetup || got.OpsDetected || got.CleanURL != "" {
		t.Errorf("expected setup only, got %+v", got)
	}
	if flags.sets != 0 {
		t.Error("setup must not touch session storage")
	}
}

func TestEntryDetector_Ops(t *testing.T) {
	flags := &stubFlags{}

	got := newDetector().Detect(mustURL(t, "/?ops=ops-456&lang=ne"), flags)
	if !got.OpsDetected {
		t.Fatal("expected ops detected")
	}
	if !flags.pending {
		t.Error("expected session flag set")
	}
	if got.CleanURL != "/?lang=ne" {
		t.Errorf("expected secret stripped, got %q", got.CleanURL)
	}
}

func TestEntryDetector_OpsOnlyParam(t *testing.T) {
	got := newDetector().Detect(mustURL(t, "https://gharun.example/app?ops=ops-456"), &stubFlags{})
	if got.CleanURL != "/app" {
		t.Errorf("expected bare path, got %q", got.CleanURL)
	}
}

func TestEntryDetector_OpsKeepsOtherParamsVerbatim(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "/?z=1&ops=ops-456&a=x%2Fy", want: "/?z=1&a=x%2Fy"},
		{raw: "/?ref=a+b&ops=ops-456&ops=ops-456", want: "/?ref=a+b"},
		{raw: "/app?%6Fps=ops-456&lang=ne", want: "/app?lang=ne"},
		{raw: "/?flag&ops=ops-456", want: "/?flag"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got := newDetector().Detect(mustURL(t, tc.raw), &stubFlags{})
			if got.CleanURL != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got.CleanURL)
			}
		})
	}
}

func TestEntryDetector_OpsStorageUnavailable(t *testing.T) {
	flags := &stubFlags{writeErr: errors.New("cookies disabled")}

	got := newDetector().Detect(mustURL(t, "/?ops=ops-456"), flags)
	if !got.OpsDetected || got.CleanURL != "/" {
		t.Errorf("write failure must not affect this load, got %+v", got)
	}
}

func TestEntryDetector_WrongSecrets(t *testing.T) {
	flags := &stubFlags{}

	got := newDetector().Detect(mustURL(t, "/?setup=guess&ops=guess"), flags)
	if got.ShowSetup || got.OpsDetected || got.CleanURL != "" {
		t.Errorf("expected nothing detected, got %+v", got)
	}
	if flags.sets != 0 {
		t.Error("wrong secret must not set the flag")
	}
}

func TestEntryDetector_EmptyKeysNeverMatch(t *testing.T) {
	d := NewEntryDetector("", "", discardLogger)

	got := d.Detect(mustURL(t, "/?setup=&ops="), &stubFlags{})
	if got.ShowSetup || got.OpsDetected {
		t.Errorf("unset keys must disable detection, got %+v", got)
	}
}

func TestEntryDetector_RestoresFlagOnReload(t *testing.T) {
	got := newDetector().Detect(mustURL(t, "/"), &stubFlags{pending: true})
	if !got.OpsDetected || got.CleanURL != "" {
		t.Errorf("expected restored ops flag without redirect, got %+v", got)
	}
}

func TestEntryDetector_ReadFailureDegrades(t *testing.T) {
	got := newDetector().Detect(mustURL(t, "/"), &stubFlags{pending: true, readErr: errors.New("corrupt cookie")})
	if got.OpsDetected {
		t.Error("read failure must degrade to not detected")
	}
}

func TestEntryDetector_NilInputs(t *testing.T) {
	got := newDetector().Detect(nil, nil)
	if got != (EntryDetection{}) {
		t.Errorf("expected zero detection, got %+v", got)
	}
}
