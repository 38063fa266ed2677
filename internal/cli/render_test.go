package cli

import (
	"fmt"
	"testing"

	"github.com/ksyq12/wpvhost/internal/errors"
)

func TestRunRender(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		json    bool
		wantErr error
	}{
		{name: "versioned socket", args: []string{"example.com", "8.3"}},
		{name: "default socket", args: []string{"my-site.local", "php"}},
		{name: "json output", args: []string{"sub.domain.co", "7.4"}, json: true},
		{name: "uppercase domain", args: []string{"UPPER.com", "8.3"}, wantErr: errors.ErrInvalidDomain},
		{name: "unsupported version", args: []string{"example.com", "8.5"}, wantErr: errors.ErrInvalidPHPVersion},
		{name: "prefixed version", args: []string{"example.com", "php8.3"}, wantErr: errors.ErrInvalidPHPVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHelper(t, t.TempDir())
			jsonOutput = tt.json

			err := runRender(nil, tt.args)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			drv := h.Services.Driver
			if len(drv.WriteCalls) != 0 || len(drv.EnableCalls) != 0 || drv.ReloadCalls != 0 {
				t.Error("render should not touch the web server")
			}
		})
	}
}

func TestRunRenderServiceError(t *testing.T) {
	h := NewTestHelper(t, t.TempDir())
	h.Services.Err = fmt.Errorf("factory failed")

	if err := runRender(nil, []string{"example.com", "8.3"}); err == nil {
		t.Error("expected error")
	}
}
