package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	plog "paydash/internal/log"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{CredentialsJSON: "{}"}, plog.New(plog.DefaultConfig()))
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	dir := t.TempDir()
	file := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(file, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr string
	}{
		{"inline wins", Config{CredentialsJSON: `{"from":"inline"}`, CredentialsFile: file}, `{"from":"inline"}`, ""},
		{"file", Config{CredentialsFile: file}, `{"from":"file"}`, ""},
		{"missing file", Config{CredentialsFile: filepath.Join(dir, "nope.json")}, "", "read service account file"},
		{"nothing", Config{}, "", "missing service account credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := credentials(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCredentialsFallsBackToADCPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "adc.json")
	if err := os.WriteFile(file, []byte(`{"from":"adc"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", file)

	got, err := credentials(Config{})
	if err != nil || string(got) != `{"from":"adc"}` {
		t.Fatalf("got %s, %v", got, err)
	}
}

func TestReplaceTabWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "test", logger: plog.New(plog.DefaultConfig())}
	err := c.ReplaceTab(context.Background(), "Payments", nil)
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}
