package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	p := &Profile{}
	p.FromEnv()

	if p.BotToken != "" {
		t.Errorf("BotToken = %q, want empty", p.BotToken)
	}
	if p.WebAppURL != "" {
		t.Errorf("WebAppURL = %q, want empty", p.WebAppURL)
	}
	if p.UpdateTimeout != 60 {
		t.Errorf("UpdateTimeout = %d, want 60", p.UpdateTimeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PALATE_BOT_TOKEN", "123:abc")
	t.Setenv("PALATE_WEBAPP_URL", "https://palate.example.com/")

	p := &Profile{UpdateTimeout: 30}
	p.FromEnv()

	if p.BotToken != "123:abc" {
		t.Errorf("BotToken = %q, want %q", p.BotToken, "123:abc")
	}
	if p.WebAppURL != "https://palate.example.com/" {
		t.Errorf("WebAppURL = %q, want %q", p.WebAppURL, "https://palate.example.com/")
	}
	if p.UpdateTimeout != 30 {
		t.Errorf("UpdateTimeout = %d, want 30", p.UpdateTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
		check   func(t *testing.T, p *Profile)
	}{
		{
			name:    "unknown mode falls back to demo",
			profile: Profile{Mode: "staging", Driver: "sqlite", BotToken: "123:abc"},
			check: func(t *testing.T, p *Profile) {
				if p.Mode != "demo" {
					t.Errorf("Mode = %q, want demo", p.Mode)
				}
			},
		},
		{
			name:    "sqlite dsn defaults into data dir",
			profile: Profile{Mode: "dev", Driver: "sqlite", BotToken: "123:abc"},
			check: func(t *testing.T, p *Profile) {
				if filepath.Base(p.DSN) != "palate_dev.db" {
					t.Errorf("DSN = %q, want basename palate_dev.db", p.DSN)
				}
			},
		},
		{
			name:    "missing bot token rejected",
			profile: Profile{Mode: "dev", Driver: "sqlite"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.profile.Data = t.TempDir()
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && err == nil {
				tt.check(t, &tt.profile)
			}
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PALATE_BOT_TOKEN", "PALATE_WEBAPP_URL"} {
		if _, ok := os.LookupEnv(key); ok {
			t.Setenv(key, "")
		}
	}
}
