package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setWarmerEnv(t *testing.T) {
	t.Helper()
	wl := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(wl, []byte("companies: [Apple]\n"), 0o600))

	t.Setenv("IDCHAT_API_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("LLM_PROVIDER", "idchat")
	t.Setenv("SUMMARY_SOURCE", "mock")
	t.Setenv("PORTFOLIO_SOURCE", "memory")
	t.Setenv("LOG_FILE", "")
	t.Setenv("WATCHLIST_PATH", wl)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown flag",
			args:    []string{"-bogus"},
			wantErr: "flag provided but not defined",
		},
		{
			name:    "unparsable config value",
			env:     map[string]string{"IDCHAT_MAX_ATTEMPTS": "three", "REDIS_HOST": "127.0.0.1"},
			wantErr: "failed to load config",
		},
		{
			name:    "redis not configured",
			env:     map[string]string{"REDIS_HOST": ""},
			wantErr: "REDIS_HOST is required",
		},
		{
			// 接続を拒否するポートに向けて、起動前に失敗することを確認する
			name:    "redis unreachable",
			env:     map[string]string{"REDIS_HOST": "127.0.0.1", "REDIS_PORT": "1"},
			args:    []string{"-once"},
			wantErr: "failed to connect to redis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setWarmerEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := run(tt.args)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
