// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crop-engine/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KafkaUsername, "  crop-engine  \n")
				writeFile(t, dir, KafkaPassword, "pw_xyz789\n")
				return dir
			},
			want: Set{
				KafkaUsername: "crop-engine",
				KafkaPassword: "pw_xyz789",
			},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Set{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KafkaUsername, "svc")
				writeFile(t, dir, KafkaPassword, "   \n\t  ")
				return dir
			},
			want: Set{KafkaUsername: "svc"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, KafkaPassword, "pw")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Set{KafkaPassword: "pw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, KafkaUsername, "svc")

	badPath := filepath.Join(dir, KafkaPassword)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var warn bytes.Buffer
	got, err := Load(dir, &warn)
	require.NoError(t, err)
	assert.Equal(t, Set{KafkaUsername: "svc"}, got)
	assert.Contains(t, warn.String(), KafkaPassword)
}

func TestKeysAreSorted(t *testing.T) {
	s := Set{KafkaPassword: "b", KafkaUsername: "a"}
	assert.Equal(t, []string{KafkaPassword, KafkaUsername}, s.Keys())
}

func TestApplyKafka(t *testing.T) {
	s := Set{KafkaUsername: "svc", KafkaPassword: "pw"}

	var cfg types.KafkaConfig
	s.ApplyKafka(&cfg)
	assert.Equal(t, "svc", cfg.Username)
	assert.Equal(t, "pw", cfg.Password)

	explicit := types.KafkaConfig{Username: "override"}
	s.ApplyKafka(&explicit)
	assert.Equal(t, "override", explicit.Username, "explicit settings win")
	assert.Equal(t, "pw", explicit.Password)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
