package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name      string
		hook      Hook
		wantErr   bool
		errSubstr string
	}{
		{
			name: "happy path - command succeeds",
			hook: Hook{Command: "true"},
		},
		{
			name:      "empty command with error_on_fail returns error",
			hook:      Hook{Command: "   ", ErrorOnFail: true},
			wantErr:   true,
			errSubstr: "empty command",
		},
		{
			name: "empty command without error_on_fail continues",
			hook: Hook{Command: ""},
		},
		{
			name:      "non-zero exit with error_on_fail true returns error",
			hook:      Hook{Command: "false", ErrorOnFail: true},
			wantErr:   true,
			errSubstr: "exited with code 1",
		},
		{
			name: "non-zero exit with error_on_fail false continues",
			hook: Hook{Command: "false"},
		},
		{
			name: "custom acceptable exit codes",
			hook: Hook{Command: "false", ExitCodes: []int{1}, ErrorOnFail: true},
		},
		{
			name:    "zero exit not in acceptable codes",
			hook:    Hook{Command: "true", ExitCodes: []int{2}, ErrorOnFail: true},
			wantErr: true,
		},
		{
			name:    "command not found",
			hook:    Hook{Command: "dircheck-no-such-command-xyz", ErrorOnFail: true},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Runner{Dir: t.TempDir()}
			err := r.Execute(context.Background(), "test", []Hook{tc.hook})

			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tc.errSubstr != "" {
				assert.Contains(t, err.Error(), tc.errSubstr)
			}
		})
	}
}

func TestExecute_StopsAtFirstFatalHook(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{Dir: dir}

	err := r.Execute(context.Background(), "before_run", []Hook{
		{Command: "false", ErrorOnFail: true},
		{Command: "touch marker"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before_run[0]")

	_, statErr := os.Stat(filepath.Join(dir, "marker"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_CapturesOutputAndWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "file.txt"), nil, 0o644))

	r := &Runner{Dir: dir}
	out, err := r.Run(context.Background(), Hook{Command: "ls", WorkingDirectory: "sub"})
	require.NoError(t, err)

	assert.True(t, out.Accepted)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, "file.txt", out.Output)
}

func TestExecute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{}
	err := r.Execute(ctx, "test", []Hook{{Command: "echo hello"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestExecute_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	r := &Runner{}
	err := r.Execute(ctx, "test", []Hook{{Command: "echo hello"}})
	require.Error(t, err)
}
