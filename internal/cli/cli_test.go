package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/memberdesk/pkg/client"
	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
)

func TestCommandContext_ValidateProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "desk")
	ctx := NewCommandContext(dir)

	err := ctx.ValidateProject()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memberdesk init --config-dir")

	written, err := ctx.InitProject()
	require.NoError(t, err)
	assert.True(t, written)
	assert.NoError(t, ctx.ValidateProject())

	written, err = ctx.InitProject()
	require.NoError(t, err)
	assert.False(t, written, "existing config is kept")
}

func TestCommandContext_LoadSettingsDefaults(t *testing.T) {
	dir := t.TempDir()
	ctx := NewCommandContext(dir)

	settings, err := ctx.LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, models.BackendYAML, settings.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "data"), settings.Storage.DataDir)
	assert.Equal(t, 20, settings.UI.PageSize)
	assert.Equal(t, "dark", settings.UI.Theme)
	assert.Equal(t, "127.0.0.1:8787", settings.Server.Addr)
}

func TestCommandContext_LoadSettingsFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	config := "storage:\n  backend: sqlite\nui:\n  page_size: 5\n  theme: light\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0644))
	t.Setenv("MEMBERDESK_SERVER_ADDR", "0.0.0.0:9000")

	settings, err := NewCommandContext(dir).LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, models.BackendSQLite, settings.Storage.Backend)
	assert.Equal(t, 5, settings.UI.PageSize)
	assert.Equal(t, "light", settings.UI.Theme)
	assert.Equal(t, "0.0.0.0:9000", settings.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "data"), settings.Storage.DataDir)
}

func TestCommandContext_LoadSettingsRejectsBadTheme(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ui:\n  theme: neon\n"), 0644))

	ctx := NewCommandContext(dir)
	_, err := ctx.LoadSettings()
	assert.Error(t, err)

	assert.Equal(t, "dark", ctx.LoadSettingsWithDefault().UI.Theme)
}

func TestCommandContext_Store(t *testing.T) {
	t.Run("local backend", func(t *testing.T) {
		ctx := NewCommandContext(t.TempDir())
		s, err := ctx.Store()
		require.NoError(t, err)
		assert.IsType(t, &store.FileStore{}, s)

		again, err := ctx.Store()
		require.NoError(t, err)
		assert.Same(t, s, again)
		assert.NoError(t, ctx.Close())
	})

	t.Run("remote server", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
			[]byte("server:\n  remote_url: http://127.0.0.1:8787\n"), 0644))

		ctx := NewCommandContext(dir)
		s, err := ctx.Store()
		require.NoError(t, err)
		assert.IsType(t, &client.Client{}, s)
	})
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    editing.Values
		wantErr string
	}{
		{
			name: "single",
			args: []string{"first_name=Ann"},
			want: editing.Values{"first_name": "Ann"},
		},
		{
			name: "value with equals and empty value",
			args: []string{"bio=a=b", "phone="},
			want: editing.Values{"bio": "a=b", "phone": ""},
		},
		{name: "no args", args: nil, wantErr: "at least one"},
		{name: "missing equals", args: []string{"bio"}, wantErr: "expected field=value"},
		{name: "unknown field", args: []string{"role=admin"}, wantErr: "unknown field: role"},
		{name: "duplicate", args: []string{"bio=a", "bio=b"}, wantErr: "more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssignments(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		assert.NoError(t, ValidateOutputFormat(f))
	}
	assert.Error(t, ValidateOutputFormat("xml"))
}

func TestOutputResults(t *testing.T) {
	data := map[string]int{"total": 3}

	var buf bytes.Buffer
	require.NoError(t, OutputResults(&buf, "json", data))
	assert.JSONEq(t, `{"total": 3}`, buf.String())

	buf.Reset()
	require.NoError(t, OutputResults(&buf, "yaml", data))
	assert.Equal(t, "total: 3\n", buf.String())

	assert.Error(t, OutputResults(&buf, "xml", data))
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableFormatter(&buf)
	table.Header("ID", "NAME")
	table.Row("1", "Ann")
	table.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  NAME", lines[0])
	assert.Equal(t, "--  ----", lines[1])
	assert.Equal(t, "1   Ann", lines[2])
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hello w...", TruncateString("hello world!", 10))
	assert.Equal(t, "he", TruncateString("hello", 2))
}

func TestPrintHelpers(t *testing.T) {
	var out, errOut bytes.Buffer
	SetIO(nil, &out, &errOut)
	t.Cleanup(func() {
		SetIO(os.Stdin, os.Stdout, os.Stderr)
		SetGlobalFlags(false, false, false)
	})

	SetGlobalFlags(false, true, false)
	PrintSuccess("saved %s", "ann")
	PrintInfo("hello")
	PrintWarning("careful")
	PrintError("boom")
	assert.Equal(t, "OK: saved ann\nINFO: hello\n", out.String())
	assert.Equal(t, "WARNING: careful\nERROR: boom\n", errOut.String())

	out.Reset()
	SetGlobalFlags(true, true, false)
	PrintSuccess("hidden")
	assert.Empty(t, out.String())
	assert.True(t, Quiet())
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	t.Cleanup(func() {
		SetIO(os.Stdin, os.Stdout, os.Stderr)
		SetGlobalFlags(false, false, false)
	})

	tests := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"yes\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"Y", false, true},
	}

	for _, tt := range tests {
		SetIO(strings.NewReader(tt.input), &out, nil)
		got, err := Confirm("Delete?", tt.defaultYes)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}

	SetGlobalFlags(false, false, true)
	SetIO(strings.NewReader(""), &out, nil)
	got, err := Confirm("Delete?", false)
	require.NoError(t, err)
	assert.True(t, got)
}
