package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/reserved/cli"
	"github.com/yourusername/reserved/logging"
	"github.com/yourusername/reserved/models"
	"github.com/yourusername/reserved/services"
	"go.uber.org/zap"
)

type fixture struct {
	dir        string
	configPath string
	cacheFile  string
}

// newFixture writes a config whose cache holds a fresh record and whose only
// mirror is a local test server.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("RESERVED_CACHE_FILE", "")
	t.Setenv("RESERVED_CACHE_BACKEND", "")
	t.Setenv("RESERVED_CUSTOM", "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "one\ntwo\n")
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	f := &fixture{dir: dir, configPath: filepath.Join(dir, "config.yaml"), cacheFile: filepath.Join(dir, "cache.json")}
	rec := models.NewCacheRecord([]string{"admin", "alpha", "root"}, time.Now())
	require.NoError(t, services.NewFileCacheStore(f.cacheFile).Save(context.Background(), rec))

	yml := fmt.Sprintf(`custom_reserved: [mycompany]
cache_file: %s
sources:
  - url: %s/list.txt
    format: txt
`, f.cacheFile, srv.URL)
	require.NoError(t, os.WriteFile(f.configPath, []byte(yml), 0o644))
	return f
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := cli.NewRootCommand(cli.Config{
		ConfigPath:   f.configPath,
		OutputWriter: &out,
		NewRegistry:  services.NewFromConfig,
		Logger:       logging.Nop(),
	})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "check", "admin", "alice", "MyCompany")
	require.NoError(t, err)
	assert.Equal(t, "admin\treserved\nalice\tavailable\nMyCompany\treserved\n", out)
}

func TestSuggestCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "suggest", "admin", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "admin1\nadmin2\n", out)
}

func TestValidateCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "validate", "good_name")
	require.NoError(t, err)
	assert.Equal(t, "good_name: valid\n", out)

	out, err = f.run(t, "validate", "ab", "--min", "3")
	require.Error(t, err)
	assert.Contains(t, out, "at least 3")

	out, err = f.run(t, "validate", "root")
	require.Error(t, err)
	assert.Contains(t, out, "Username is reserved")

	_, err = f.run(t, "validate", "xyz", "--min", "5", "--max", "2")
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}

func TestListAndStatsCommands(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "list", "--prefix", "A")
	require.NoError(t, err)
	assert.Equal(t, "admin\nalpha\n", out)

	_, err = f.run(t, "list", "--prefix", "a", "--suffix", "t")
	assert.Error(t, err)

	out, err = f.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 4`)
}

func TestExportCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "export", "-f", "csv")
	require.NoError(t, err)
	assert.Equal(t, "name\nadmin\nalpha\nmycompany\nroot\n", out)

	target := filepath.Join(f.dir, "out.txt")
	_, err = f.run(t, "export", "-f", "txt", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "admin\nalpha\nmycompany\nroot\n", string(data))

	_, err = f.run(t, "export", "-f", "xml")
	assert.ErrorIs(t, err, services.ErrUnsupportedFormat)
}

func TestImportCommand(t *testing.T) {
	f := newFixture(t)
	src := filepath.Join(f.dir, "extra.txt")
	require.NoError(t, os.WriteFile(src, []byte("foo\n\nBar\n"), 0o644))

	out, err := f.run(t, "import", src)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 names, 6 reserved in total\n", out)

	merged := filepath.Join(f.dir, "merged.txt")
	_, err = f.run(t, "import", src, "-o", merged)
	require.NoError(t, err)
	data, err := os.ReadFile(merged)
	require.NoError(t, err)
	assert.Equal(t, "admin\nalpha\nbar\nfoo\nmycompany\nroot\n", string(data))

	// The merged file outlives the run that produced it.
	out, err = f.run(t, "import", merged)
	require.NoError(t, err)
	assert.Equal(t, "imported 6 names, 6 reserved in total\n", out)

	_, err = f.run(t, "import", filepath.Join(f.dir, "missing.txt"))
	assert.Error(t, err)
}

func TestRefreshAndClearCacheCommands(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "refreshed: 3 reserved names\n", out)

	// The rewritten cache seeds the next run.
	out, err = f.run(t, "check", "two", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "two\treserved\nalpha\tavailable\n", out)

	out, err = f.run(t, "clear-cache")
	require.NoError(t, err)
	assert.Equal(t, "cache cleared\n", out)

	out, err = f.run(t, "clear-cache")
	require.NoError(t, err)
	assert.Equal(t, "no cache to clear\n", out)
}

func TestTokenCommand(t *testing.T) {
	f := &fixture{configPath: filepath.Join(t.TempDir(), "absent.yaml")}
	out, err := f.run(t, "token", "--name", "ops", "--ttl", "1h")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	f := &fixture{configPath: path}
	_, err := f.run(t, "check", "admin")
	assert.Error(t, err)
}

func TestRegistryFactoryError(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	root := cli.NewRootCommand(cli.Config{
		ConfigPath:   filepath.Join(t.TempDir(), "absent.yaml"),
		OutputWriter: &out,
		Logger:       logging.Nop(),
		NewRegistry: func(context.Context, *services.Config, *zap.SugaredLogger, services.Hooks) (*services.Registry, error) {
			return nil, boom
		},
	})
	root.SetArgs([]string{"stats"})
	assert.ErrorIs(t, root.Execute(), boom)
	assert.Empty(t, out.String())
}
