package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/aditamento-extractor/internal/app"
	"github.com/a3tai/aditamento-extractor/internal/config"
	"github.com/a3tai/aditamento-extractor/internal/pdf/pdftest"
	"github.com/a3tai/aditamento-extractor/internal/terms"
)

const testVersion = "1.2.3"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
		w.Close()
	}()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	<-done
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	version, buildTime, gitCommit = testVersion, "2023-12-01_10:30:00", "abc123"
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	output := captureStdout(t, printVersion)

	for _, expected := range []string{
		"Aditamento Extractor",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		assert.Contains(t, output, expected)
	}
}

func newBatchConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeBatch
	cfg.PDFDirectory = t.TempDir()
	cfg.MaxFileSize = 1024 * 1024
	return cfg
}

func TestRunBatch_LocalFiles(t *testing.T) {
	cfg := newBatchConfig(t)
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Files = []string{"termo.pdf", "missing.pdf"}

	require.NoError(t, os.WriteFile(filepath.Join(cfg.PDFDirectory, "termo.pdf"),
		pdftest.Build("Atualizacao pelo IPCA com seguro prestamista."), 0o600))

	svc, err := app.NewService(cfg, discardLogger())
	require.NoError(t, err)

	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	require.NoError(t, runBatch(context.Background(), cfg, svc, &out, logger))

	assert.Contains(t, logs.String(), "missing.pdf")
	assert.Contains(t, logs.String(), "Found 1 error(s) (0 fetch, 0 extraction)")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for i := range lines {
		lines[i] = strings.TrimLeft(lines[i], " ")
	}
	assert.True(t, strings.HasPrefix(lines[0], terms.FieldAtualizacaoCredito))
	assert.True(t, strings.HasPrefix(lines[1], "IPCA"))
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[1], " "), "termo.pdf"))
	assert.Contains(t, lines[1], "seguro prestamista")

	for _, name := range []string{
		"resumo_termos_aditamento.csv",
		"resumo_termos_aditamento.txt",
		"resumo_termos_aditamento.xlsx",
	} {
		info, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size(), name)
	}

	txt, err := os.ReadFile(filepath.Join(cfg.OutputDir, "resumo_termos_aditamento.txt"))
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(txt))
}

func TestRunBatch_Remote(t *testing.T) {
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path.Base(r.URL.Path) != "termo3.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(pdftest.Build("Contemplacao por lance fixo."))
	}))
	defer host.Close()

	cfg := newBatchConfig(t)
	cfg.BaseURL = host.URL
	cfg.RemoteNames = []string{"termo1.pdf", "termo3.pdf"}

	svc, err := app.NewService(cfg, discardLogger())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runBatch(context.Background(), cfg, svc, &out, discardLogger()))

	assert.Contains(t, out.String(), "lance fixo")
	assert.Contains(t, out.String(), "termo3.pdf")
	assert.NotContains(t, out.String(), "termo1.pdf")
}

type fakeRunner struct {
	err error
}

func (f fakeRunner) Run(ctx context.Context) error {
	return f.err
}

func TestRunServerMode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, runServerMode(ctx, cancel, fakeRunner{}, discardLogger()))

	errBoom := errors.New("boom")
	assert.ErrorIs(t, runServerMode(ctx, cancel, fakeRunner{err: errBoom}, discardLogger()), errBoom)
}

func TestRun_UnsupportedMode(t *testing.T) {
	cfg := newBatchConfig(t)
	cfg.Mode = "other"

	err := run(cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mode")
}
