package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const logoSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="20mm" height="10mm" viewBox="0 0 20 10">
<g id="logo"><rect width="10" height="10" fill="#000"/></g>
<rect id="frame" x="10" width="10" height="10" fill="#222"/>
</svg>`

func execute(ctx context.Context, stdin string, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(ctx, args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, stdout, stderr := execute(context.Background(), "", "--version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "svg-flatten version dev\n", stderr)
	assert.Empty(t, stdout)

	code, stdout, stderr = execute(context.Background(), "", "-v")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "dev")
	assert.Empty(t, stdout)
}

func TestHelp(t *testing.T) {
	code, stdout, stderr := execute(context.Background(), "", "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "--preserve-aspect-ratio")
	assert.Contains(t, stderr, "binary-contours")
	assert.Empty(t, stdout)
}

func TestConfigurationErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--format", "pdf", "in.svg"},
		{"--vectorizer", "potrace", "in.svg"},
		{"--vectorizer-map", "logo", "in.svg"},
		{"in.png"},
		{"a.svg", "b.gbr", "c"},
		{"--no-such-flag"},
		{"--log-level", "loud", "in.svg"},
	} {
		code, stdout, stderr := execute(context.Background(), "", args...)
		assert.Equal(t, exitFailure, code, args)
		assert.Empty(t, stdout, args)
		assert.Contains(t, stderr, "svg-flatten: invalid", args)
		assert.Contains(t, stderr, "Usage:", args)
	}
}

func TestConvertStreams(t *testing.T) {
	code, stdout, stderr := execute(context.Background(), logoSVG,
		"--force-svg", "--no-usvg", "--format", "svg", "-e", "frame")
	require.Equal(t, exitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, `<svg width="20mm" height="10mm"`), stdout)
	assert.Equal(t, 1, strings.Count(stdout, "<path"))
	assert.Empty(t, stderr)
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "logo.svg")
	output := filepath.Join(dir, "logo.kicad_mod")
	require.NoError(t, os.WriteFile(input, []byte(logoSVG), 0o644))
	config := filepath.Join(dir, "svg-flatten.yaml")
	require.NoError(t, os.WriteFile(config, []byte("no-usvg: true\nformat: gerber\nsexp-mod-name: logo\n"), 0o644))

	code, _, stderr := execute(context.Background(), "", "--config", config, "-o", "s-exp", input, output)
	require.Equal(t, exitOK, code, stderr)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `(module "logo"`), string(data))
	// the two rectangles touch: they are merged by the flattener
	assert.Equal(t, 1, strings.Count(string(data), "(fp_poly"))
}

func TestNormalizerFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "logo.svg")
	output := filepath.Join(dir, "logo.gbr")
	require.NoError(t, os.WriteFile(input, []byte(logoSVG), 0o644))

	code, _, stderr := execute(context.Background(), "",
		"--usvg-path", filepath.Join(dir, "missing-usvg"), input, output)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "normalizing: cannot start")
	assert.NotContains(t, stderr, "Usage:")
	assert.NoFileExists(t, output)
}

func TestInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, stdout, _ := execute(ctx, logoSVG, "--force-svg", "--no-usvg")
	assert.Equal(t, exitInterrupted, code)
	assert.Empty(t, stdout)
}
