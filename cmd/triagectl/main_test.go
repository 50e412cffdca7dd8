package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-assistant/pkg/auth"
)

func init() {
	color.NoColor = true
}

const response = `## Thinking
Chest pain for two hours.

## Final Answer
### Reasoning Process
Pain radiates to the left arm.

### Conclusion
Likely acute coronary syndrome.

## Triage Summary
{"patient_name": "Jane Doe", "date_of_birth": "1978-01-10", "visit_time": "2025-04-23T14:30", "severity": "Severe"}`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse(t *testing.T) {
	out, _, err := run(t, "", "parse", writeFile(t, "response.md", response))
	require.NoError(t, err)

	assert.Contains(t, out, "== Thinking ==")
	assert.Contains(t, out, "Chest pain for two hours.")
	assert.Contains(t, out, "Likely acute coronary syndrome.")
	assert.Contains(t, out, `"patient_name": "Jane Doe"`)
	assert.Contains(t, out, "== Record ==")
	assert.Contains(t, out, `"severity": "Severe"`)
}

func TestParse_Stdin(t *testing.T) {
	out, _, err := run(t, response, "parse", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"patient_name": "Jane Doe"`)
}

func TestParse_NoSummary(t *testing.T) {
	out, errOut, err := run(t, "## Thinking\nnothing structured", "parse", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing structured")
	assert.Contains(t, errOut, "No JSON found in response")
	assert.NotContains(t, out, "== Record ==")
}

func TestParse_MissingFile(t *testing.T) {
	_, _, err := run(t, "", "parse", filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	dir := t.TempDir()
	cfg := writeFile(t, "config.yaml", "jwt:\n  secret: s3cret\nbackends_file: "+filepath.Join(dir, "backends.yaml")+"\n")

	out, _, err := run(t, "", "token", "nurse-7", "--name", "Ana", "--config", cfg)
	require.NoError(t, err)

	claims, err := auth.NewHMACService("s3cret").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "nurse-7", claims.Subject)
	assert.Equal(t, "Ana", claims.Name)
}

func TestToken_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	dir := t.TempDir()
	cfg := writeFile(t, "config.yaml", "backends_file: "+filepath.Join(dir, "backends.yaml")+"\n")

	_, _, err := run(t, "", "token", "nurse-7", "--config", cfg)
	assert.EqualError(t, err, "jwt.secret is not configured")
}
