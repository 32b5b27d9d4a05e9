package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flagkeeper/test/integration/harness"
)

const legacySnapshot = `[{
  "id": "5f1c",
  "title": "学习Python编程",
  "description": "每天学习1小时",
  "category": "学习成长",
  "target_date": "2024-12-31",
  "created_date": "2024-01-01",
  "progress": 75,
  "status": "进行中",
  "check_history": [{"date": "2024-03-15 16:45:00", "progress": 75, "notes": "完成Web开发项目"}],
  "feasibility_score": 85,
  "feasibility_reason": "目标设定合理"
}]`

func TestImportLegacySnapshotFromStdin(t *testing.T) {
	env := harness.NewTestEnvironment(t, "file")

	result := harness.RunCommandWithInput(t, env, legacySnapshot, "import", "-")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Imported 1 flags")

	result = harness.RunCommand(t, env, "list", "--format", "json")
	harness.AssertSuccess(t, result)
	var flags []flagJSON
	harness.AssertValidJSON(t, result, &flags)
	require.Len(t, flags, 1)
	assert.Equal(t, "5f1c", flags[0].ID)
	assert.Equal(t, "in_progress", flags[0].Status)

	// The same snapshot again adds nothing
	result = harness.RunCommandWithInput(t, env, legacySnapshot, "import", "-")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Imported 0 flags")
}

func TestExportYAML(t *testing.T) {
	env := harness.NewTestEnvironment(t, "file")
	addFlag(t, env, "Read 20 books")
	out := filepath.Join(t.TempDir(), "flags.yaml")

	result := harness.RunCommand(t, env, "export", "--format", "yaml", "--output", out)
	harness.AssertSuccess(t, result)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "title: Read 20 books"))
}

func TestSeedAndReport(t *testing.T) {
	env := harness.NewTestEnvironment(t, "file")

	result := harness.RunCommand(t, env, "seed")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Added 6 sample flags")

	result = harness.RunCommand(t, env, "seed")
	harness.AssertFailure(t, result)

	reportDir := t.TempDir()
	result = harness.RunCommand(t, env, "report", "--output-dir", reportDir)
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Report saved to")

	matches, err := filepath.Glob(filepath.Join(reportDir, "flag_report_*.txt"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
