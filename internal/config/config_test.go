package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, conf.Matching.DefaultTopN)
	assert.Equal(t, 6, conf.Matching.RetrievalMultiplier)
	assert.Equal(t, 35, conf.Matching.RetrievalFloor)
	assert.Equal(t, "inactive", conf.Matching.EligibleStatus)
	assert.Equal(t, PrimarySkillScopeRequiredSkills, conf.Matching.PrimarySkillScope)
	assert.Equal(t, 15*time.Second, conf.LLM.Timeout())
	assert.Equal(t, "employees", conf.Elasticsearch.IndexName)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: "9090"
llm:
  provider: gemini
  timeout_seconds: 3
matching:
  retrieval_multiplier: 8
  primary_skill_scope: query_text
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("BENCHMATCH_MATCHING_ELIGIBLE_STATUS", "Bench")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.Server.Port)
	assert.Equal(t, "gemini", conf.LLM.Provider)
	assert.Equal(t, 3*time.Second, conf.LLM.Timeout())
	assert.Equal(t, 8, conf.Matching.RetrievalMultiplier)
	assert.Equal(t, PrimarySkillScopeQueryText, conf.Matching.PrimarySkillScope)
	assert.Equal(t, "Bench", conf.Matching.EligibleStatus)
}

func TestLoadRejectsUnknownScope(t *testing.T) {
	t.Setenv("BENCHMATCH_MATCHING_PRIMARY_SKILL_SCOPE", "everything")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
