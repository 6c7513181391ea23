package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTags(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunTags(&buf))
	return buf.String()
}

func TestTags_CountsScenariosPerTag(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

@smoke
Scenario: User logs in
Given a user

@smoke @slow
Scenario: User fails login
Given a user
`)
	runSync(t)

	out := runTags(t)

	assert.Contains(t, out, "@smoke  2")
	assert.Contains(t, out, "@slow   1")
}

func TestTags_SortsByCountThenName(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

@rare
Scenario: First
Given a

@busy
Scenario: Second
Given b

@busy
Scenario: Third
Given c
`)
	runSync(t)

	out := runTags(t)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "@busy")
	assert.Contains(t, lines[1], "@rare")
}

func TestTags_TiesSortAlphabetically(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

@zulu @alpha
Scenario: First
Given a
`)
	runSync(t)

	out := runTags(t)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "@alpha")
	assert.Contains(t, lines[1], "@zulu")
}

func TestTags_CountsAcrossFiles(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

@smoke
Scenario: User logs in
Given a user
`)
	writeFeature(t, "features/checkout.feature", `Feature: Checkout

@smoke
Scenario: User pays
Given a cart
`)
	runSync(t)

	out := runTags(t)

	assert.Contains(t, out, "@smoke  2")
}

func TestTags_EmptyWhenNoTags(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	out := runTags(t)

	assert.Empty(t, out)
}

func TestTags_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunTags(&buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `espec init` first")
}
