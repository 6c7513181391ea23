package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/espec/internal/catalog"
)

func runSync(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunSync(&buf))
	return buf.String()
}

func writeFeature(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const loginFeature = `Feature: Login

Scenario: User logs in
Given a user
When they log in
Then they see the dashboard
`

func TestSync_RegisterNewFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	out := runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var path string
	require.NoError(t, db.QueryRow(`SELECT path FROM files WHERE path = ?`, "features/login.feature").Scan(&path))
	assert.Equal(t, "features/login.feature", path)
	assert.Contains(t, out, "new  features/login.feature")
}

func TestSync_RegisterMultipleFiles(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	writeFeature(t, "features/checkout.feature", "Feature: Checkout\n\nScenario: User pays\nGiven a cart\n")

	out := runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&count))
	assert.Equal(t, 2, count)
	assert.Contains(t, out, "new  features/login.feature")
	assert.Contains(t, out, "new  features/checkout.feature")
}

func TestSync_ShowAlreadyTrackedFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	runSync(t) // first sync registers

	out := runSync(t) // second sync shows tracked

	assert.Contains(t, out, "trk  features/login.feature")
}

func TestSync_NoFeatureFiles(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runSync(t)

	assert.Contains(t, out, "synced 0 files, 0 scenarios")
}

func TestSync_NonFeatureFilesIgnored(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("features/notes.txt", []byte("scratch"), 0o644))
	writeFeature(t, "features/login.feature", loginFeature)

	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSync_FilesRecordStoresTimestamps(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var createdAt, updatedAt string
	require.NoError(t, db.QueryRow(
		`SELECT created_at, updated_at FROM files WHERE path = ?`, "features/login.feature",
	).Scan(&createdAt, &updatedAt))
	assert.NotEmpty(t, createdAt)
	assert.NotEmpty(t, updatedAt)
}

func TestSync_WithoutInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunSync(&buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `espec init` first")
}

func TestSync_RegisterNewScenario(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	out := runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM scenarios WHERE name = ?`, "User logs in").Scan(&name))
	assert.Equal(t, "User logs in", name)
	assert.Contains(t, out, "@sc:1 User logs in")

	// File name should appear above the scenario line
	fileIdx := strings.Index(out, "new  features/login.feature")
	scenarioIdx := strings.Index(out, "@sc:1 User logs in")
	require.True(t, fileIdx >= 0, "output should contain file line")
	require.True(t, scenarioIdx >= 0, "output should contain scenario line")
	assert.True(t, fileIdx < scenarioIdx, "file line should appear before scenario line")
}

func TestSync_RegisterMultipleScenariosFromOneFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

Scenario: User logs in
Given a user
When they log in
Then they see the dashboard

Scenario: User fails login
Given a user
When they enter a wrong password
Then they see an error
`)

	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 2, count)

	var first, second string
	require.NoError(t, db.QueryRow(`SELECT name FROM scenarios WHERE ordinal = 0`).Scan(&first))
	require.NoError(t, db.QueryRow(`SELECT name FROM scenarios WHERE ordinal = 1`).Scan(&second))
	assert.Equal(t, "User logs in", first)
	assert.Equal(t, "User fails login", second)
}

func TestSync_ScenarioRecordStoresMetadata(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var name, kind string
	var fileID int64
	var ordinal, stepCount int
	require.NoError(t, db.QueryRow(
		`SELECT name, kind, file_id, ordinal, step_count FROM scenarios WHERE id = 1`,
	).Scan(&name, &kind, &fileID, &ordinal, &stepCount))

	assert.Equal(t, "User logs in", name)
	assert.Equal(t, "scenario", kind)
	assert.Equal(t, 0, ordinal)
	assert.Equal(t, 3, stepCount)

	var filesFileID int64
	require.NoError(t, db.QueryRow(`SELECT id FROM files WHERE path = ?`, "features/login.feature").Scan(&filesFileID))
	assert.Equal(t, filesFileID, fileID)
}

func TestSync_ScenarioTagsRecorded(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

@smoke @auth
Scenario: User logs in
Given a user
`)

	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT tag FROM scenario_tags WHERE scenario_id = 1 ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		require.NoError(t, rows.Scan(&tag))
		tags = append(tags, tag)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"@smoke", "@auth"}, tags)
}

func TestSync_OutlineKindRecorded(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/ages.feature", `Feature: Ages

Scenario Outline: Person ages
Given <name> is <age>

Examples:
| name | age |
| Al | 30 |
`)

	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var kind string
	require.NoError(t, db.QueryRow(`SELECT kind FROM scenarios WHERE name = ?`, "Person ages").Scan(&kind))
	assert.Equal(t, "outline", kind)
}

func TestSync_SummaryIncludesScenarioCount(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

Scenario: User logs in
Given a user

Scenario: User fails login
Given a user
`)

	out := runSync(t)

	assert.Contains(t, out, "synced 1 files, 2 scenarios")
}

func TestSync_IsIdempotent(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	runSync(t)
	out := runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 1, count)

	// already registered scenarios are not announced again
	assert.NotContains(t, out, "@sc:1")
	assert.Contains(t, out, "trk  features/login.feature")
}

func TestSync_RenamedScenarioKeepsID(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	writeFeature(t, "features/login.feature", `Feature: Login

Scenario: User signs in
Given a user
`)
	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM scenarios WHERE id = 1`).Scan(&name))
	assert.Equal(t, "User signs in", name)
}

func TestSync_RemovedScenarioIsPruned(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

Scenario: First
Given a

Scenario: Second
Given b
`)
	runSync(t)

	writeFeature(t, "features/login.feature", `Feature: Login

Scenario: First
Given a
`)
	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 1, count)

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM scenarios WHERE ordinal = 0`).Scan(&name))
	assert.Equal(t, "First", name)
}

func TestSync_TagsReplacedOnResync(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", `Feature: Login

@old
Scenario: User logs in
Given a user
`)
	runSync(t)

	writeFeature(t, "features/login.feature", `Feature: Login

@fresh
Scenario: User logs in
Given a user
`)
	runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenario_tags`).Scan(&count))
	assert.Equal(t, 1, count)

	var tag string
	require.NoError(t, db.QueryRow(`SELECT tag FROM scenario_tags WHERE scenario_id = 1`).Scan(&tag))
	assert.Equal(t, "@fresh", tag)
}

func TestSync_HeaderFailureRecorded(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/broken.feature", "Scenario: No feature line\nGiven a\n")

	out := runSync(t)

	assert.Contains(t, out, "err  features/broken.feature")
	assert.Contains(t, out, "unexpected construct (expected feature, got scenario)")

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var reason, expected, actual string
	require.NoError(t, db.QueryRow(
		`SELECT reason, expected, actual FROM parse_failures WHERE file_id = 1`,
	).Scan(&reason, &expected, &actual))
	assert.Equal(t, "unexpected construct", reason)
	assert.Equal(t, "feature", expected)
	assert.Equal(t, "scenario", actual)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSync_ScenarioFailureKeepsGoodScenarios(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/mixed.feature", `Feature: Mixed

Scenario: Fine
Given a working step

Scenario: Out of order
Then an outcome
When an action
`)

	out := runSync(t)

	assert.Contains(t, out, "err  features/mixed.feature")
	assert.Contains(t, out, "bad step order (expected not when, got when)")
	assert.Contains(t, out, "@sc:1 Fine")

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM parse_failures`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSync_FailureClearedAfterFix(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", "Scenario: No feature line\nGiven a\n")
	runSync(t)

	writeFeature(t, "features/login.feature", loginFeature)
	out := runSync(t)

	db, err := catalog.Open("features/espec.db")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM parse_failures`).Scan(&count))
	assert.Equal(t, 0, count)

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 1, count)
	assert.Contains(t, out, "trk  features/login.feature")
}
