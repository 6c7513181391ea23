// Package steps provides step definitions for the espec CLI specs.
package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/chriserin/espec/internal/catalog"
	"github.com/chriserin/espec/internal/config"
	"github.com/chriserin/espec/spec/support"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	testEnvKey    contextKey = "testEnv"
	runnerKey     contextKey = "runner"
	lastResultKey contextKey = "lastResult"
)

// getTestEnv retrieves the TestEnv from context.
func getTestEnv(ctx context.Context) *support.TestEnv {
	if env, ok := ctx.Value(testEnvKey).(*support.TestEnv); ok {
		return env
	}
	return nil
}

// getRunner retrieves the Runner from context.
func getRunner(ctx context.Context) *support.Runner {
	if runner, ok := ctx.Value(runnerKey).(*support.Runner); ok {
		return runner
	}
	return nil
}

// getLastResult retrieves the last command result from context.
func getLastResult(ctx context.Context) *support.CommandResult {
	if result, ok := ctx.Value(lastResultKey).(*support.CommandResult); ok {
		return result
	}
	return nil
}

// InitializeCommonSteps registers all common step definitions.
func InitializeCommonSteps(ctx *godog.ScenarioContext) {
	// Before each scenario: set up an isolated project directory
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		env, err := support.NewTestEnv()
		if err != nil {
			return ctx, fmt.Errorf("failed to create test environment: %w", err)
		}

		ctx = context.WithValue(ctx, testEnvKey, env)
		ctx = context.WithValue(ctx, runnerKey, &support.Runner{})

		return ctx, nil
	})

	// After each scenario: restore the working directory
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		env := getTestEnv(ctx)
		if env != nil {
			if cleanupErr := env.Cleanup(); cleanupErr != nil {
				fmt.Printf("Warning: cleanup failed: %v\n", cleanupErr)
			}
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a fresh project directory$`, aFreshProjectDirectory)
	ctx.Step(`^an initialized project$`, anInitializedProject)
	ctx.Step(`^a feature file "([^"]*)" containing:$`, aFeatureFileContaining)
	ctx.Step(`^I have run "([^"]*)"$`, iHaveRun)

	// When steps
	ctx.Step(`^I run "([^"]*)"$`, iRun)

	// Then steps
	ctx.Step(`^the command succeeds$`, theCommandSucceeds)
	ctx.Step(`^the command fails$`, theCommandFails)
	ctx.Step(`^the output contains "([^"]*)"$`, theOutputContains)
	ctx.Step(`^the output does not contain "([^"]*)"$`, theOutputDoesNotContain)
	ctx.Step(`^the error contains "([^"]*)"$`, theErrorContains)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
	ctx.Step(`^the catalog should hold (\d+) scenarios?$`, theCatalogShouldHoldScenarios)
}

// aFreshProjectDirectory confirms the scenario starts in an empty
// directory. The Before hook already created one.
func aFreshProjectDirectory(ctx context.Context) (context.Context, error) {
	if getTestEnv(ctx) == nil {
		return ctx, fmt.Errorf("test environment not initialized")
	}
	return ctx, nil
}

// anInitializedProject runs espec init and requires it to succeed.
func anInitializedProject(ctx context.Context) (context.Context, error) {
	return runCommand(ctx, "espec init", true)
}

// aFeatureFileContaining writes a feature file with the docstring content.
func aFeatureFileContaining(ctx context.Context, path string, content *godog.DocString) (context.Context, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ctx, err
		}
	}
	return ctx, os.WriteFile(path, []byte(content.Content+"\n"), 0o644)
}

// iRun runs a command and stores its result, whatever the outcome.
func iRun(ctx context.Context, commandStr string) (context.Context, error) {
	return runCommand(ctx, commandStr, false)
}

// iHaveRun runs a setup command that must succeed.
func iHaveRun(ctx context.Context, commandStr string) (context.Context, error) {
	return runCommand(ctx, commandStr, true)
}

func runCommand(ctx context.Context, commandStr string, mustSucceed bool) (context.Context, error) {
	runner := getRunner(ctx)
	if runner == nil {
		return ctx, fmt.Errorf("runner not initialized")
	}

	result := runner.Run(commandStr)
	if mustSucceed && result.Err != nil {
		return ctx, fmt.Errorf("%q failed: %v", commandStr, result.Err)
	}

	return context.WithValue(ctx, lastResultKey, result), nil
}

func theCommandSucceeds(ctx context.Context) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}
	if result.Err != nil {
		return fmt.Errorf("%q failed: %v\noutput:\n%s", result.Command, result.Err, result.Output)
	}
	return nil
}

func theCommandFails(ctx context.Context) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}
	if result.Err == nil {
		return fmt.Errorf("%q succeeded, expected it to fail\noutput:\n%s", result.Command, result.Output)
	}
	return nil
}

func theOutputContains(ctx context.Context, want string) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}
	if !strings.Contains(result.Output, want) {
		return fmt.Errorf("output does not contain %q:\n%s", want, result.Output)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, want string) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}
	if strings.Contains(result.Output, want) {
		return fmt.Errorf("output contains %q:\n%s", want, result.Output)
	}
	return nil
}

func theErrorContains(ctx context.Context, want string) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}
	if result.Err == nil {
		return fmt.Errorf("%q returned no error", result.Command)
	}
	if !strings.Contains(result.Err.Error(), want) {
		return fmt.Errorf("error %q does not contain %q", result.Err.Error(), want)
	}
	return nil
}

func theFileShouldExist(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	return nil
}

func theCatalogShouldHoldScenarios(ctx context.Context, count int) error {
	db, err := catalog.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer db.Close()

	var got int
	if err := db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&got); err != nil {
		return err
	}
	if got != count {
		return fmt.Errorf("catalog holds %d scenarios, want %d", got, count)
	}
	return nil
}
