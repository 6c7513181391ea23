package support

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/espec/cmd"
)

// CommandResult holds the outcome of one in-process command run.
type CommandResult struct {
	// Command is the full command string that was run
	Command string
	// Output is the captured command output
	Output string
	// Err is the error the command returned, if any
	Err error
}

// Runner dispatches espec commands in-process and captures their output.
// Running in-process keeps the specs independent of a prebuilt binary.
type Runner struct {
	// LastResult stores the result of the last command run
	LastResult *CommandResult
}

// Run executes a command string such as "espec sync" or
// "espec list --tag @smoke". A leading "espec" is stripped.
func (r *Runner) Run(commandStr string) *CommandResult {
	args := strings.Fields(commandStr)
	if len(args) > 0 && args[0] == "espec" {
		args = args[1:]
	}

	var buf bytes.Buffer
	err := dispatch(&buf, args)

	result := &CommandResult{
		Command: commandStr,
		Output:  buf.String(),
		Err:     err,
	}
	r.LastResult = result
	return result
}

func dispatch(w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}

	name, rest := args[0], args[1:]
	switch name {
	case "init":
		return cmd.RunInit(w)
	case "sync":
		return cmd.RunSync(w)
	case "list":
		tag := ""
		for i := 0; i < len(rest); i++ {
			if rest[i] == "--tag" && i+1 < len(rest) {
				tag = rest[i+1]
				i++
			}
		}
		return cmd.RunList(w, tag)
	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("show wants exactly one scenario ID")
		}
		return cmd.RunShow(w, rest[0])
	case "tags":
		return cmd.RunTags(w)
	case "check":
		strict := false
		var paths []string
		for _, a := range rest {
			if a == "--strict" {
				strict = true
				continue
			}
			paths = append(paths, a)
		}
		return cmd.RunCheck(w, paths, strict)
	case "dump":
		format := ""
		var paths []string
		for i := 0; i < len(rest); i++ {
			if rest[i] == "--format" && i+1 < len(rest) {
				format = rest[i+1]
				i++
				continue
			}
			paths = append(paths, rest[i])
		}
		if len(paths) != 1 {
			return fmt.Errorf("dump wants exactly one file")
		}
		if format == "" {
			format = "json"
		}
		return cmd.RunDump(w, paths[0], format)
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}
