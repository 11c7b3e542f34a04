// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/shlex"
)

var (
	// ErrNonZeroExit is returned when an executed command exits with a non-zero return code.
	ErrNonZeroExit = errors.New("command exited with non-zero status")
	// ErrEmptyCmd is returned when there is nothing to execute.
	ErrEmptyCmd = errors.New("empty command")
)

// ExecCmd represents an exec command.
type ExecCmd struct {
	Cmd []string `json:"cmd"` // Cmd is a slice-based representation of a string command.
	// Dir is the working directory of the command, current directory when empty.
	Dir string `json:"dir,omitempty"`
}

// NewExecCmdFromString creates ExecCmd for a string-based command.
func NewExecCmdFromString(cmd string) (*ExecCmd, error) {
	result := &ExecCmd{}
	if err := result.SetCmd(cmd); err != nil {
		return nil, err
	}
	return result, nil
}

// NewExecCmdFromSlice creates ExecCmd for a command represented as a slice of strings.
func NewExecCmdFromSlice(cmd []string) *ExecCmd {
	return &ExecCmd{
		Cmd: cmd,
	}
}

// SetCmd sets the command that is to be executed.
func (e *ExecCmd) SetCmd(cmd string) error {
	c, err := shlex.Split(cmd)
	if err != nil {
		return err
	}
	e.Cmd = c
	return nil
}

// WithArgs returns a copy of the command with args appended.
func (e *ExecCmd) WithArgs(args ...string) *ExecCmd {
	return &ExecCmd{
		Cmd: append(slices.Clone(e.Cmd), args...),
		Dir: e.Dir,
	}
}

// InDir returns a copy of the command that runs in the working directory dir.
func (e *ExecCmd) InDir(dir string) *ExecCmd {
	return &ExecCmd{
		Cmd: slices.Clone(e.Cmd),
		Dir: dir,
	}
}

// GetCmd returns the command that is to be executed.
func (e *ExecCmd) GetCmd() []string {
	return e.Cmd
}

// GetCmdString returns the command as a single string for log output.
func (e *ExecCmd) GetCmdString() string {
	return strings.Join(e.Cmd, " ")
}

// ExecResult represents a result of a command execution.
type ExecResult struct {
	Cmd        []string `json:"cmd"`
	ReturnCode int      `json:"return-code"`
	Stdout     string   `json:"stdout"`
	Stderr     string   `json:"stderr"`
}

func NewExecResult(op *ExecCmd) *ExecResult {
	er := &ExecResult{Cmd: op.GetCmd()}
	return er
}

func (e *ExecResult) String() string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("Cmd: %s\nReturnCode: %d", e.GetCmdString(), e.ReturnCode))

	if e.Stdout != "" {
		s.WriteString(fmt.Sprintf("\nStdout: %q", e.Stdout))
	}
	if e.Stderr != "" {
		s.WriteString(fmt.Sprintf("\nStderr: %q", e.Stderr))
	}

	return s.String()
}

// GetCmdString returns the initially parsed cmd as a string for e.g. log output purpose.
func (e *ExecResult) GetCmdString() string {
	return strings.Join(e.Cmd, " ")
}

func (e *ExecResult) GetReturnCode() int {
	return e.ReturnCode
}

func (e *ExecResult) SetReturnCode(rc int) {
	e.ReturnCode = rc
}

func (e *ExecResult) GetStdOutString() string {
	return e.Stdout
}

func (e *ExecResult) GetStdErrString() string {
	return e.Stderr
}

func (e *ExecResult) SetStdOut(data []byte) {
	e.Stdout = string(data)
}

func (e *ExecResult) SetStdErr(data []byte) {
	e.Stderr = string(data)
}

// Executor runs commands and reports their results.
// A non-zero return code is reported as an error wrapping ErrNonZeroExit,
// together with the populated result.
type Executor interface {
	Exec(ctx context.Context, cmd *ExecCmd) (*ExecResult, error)
}

// LocalExecutor executes commands as local subprocesses.
// Exec blocks until the subprocess exits or ctx is canceled.
type LocalExecutor struct{}

// NewLocalExecutor returns an Executor running commands on the local host.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{}
}

// Exec runs cmd and waits for it to finish.
func (*LocalExecutor) Exec(ctx context.Context, cmd *ExecCmd) (*ExecResult, error) {
	if len(cmd.GetCmd()) == 0 {
		return nil, ErrEmptyCmd
	}

	c := osexec.CommandContext(ctx, cmd.Cmd[0], cmd.Cmd[1:]...) // skipcq: GSC-G204
	c.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	log.Debug("Executing command", "command", cmd.GetCmdString(), "dir", cmd.Dir)

	err := c.Run()

	res := NewExecResult(cmd)
	res.SetStdOut(stdout.Bytes())
	res.SetStdErr(stderr.Bytes())

	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		res.SetReturnCode(-1)
		return res, fmt.Errorf("command %q interrupted: %w", cmd.GetCmdString(), ctxErr)
	}

	var exitErr *osexec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.SetReturnCode(exitErr.ExitCode())
		log.Debugf("Command failed\n%s", res)
		return res, fmt.Errorf("%w: %q returned %d", ErrNonZeroExit, cmd.GetCmdString(), exitErr.ExitCode())
	case err != nil:
		res.SetReturnCode(-1)
		return res, fmt.Errorf("failed to run %q: %w", cmd.GetCmdString(), err)
	}

	log.Debugf("Executed command\n%s", res)

	return res, nil
}
