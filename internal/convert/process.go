package convert

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Starter launches the external tool. Tests inject scripted processes; the
// default implementation shells out via os/exec.
type Starter interface {
	Start(binary string, args []string) (Process, error)
}

// Process is a handle to a running child with its three standard streams
// attached. It is owned exclusively by the Converter.
type Process interface {
	Stdin() io.WriteCloser
	Stdout() io.Reader
	Stderr() io.Reader
	// Kill forcibly terminates the process.
	Kill() error
	// Wait blocks until the process exits and returns its exit code. The
	// error is non-nil only when the process could not be reaped; a nonzero
	// exit status is reported through the code alone.
	Wait() (int, error)
}

type execStarter struct{}

func (execStarter) Start(binary string, args []string) (Process, error) {
	cmd := exec.Command(binary, args...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	stderr io.Reader
}

func (p *execProcess) Stdin() io.WriteCloser { return p.stdin }

func (p *execProcess) Stdout() io.Reader { return p.stdout }

func (p *execProcess) Stderr() io.Reader { return p.stderr }

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
