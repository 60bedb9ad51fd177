package daemon

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/sevlyar/go-daemon"
)

const (
	// DaemonEnvVar is the environment variable that marks a daemon child process
	DaemonEnvVar = "INPUTMETER_DAEMON_CHILD"
)

// ErrNotRunning is returned when the pid file names no live process.
var ErrNotRunning = errors.New("agent is not running")

// Context returns the daemon context used both to spawn the child and, in the
// child, to take ownership of the pid file. The child runs from / with args,
// so any path in args must be absolute.
func Context(pidFile, logFile string, args []string) *daemon.Context {
	return &daemon.Context{
		PidFileName: pidFile,
		PidFilePerm: 0o644,
		LogFileName: logFile,
		LogFilePerm: 0o640,
		WorkDir:     "/",
		Umask:       027,
		Args:        args,
		Env:         append(os.Environ(), fmt.Sprintf("%s=1", DaemonEnvVar)),
	}
}

// Daemonize detaches the process.
// In the parent the returned process is the child and the caller should exit.
// In the child the returned process is nil and the caller keeps running; it
// must call Release on the context when done so the pid file is removed.
func Daemonize(ctx *daemon.Context) (*os.Process, error) {
	child, err := ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}

	return child, nil
}

// IsChild returns true if this is the daemon child process
func IsChild() bool {
	return os.Getenv(DaemonEnvVar) == "1" || daemon.WasReborn()
}

// Status returns the pid recorded in pidFile if that process is alive.
// A missing, empty or unparseable pid file means the agent is not running.
func Status(pidFile string) (int, error) {
	pid, err := daemon.ReadPidFile(pidFile)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) && !errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("failed to read pid file %s: %w", pidFile, err)
		}
		return 0, ErrNotRunning
	}
	// pid 0 would signal our own process group
	if pid <= 0 {
		return 0, ErrNotRunning
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, ErrNotRunning
	}
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return 0, ErrNotRunning
	}

	return pid, nil
}

// Stop sends SIGTERM to the agent recorded in pidFile.
func Stop(pidFile string) (int, error) {
	pid, err := Status(pidFile)
	if err != nil {
		return 0, err
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return 0, fmt.Errorf("failed to stop agent (pid %d): %w", pid, err)
	}

	return pid, nil
}

// WritePidFile locks and writes the current pid to pidFile for a foreground
// agent. The returned function unlocks and removes the file.
func WritePidFile(pidFile string) (func() error, error) {
	lock, err := daemon.CreatePidFile(pidFile, 0o644)
	if err != nil {
		if errors.Is(err, daemon.ErrWouldBlock) {
			return nil, fmt.Errorf("another agent already holds %s", pidFile)
		}
		return nil, fmt.Errorf("failed to write pid file %s: %w", pidFile, err)
	}

	return lock.Remove, nil
}
