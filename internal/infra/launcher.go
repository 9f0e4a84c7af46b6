package infra

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
)

// ExecLauncher implements domain.Launcher by spawning a detached
// browser process.
type ExecLauncher struct {
	logger *zap.Logger
}

// NewExecLauncher creates a launcher.
func NewExecLauncher(logger *zap.Logger) *ExecLauncher {
	return &ExecLauncher{logger: logger}
}

// Launch starts the profile's browser with the URL appended. The
// child is released immediately; we never wait for the browser.
func (l *ExecLauncher) Launch(ctx context.Context, profile domain.RuleProfile, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if profile.BrowserExecutablePath == "" {
		return fmt.Errorf("profile %q has no browser executable", profile.ProfileName)
	}

	args := ProfileArgs(profile)
	args = append(args, url)

	if l.browserRunning(profile.BrowserExecutablePath) {
		// An existing instance usually adopts the new window; the
		// spawned process may exit right away. Informational only.
		l.logger.Debug("browser already running",
			zap.String("executable", profile.BrowserExecutablePath))
	}

	// Deliberately not CommandContext: the browser must outlive us.
	cmd := exec.Command(profile.BrowserExecutablePath, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", profile.BrowserName, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		l.logger.Warn("failed to release browser process", zap.Error(err))
	}

	l.logger.Info("browser launched",
		zap.String("browser", profile.BrowserName),
		zap.String("profile", profile.ProfileName),
		zap.String("url", url),
		zap.Int("pid", pid))
	return nil
}

// ProfileArgs builds the per-family profile selection arguments,
// followed by any extra arguments configured on the profile.
func ProfileArgs(profile domain.RuleProfile) []string {
	var args []string
	switch profile.BrowserType {
	case domain.BrowserChromium, domain.BrowserEdge:
		if profile.ProfilePath != "" {
			args = append(args, "--profile-directory="+profile.ProfilePath)
		}
	case domain.BrowserFirefox:
		if profile.ProfileName != "" {
			args = append(args, "-P", profile.ProfileName)
		}
	}
	if extra := strings.Fields(profile.ProfileArguments); len(extra) > 0 {
		args = append(args, extra...)
	}
	return args
}

// browserRunning reports whether any process was started from the
// given executable path.
func (l *ExecLauncher) browserRunning(exePath string) bool {
	procs, err := process.Processes()
	if err != nil {
		return false
	}
	for _, p := range procs {
		exe, err := p.Exe()
		if err != nil {
			continue // Process may have exited
		}
		if strings.EqualFold(exe, exePath) {
			return true
		}
	}
	return false
}

// Ensure ExecLauncher implements domain.Launcher.
var _ domain.Launcher = (*ExecLauncher)(nil)
