package infra

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
)

// browserSpec describes where one browser keeps its binary and its
// profile metadata on each platform.
type browserSpec struct {
	name         string
	browserType  domain.BrowserType
	linuxExes    []string
	darwinExes   []string
	windowsExes  []string
	linuxData    []string
	darwinData   []string
	windowsData  []string
	profileStyle string // "chromium" (Local State) or "firefox" (profiles.ini)
}

var knownBrowsers = []browserSpec{
	{
		name:        "Google Chrome",
		browserType: domain.BrowserChromium,
		linuxExes:   []string{"/usr/bin/google-chrome", "/usr/bin/google-chrome-stable"},
		darwinExes:  []string{"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"},
		windowsExes: []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		},
		linuxData:    []string{"~/.config/google-chrome"},
		darwinData:   []string{"~/Library/Application Support/Google/Chrome"},
		windowsData:  []string{`~\AppData\Local\Google\Chrome\User Data`},
		profileStyle: "chromium",
	},
	{
		name:        "Microsoft Edge",
		browserType: domain.BrowserEdge,
		linuxExes:   []string{"/usr/bin/microsoft-edge", "/usr/bin/microsoft-edge-stable"},
		darwinExes:  []string{"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"},
		windowsExes: []string{
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
		},
		linuxData:    []string{"~/.config/microsoft-edge"},
		darwinData:   []string{"~/Library/Application Support/Microsoft Edge"},
		windowsData:  []string{`~\AppData\Local\Microsoft\Edge\User Data`},
		profileStyle: "chromium",
	},
	{
		name:        "Firefox",
		browserType: domain.BrowserFirefox,
		linuxExes:   []string{"/usr/bin/firefox"},
		darwinExes:  []string{"/Applications/Firefox.app/Contents/MacOS/firefox"},
		windowsExes: []string{
			`C:\Program Files\Mozilla Firefox\firefox.exe`,
		},
		linuxData:    []string{"~/.mozilla/firefox"},
		darwinData:   []string{"~/Library/Application Support/Firefox"},
		windowsData:  []string{`~\AppData\Roaming\Mozilla\Firefox`},
		profileStyle: "firefox",
	},
}

// Enumerator implements domain.BrowserEnumerator by scanning
// well-known install and profile locations. It is consumed only when
// the user is building new entries, never by the resolution path.
type Enumerator struct {
	homeDir string
	logger  *zap.Logger
}

// NewEnumerator creates an enumerator.
func NewEnumerator(logger *zap.Logger) *Enumerator {
	home, _ := os.UserHomeDir()
	return &Enumerator{homeDir: home, logger: logger}
}

// NewEnumeratorWithHome creates an enumerator with a custom home
// directory (for testing).
func NewEnumeratorWithHome(home string, logger *zap.Logger) *Enumerator {
	return &Enumerator{homeDir: home, logger: logger}
}

// Enumerate returns RuleProfile-shaped candidates for every installed
// browser profile it can find. Browsers it cannot find are skipped
// silently; a browser found without readable profile metadata yields
// a single default-profile candidate.
func (e *Enumerator) Enumerate() ([]domain.RuleProfile, error) {
	var out []domain.RuleProfile
	for _, spec := range knownBrowsers {
		exe := e.findExecutable(spec)
		if exe == "" {
			continue
		}
		profiles := e.findProfiles(spec)
		if len(profiles) == 0 {
			profiles = []profileInfo{{name: "Default", path: "Default"}}
		}
		for i, p := range profiles {
			out = append(out, domain.RuleProfile{
				BrowserName:           spec.name,
				BrowserExecutablePath: exe,
				BrowserType:           spec.browserType,
				ProfileName:           p.name,
				ProfilePath:           p.path,
				DisplayOrder:          i,
			})
		}
	}
	return out, nil
}

type profileInfo struct {
	name string
	path string
}

func (e *Enumerator) findExecutable(spec browserSpec) string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = spec.darwinExes
	case "windows":
		candidates = spec.windowsExes
	default:
		candidates = spec.linuxExes
	}
	for _, c := range candidates {
		if _, err := os.Stat(e.expandHome(c)); err == nil {
			return c
		}
	}
	return ""
}

func (e *Enumerator) findProfiles(spec browserSpec) []profileInfo {
	var dirs []string
	switch runtime.GOOS {
	case "darwin":
		dirs = spec.darwinData
	case "windows":
		dirs = spec.windowsData
	default:
		dirs = spec.linuxData
	}
	for _, dir := range dirs {
		dir = e.expandHome(dir)
		var profiles []profileInfo
		switch spec.profileStyle {
		case "chromium":
			profiles = e.chromiumProfiles(dir)
		case "firefox":
			profiles = e.firefoxProfiles(dir)
		}
		if len(profiles) > 0 {
			return profiles
		}
	}
	return nil
}

// chromiumProfiles reads the browser's Local State file. The
// profile.info_cache object maps profile directory names to their
// display metadata.
func (e *Enumerator) chromiumProfiles(dataDir string) []profileInfo {
	data, err := os.ReadFile(filepath.Join(dataDir, "Local State"))
	if err != nil {
		return nil
	}

	var state struct {
		Profile struct {
			InfoCache map[string]struct {
				Name string `json:"name"`
			} `json:"info_cache"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		e.logger.Debug("failed to parse Local State", zap.String("dir", dataDir), zap.Error(err))
		return nil
	}

	var out []profileInfo
	for dir, info := range state.Profile.InfoCache {
		name := info.Name
		if name == "" {
			name = dir
		}
		out = append(out, profileInfo{name: name, path: dir})
	}
	sortProfiles(out)
	return out
}

// firefoxProfiles scans profiles.ini with a plain line scan; the file
// is a sequence of [ProfileN] sections with Name= and Path= keys.
func (e *Enumerator) firefoxProfiles(dataDir string) []profileInfo {
	data, err := os.ReadFile(filepath.Join(dataDir, "profiles.ini"))
	if err != nil {
		return nil
	}

	var out []profileInfo
	var current profileInfo
	inProfile := false
	flush := func() {
		if inProfile && current.name != "" {
			out = append(out, current)
		}
		current = profileInfo{}
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "["):
			flush()
			inProfile = strings.HasPrefix(line, "[Profile")
		case strings.HasPrefix(line, "Name="):
			current.name = strings.TrimPrefix(line, "Name=")
		case strings.HasPrefix(line, "Path="):
			current.path = strings.TrimPrefix(line, "Path=")
		}
	}
	flush()
	sortProfiles(out)
	return out
}

func sortProfiles(profiles []profileInfo) {
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].name < profiles[j].name
	})
}

func (e *Enumerator) expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(e.homeDir, path[2:])
	}
	if strings.HasPrefix(path, `~\`) {
		return filepath.Join(e.homeDir, path[2:])
	}
	if path == "~" {
		return e.homeDir
	}
	return path
}

// Ensure Enumerator implements domain.BrowserEnumerator.
var _ domain.BrowserEnumerator = (*Enumerator)(nil)
