package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/GianlucaP106/gotmux/gotmux"
)

// Window is one tmux window. The ID is assigned by tmux (e.g. "@3"), stays
// stable across renames, and is the only safe key for correlating windows
// across refreshes.
type Window struct {
	ID      string
	Name    string
	Session string
	Active  bool
}

// Session is a named container of ordered windows.
type Session struct {
	Name    string
	Windows []Window
}

// Client executes tmux operations against one server socket.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Sessions returns every session with its windows in tmux order.
func (c *Client) Sessions() ([]Session, error) {
	client, err := c.newTmux()
	if err != nil {
		return nil, err
	}
	listed, err := client.ListSessions()
	if err != nil {
		// No server running means no sessions, not a failure.
		return nil, nil
	}
	windows, err := c.fetchWindows()
	if err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(listed))
	for _, s := range listed {
		entry := Session{Name: s.Name}
		for _, w := range windows {
			if w.Session == s.Name {
				entry.Windows = append(entry.Windows, w)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// CurrentSession reports the session the client is attached to, or "" when
// detection fails.
func (c *Client) CurrentSession() (string, error) {
	client, err := c.newTmux()
	if err != nil {
		return "", err
	}
	clients, err := client.ListClients()
	if err != nil {
		return "", nil
	}
	for _, cl := range clients {
		if cl != nil && cl.Session != "" {
			return cl.Session, nil
		}
	}
	return "", nil
}

// SwitchToWindow selects the window inside its session, then switches the
// attached client to that session.
func (c *Client) SwitchToWindow(session, windowID string) error {
	if err := c.run("select-window", "-t", fmt.Sprintf("%s:%s", session, windowID)); err != nil {
		return err
	}
	return c.SwitchToSession(session)
}

func (c *Client) SwitchToSession(session string) error {
	client, err := c.newTmux()
	if err != nil {
		return err
	}
	return client.SwitchClient(&gotmux.SwitchClientOptions{TargetSession: session})
}

func (c *Client) RenameWindow(session, windowID, newName string) error {
	window, err := c.findWindow(windowID)
	if err != nil {
		return err
	}
	if window == nil {
		return fmt.Errorf("window %s:%s not found", session, windowID)
	}
	return window.Rename(newName)
}

func (c *Client) RenameSession(oldName, newName string) error {
	session, err := c.findSession(oldName)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", oldName)
	}
	return session.Rename(newName)
}

func (c *Client) KillWindow(session, windowID string) error {
	window, err := c.findWindow(windowID)
	if err != nil {
		return err
	}
	if window == nil {
		return fmt.Errorf("window %s:%s not found", session, windowID)
	}
	return window.Kill()
}

func (c *Client) KillSession(name string) error {
	session, err := c.findSession(name)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", name)
	}
	return session.Kill()
}

// NewWindow appends a window at the end of the session without attaching.
func (c *Client) NewWindow(session string) error {
	return c.run("new-window", "-d", "-t", session)
}

// SwapWindows swaps the two windows and keeps the previously active window of
// the session selected. Failure to re-select is not reported; the swap itself
// succeeded and the caller refreshes immediately after.
func (c *Client) SwapWindows(session, first, second string) error {
	activeID := ""
	if out, err := c.output("list-windows", "-t", session, "-F", "#{window_id}:#{window_active}"); err == nil {
		for _, line := range strings.Split(out, "\n") {
			if strings.HasSuffix(line, ":1") {
				activeID = strings.TrimSuffix(line, ":1")
				break
			}
		}
	}
	if err := c.run("swap-window", "-s", first, "-t", second); err != nil {
		return err
	}
	if activeID == first || activeID == second {
		_ = c.run("select-window", "-t", activeID)
	}
	return nil
}

// NewWindowInSession creates a named window in an existing session with the
// given start directory and selects it.
func (c *Client) NewWindowInSession(session, window, dir string) error {
	return c.run("new-window", "-S", "-t", session, "-n", window, "-c", dir)
}

// NewSessionWithWindow creates a detached session whose first window carries
// the given name and start directory, then switches the client to it.
func (c *Client) NewSessionWithWindow(session, window, dir string) error {
	if err := c.run("new-session", "-d", "-s", session, "-n", window, "-c", dir); err != nil {
		return err
	}
	return c.run("switch-client", "-t", fmt.Sprintf("%s:%s", session, window))
}

// ResolveSocketPath determines the tmux socket to use, preferring an explicit
// flag value, then the TMUX environment, then the conventional default path.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

func (c *Client) newTmux() (*gotmux.Tmux, error) {
	if c.socketPath != "" {
		return gotmux.NewTmux(c.socketPath)
	}
	return gotmux.DefaultTmux()
}

func (c *Client) fetchWindows() ([]Window, error) {
	out, err := c.output("list-windows", "-a", "-F",
		"#{session_name}\t#{window_id}\t#{window_name}\t#{window_active}")
	if err != nil {
		return nil, err
	}
	var windows []Window
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) < 4 {
			continue
		}
		windows = append(windows, Window{
			Session: parts[0],
			ID:      parts[1],
			Name:    parts[2],
			Active:  parts[3] == "1",
		})
	}
	return windows, nil
}

func (c *Client) findWindow(windowID string) (*gotmux.Window, error) {
	client, err := c.newTmux()
	if err != nil {
		return nil, err
	}
	windows, err := client.ListAllWindows()
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		if w.Id == windowID {
			return w, nil
		}
	}
	return nil, nil
}

func (c *Client) findSession(name string) (*gotmux.Session, error) {
	client, err := c.newTmux()
	if err != nil {
		return nil, err
	}
	return client.GetSessionByName(name)
}

func (c *Client) baseArgs() []string {
	if strings.TrimSpace(c.socketPath) == "" {
		return []string{}
	}
	return []string{"-S", c.socketPath}
}

func (c *Client) run(args ...string) error {
	cmd := exec.Command("tmux", append(c.baseArgs(), args...)...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("tmux %s: %s", args[0], msg)
		}
		return fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return nil
}

func (c *Client) output(args ...string) (string, error) {
	cmd := exec.Command("tmux", append(c.baseArgs(), args...)...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("tmux %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
