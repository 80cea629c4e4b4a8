// Package notifier forwards booking outcomes to the desktop tray companion.
package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no tray companion owns the lockfile.
var ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")

// WebhookPayload is the body accepted by the tray companion.
type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// lockInfo is the content of the tray lockfile: port|pid|secret.
type lockInfo struct {
	Port   int
	PID    int
	Secret string
}

// Tray sends notifications to the tray companion over its local webhook.
type Tray struct {
	client  *http.Client
	timeout time.Duration
}

func New() *Tray {
	return &Tray{
		client:  &http.Client{},
		timeout: 2 * time.Second,
	}
}

// Send delivers text to the running tray companion.
func (t *Tray) Send(ctx context.Context, text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	lock, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return t.post(ctx, lock, WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs})
}

// Notify implements booking.Notifier. Delivery failures are logged, never
// surfaced, because the tray is optional.
func (t *Tray) Notify(n booking.Notice) {
	if n.Message == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	text := n.Message
	if n.Slot.Title != "" && !n.Failed() {
		text = fmt.Sprintf("%s %s", n.Message, n.Slot.Title)
	}
	if err := t.Send(ctx, text); err != nil {
		logger.Debug("tray notification not delivered", "error", err)
	}
}

// Available reports whether a tray companion is reachable through its lockfile.
func Available() bool {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return false
	}
	_, err = findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	return err == nil
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// settings.json may move the lockfile elsewhere
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

func readLockfile(path string) (lockInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return lockInfo{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return lockInfo{}, errors.New("lockfile is malformed")
	}
	if strings.TrimSpace(parts[0]) == "" {
		return lockInfo{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return lockInfo{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockInfo{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return lockInfo{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockInfo{}, errors.New("secret in lockfile is empty")
	}
	return lockInfo{Port: port, PID: pid, Secret: secret}, nil
}

// findAndValidateTrayProcess reads the lockfile and checks that its PID is
// still the tray companion, so a stale lockfile never leaks the secret to an
// unrelated listener.
func findAndValidateTrayProcess(lockfilePath string) (lockInfo, error) {
	lock, err := readLockfile(lockfilePath)
	if err != nil {
		return lockInfo{}, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return lockInfo{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return lockInfo{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.PID, constants.TrayExecutablePrefix, process.Executable())
	}
	return lock, nil
}

func (t *Tray) post(ctx context.Context, lock lockInfo, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Weekslot-Secret", lock.Secret)

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
