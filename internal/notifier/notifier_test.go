package notifier

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
)

var _ booking.Notifier = (*Tray)(nil)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func withProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestGetTrayAppConfigDir(t *testing.T) {
	base := withConfigDir(t)

	expectedDefault := filepath.Join(base, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil || dir != expectedDefault {
		t.Errorf("GetTrayAppConfigDir() = %s, %v; want %s", dir, err, expectedDefault)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/weekslot/dir"
	settings := `{"settings": {"lockfile_dir": "` + customDir + `"}}`
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := GetTrayAppConfigDir(); dir != customDir {
		t.Errorf("custom dir = %s, want %s", dir, customDir)
	}
}

func TestReadLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "two parts", content: "8080|12345", wantErr: "malformed"},
		{name: "garbage", content: "invalid", wantErr: "malformed"},
		{name: "empty secret", content: "8080|12345|", wantErr: "secret"},
		{name: "empty port", content: "|12345|s3cret", wantErr: "port"},
		{name: "port range", content: "99999|12345|s3cret", wantErr: "outside valid range"},
		{name: "bad pid", content: "8080|abc|s3cret", wantErr: "process ID"},
		{name: "ok", content: "8080|12345|s3cret\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			lock, err := readLockfile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("readLockfile() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readLockfile() error = %v", err)
			}
			if lock.Port != 8080 || lock.PID != 12345 || lock.Secret != "s3cret" {
				t.Errorf("lock = %+v", lock)
			}
		})
	}

	if _, err := readLockfile(filepath.Join(t.TempDir(), "missing")); err != ErrTrayNotRunning {
		t.Errorf("missing lockfile error = %v", err)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
	if err := os.WriteFile(path, []byte("8080|12345|s3cret"), 0644); err != nil {
		t.Fatal(err)
	}

	withProcess(t, "")
	if _, err := findAndValidateTrayProcess(path); err != ErrTrayNotRunning {
		t.Errorf("no process error = %v", err)
	}

	withProcess(t, "other-app")
	if _, err := findAndValidateTrayProcess(path); err == nil {
		t.Error("expected error for wrong executable")
	}

	withProcess(t, constants.TrayExecutablePrefix)
	lock, err := findAndValidateTrayProcess(path)
	if err != nil || lock.Port != 8080 || lock.Secret != "s3cret" {
		t.Errorf("findAndValidateTrayProcess() = %+v, %v", lock, err)
	}
}

func TestNotifyDeliversToTray(t *testing.T) {
	var got WebhookPayload
	var secret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret = r.Header.Get("X-Weekslot-Secret")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, portStr, _ := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	port, _ := strconv.Atoi(portStr)

	base := withConfigDir(t)
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := strconv.Itoa(port) + "|4242|s3cret"
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}
	withProcess(t, constants.TrayExecutablePrefix+"-bin")

	if !Available() {
		t.Fatal("Available() = false with a valid lockfile")
	}

	New().Notify(booking.Notice{Action: constants.ActionBook, Slot: models.TimeSlot{Title: "Yoga"}, Message: constants.MsgBooked})
	if got.Text != "Booked! Yoga" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("payload = %+v", got)
	}
	if secret != "s3cret" {
		t.Errorf("secret header = %q", secret)
	}
}

func TestSendReportsFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad secret"))
	}))
	defer server.Close()

	_, portStr, _ := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	port, _ := strconv.Atoi(portStr)

	err := New().post(context.Background(), lockInfo{Port: port, PID: 1, Secret: "x"}, WebhookPayload{Text: "hi"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("post() error = %v, want status 401", err)
	}
}

func TestNotifyWithoutTrayIsSilent(t *testing.T) {
	withConfigDir(t)
	if Available() {
		t.Error("Available() = true without a lockfile")
	}
	// Must not panic or block.
	New().Notify(booking.Notice{Message: constants.MsgBookFailed})
	New().Notify(booking.Notice{})
}
