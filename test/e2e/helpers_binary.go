//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// lanternServer manages a running `lantern serve` process.
type lanternServer struct {
	cmd     *exec.Cmd
	dataDir string
	address string
	logFile string
	extra   []string
	stopped bool
}

// startLantern launches the binary on a fresh data directory and waits for it
// to become healthy. Extra entries are appended to the environment.
func startLantern(t *testing.T, extra ...string) *lanternServer {
	t.Helper()
	requireLantern(t)
	return startLanternIn(t, t.TempDir(), extra...)
}

func startLanternIn(t *testing.T, dataDir string, extra ...string) *lanternServer {
	t.Helper()

	port := freePort(t)
	s := &lanternServer{
		dataDir: dataDir,
		address: fmt.Sprintf("127.0.0.1:%d", port),
		logFile: filepath.Join(dataDir, fmt.Sprintf("lantern-%d.log", port)),
		extra:   extra,
	}

	cmd := exec.Command(lanternBin, "serve")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("LANTERN_PORT=%d", port),
		"LANTERN_DB_PATH="+filepath.Join(dataDir, "lantern.db"),
		"LANTERN_CONFIG_PATH="+filepath.Join(dataDir, "nonexistent.yaml"), // skip YAML file
		"LANTERN_TIMEZONE=UTC",
		"LANTERN_PRAYER_ENABLED=false",
	)
	cmd.Env = append(cmd.Env, extra...)

	lf, err := os.Create(s.logFile)
	if err != nil {
		t.Fatalf("create log file: %v", err)
	}
	cmd.Stdout = lf
	cmd.Stderr = lf

	if err := cmd.Start(); err != nil {
		lf.Close()
		t.Fatalf("start lantern: %v", err)
	}
	s.cmd = cmd

	t.Cleanup(func() {
		s.stop()
		lf.Close()
	})

	if err := s.waitHealthy(10 * time.Second); err != nil {
		t.Fatalf("lantern not healthy: %v\n%s", err, s.logs())
	}
	return s
}

func (s *lanternServer) stop() {
	if s.stopped || s.cmd == nil || s.cmd.Process == nil {
		return
	}
	s.stopped = true
	_ = s.cmd.Process.Signal(os.Interrupt)
	_ = s.cmd.Wait()
}

// restartOnSameData stops the server and starts a new one using the same data directory.
func (s *lanternServer) restartOnSameData(t *testing.T) *lanternServer {
	t.Helper()
	s.stop()
	return startLanternIn(t, s.dataDir, s.extra...)
}

func (s *lanternServer) baseURL() string {
	return "http://" + s.address
}

func (s *lanternServer) logs() string {
	data, _ := os.ReadFile(s.logFile)
	return string(data)
}

func (s *lanternServer) waitHealthy(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := s.baseURL() + "/api/v1/health"

	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("lantern not healthy after %s", timeout)
}

// do sends a request and returns the status and body.
func (s *lanternServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, s.baseURL()+path, r)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

// getJSON sends a GET, requires 200, and decodes the body into v.
func (s *lanternServer) getJSON(t *testing.T, path string, v any) {
	t.Helper()
	status, body := s.do(t, http.MethodGet, path, "")
	if status != http.StatusOK {
		t.Fatalf("GET %s: status %d: %s", path, status, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("GET %s decode: %v", path, err)
	}
}

// logMessages returns the msg field of every JSON log line.
func (s *lanternServer) logMessages() []string {
	var msgs []string
	for _, line := range strings.Split(s.logs(), "\n") {
		var entry map[string]any
		if json.Unmarshal([]byte(line), &entry) != nil {
			continue
		}
		if msg, ok := entry["msg"].(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
