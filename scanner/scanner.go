package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"ghagga-dashboard/models"
)

var (
	ErrTimeout      = errors.New("semgrep scan timed out")
	ErrRulesMissing = errors.New("rules file not found")
	ErrBadPath      = errors.New("file path escapes the scan directory")
)

// Runner executes semgrep and returns stdout, stderr and the exit code.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return nil, nil, -1, err
	}
	return stdout.Bytes(), stderr.Bytes(), 0, nil
}

type Config struct {
	Bin     string
	Rules   string
	Timeout time.Duration
}

type Scanner struct {
	cfg    Config
	runner Runner
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Scanner {
	return NewWithRunner(cfg, execRunner{}, log)
}

func NewWithRunner(cfg Config, runner Runner, log *zap.Logger) *Scanner {
	if cfg.Bin == "" {
		cfg.Bin = "semgrep"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Scanner{cfg: cfg, runner: runner, log: log}
}

// Version reports `semgrep --version` output whatever the exit code, or
// "unknown" when it cannot run or prints nothing.
func (s *Scanner) Version(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, _, _, err := s.runner.Run(ctx, s.cfg.Bin, "--version")
	version := strings.TrimSpace(string(out))
	if err != nil || version == "" {
		return "unknown"
	}
	return version
}

func (s *Scanner) Scan(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error) {
	if len(req.Files) == 0 {
		return &models.ScanResponse{Findings: []models.Finding{}}, nil
	}

	dir, err := os.MkdirTemp("", "semgrep-scan-")
	if err != nil {
		return nil, fmt.Errorf("create scan dir: %w", err)
	}
	defer os.RemoveAll(dir)

	start := time.Now()

	for _, f := range req.Files {
		if err := writeScanFile(dir, f); err != nil {
			return nil, err
		}
	}

	configArg := "auto"
	if req.RulesConfig != "auto" {
		if _, err := os.Stat(s.cfg.Rules); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrRulesMissing, s.cfg.Rules)
		}
		configArg = s.cfg.Rules
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	stdout, stderr, code, err := s.runner.Run(ctx, s.cfg.Bin,
		"--config", configArg,
		"--json",
		"--no-git-ignore",
		"--quiet",
		dir,
	)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, ErrTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("run semgrep: %w", err)
	}
	// Exit code 1 means findings were reported.
	if code != 0 && code != 1 {
		return nil, fmt.Errorf("semgrep error: %s", truncate(string(stderr), 500))
	}

	findings, err := ParseOutput(stdout)
	if err != nil {
		return nil, err
	}
	for i := range findings {
		findings[i].Path = relativePath(dir, findings[i].Path)
	}

	resp := &models.ScanResponse{
		Findings:     findings,
		DurationMS:   time.Since(start).Milliseconds(),
		FilesScanned: len(req.Files),
	}
	s.log.Info("semgrep scan finished",
		zap.Int("files", resp.FilesScanned),
		zap.Int("findings", len(resp.Findings)),
		zap.Int64("duration_ms", resp.DurationMS),
	)
	return resp, nil
}

func writeScanFile(dir string, f models.ScanFile) error {
	path := filepath.Join(dir, filepath.FromSlash(f.Path))
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q", ErrBadPath, f.Path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

func relativePath(dir, p string) string {
	if !strings.HasPrefix(p, dir) {
		return p
	}
	return strings.TrimLeft(strings.TrimPrefix(p, dir), `/\`)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type semgrepOutput struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line int `json:"line"`
		} `json:"start"`
		Extra struct {
			Message  string `json:"message"`
			Severity string `json:"severity"`
		} `json:"extra"`
	} `json:"results"`
}

// ParseOutput converts `semgrep --json` output into findings.
func ParseOutput(raw []byte) ([]models.Finding, error) {
	var out semgrepOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse semgrep output: %s", truncate(string(raw), 200))
	}

	findings := make([]models.Finding, 0, len(out.Results))
	for _, r := range out.Results {
		ruleID := r.CheckID
		if ruleID == "" {
			ruleID = "unknown"
		}
		// Registry and file rules come back as "<prefix>.<rule-id>".
		if i := strings.LastIndex(ruleID, "."); i >= 0 {
			ruleID = ruleID[i+1:]
		}
		severity := r.Extra.Severity
		if severity == "" {
			severity = "INFO"
		}

		findings = append(findings, models.Finding{
			RuleID:   ruleID,
			Path:     r.Path,
			Line:     r.Start.Line,
			Message:  r.Extra.Message,
			Severity: MapSeverity(severity),
			Category: MapCategory(ruleID),
		})
	}
	return findings, nil
}

func MapSeverity(semgrepSeverity string) string {
	switch strings.ToUpper(semgrepSeverity) {
	case "ERROR":
		return "error"
	case "WARNING":
		return "warning"
	default:
		return "info"
	}
}

var securityRules = map[string]struct{}{
	"hardcoded-secret-generic":    {},
	"sql-string-concat":           {},
	"weak-crypto-md5":             {},
	"weak-crypto-sha1":            {},
	"js-eval-usage":               {},
	"js-innerhtml":                {},
	"python-exec":                 {},
	"python-subprocess-shell":     {},
	"go-sql-format":               {},
	"rust-unsafe-block":           {},
	"path-traversal-python":       {},
	"path-traversal-go":           {},
	"path-traversal-node":         {},
	"command-injection-go":        {},
	"command-injection-node":      {},
	"ssrf-python":                 {},
	"ssrf-node":                   {},
	"insecure-deserialize-python": {},
	"insecure-deserialize-java":   {},
	"java-unsafe-reflection":      {},
	"log-injection":               {},
}

// MapCategory classifies a rule. Unknown rules count as security findings.
func MapCategory(ruleID string) string {
	if _, ok := securityRules[ruleID]; ok {
		return "security"
	}
	if ruleID == "test-todo-skip" {
		return "quality"
	}
	return "security"
}
