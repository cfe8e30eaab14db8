package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const deliberationStream = `{"phase":"Analyst","delta":"Block public "}
{"phase":"Analyst","delta":"access first."}
{"phase":"Metadata","sources":[{"source":"https://docs.aws.amazon.com/s3","title":"S3 guide"}]}
{"phase":"Arbiter","status":"Completed","content":"Enable S3 Block Public Access."}
`

type fakeBackend struct {
	server *httptest.Server

	mu         sync.Mutex
	stream     string
	auth       []string
	bodies     map[string][]byte
	failStream bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	backend := &fakeBackend{stream: deliberationStream, bodies: map[string][]byte{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/rag/stream/", func(w http.ResponseWriter, r *http.Request) {
		if backend.record(r) {
			http.Error(w, `{"error":"retriever offline"}`, http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = io.WriteString(w, backend.streamBody())
	})
	mux.HandleFunc("/api/doc_download/", func(w http.ResponseWriter, r *http.Request) {
		backend.record(r)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		_, _ = w.Write([]byte("PK\x03\x04docx"))
	})
	mux.HandleFunc("/api/documents/", func(w http.ResponseWriter, r *http.Request) {
		backend.record(r)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Document ingested successfully"}`)
	})
	mux.HandleFunc("/api/policies/", func(w http.ResponseWriter, r *http.Request) {
		backend.record(r)
		_, _ = io.WriteString(w, `{
			"risk_level": "high",
			"findings": [{"issue": "Wildcard action", "severity": "high", "recommendation": "List the actions you need"}],
			"suggested_policy": {"Version": "2012-10-17"}
		}`)
	})

	backend.server = httptest.NewServer(mux)
	t.Cleanup(backend.server.Close)
	t.Setenv("TIVONA_BACKEND_BASE_URL", backend.server.URL+"/api")

	return backend
}

// record stores the request body and reports whether the request should fail.
func (b *fakeBackend) record(r *http.Request) bool {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[r.URL.Path] = body
	b.auth = append(b.auth, r.Header.Get("Authorization"))
	return b.failStream
}

func (b *fakeBackend) failStreams(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failStream = fail
}

func (b *fakeBackend) setStream(stream string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stream = stream
}

func (b *fakeBackend) streamBody() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stream
}

func (b *fakeBackend) body(t *testing.T, path string) map[string]any {
	t.Helper()

	b.mu.Lock()
	raw, ok := b.bodies[path]
	b.mu.Unlock()
	require.True(t, ok, "no request recorded for %s", path)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auth) == 0 {
		return ""
	}
	return b.auth[len(b.auth)-1]
}

func TestAskRendersCompletedDeliberation(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, "ask", "--provider", "aws", "--top-k", "3", "How", "do", "I", "secure", "S3?")
	require.NoError(t, err)

	assert.Contains(t, stdout, "How do I secure S3?")
	assert.Contains(t, stdout, "status: completed")
	assert.Contains(t, stdout, "Analyst")
	assert.Contains(t, stdout, "Block Public Access")
	assert.Contains(t, stdout, "S3 guide")

	request := backend.body(t, "/api/rag/stream/")
	assert.Equal(t, "How do I secure S3?", request["query"])
	assert.Equal(t, "aws", request["provider"])
	assert.EqualValues(t, 3, request["top_k"])
}

func TestAskJSONOutputRoundTripsIntoReport(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, "ask", "--format", "json", "Lock down S3")
	require.NoError(t, err)

	var result struct {
		Status string `json:"status"`
		Result struct {
			Answer  string `json:"answer"`
			Sources []struct {
				Source string `json:"source"`
			} `json:"sources"`
		} `json:"result"`
		Records int `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, "Enable S3 Block Public Access.", result.Result.Answer)
	require.Len(t, result.Result.Sources, 1)
	assert.Equal(t, 4, result.Records)

	saved := filepath.Join(home, "result.json")
	require.NoError(t, os.WriteFile(saved, []byte(stdout), 0o644))
	out := filepath.Join(home, "report.docx")

	reportOut, _, err := executeCLI(t, home, "report", "--from", saved, "--out", out, "--title", "S3 review")
	require.NoError(t, err)
	assert.Contains(t, reportOut, "report written to "+out)

	document, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04docx"), document)

	request := backend.body(t, "/api/doc_download/")
	assert.Equal(t, "S3 review", request["title"])
	assert.Equal(t, "Lock down S3", request["query"])
	assert.Equal(t, "Enable S3 Block Public Access.", request["answer"])
}

func TestAskYAMLOutput(t *testing.T) {
	home := t.TempDir()
	newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, "ask", "--format", "yaml", "Lock down S3")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "completed", result["status"])
}

func TestAskWritesReportAfterCompletion(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)
	out := filepath.Join(home, "answer.docx")

	_, stderr, err := executeCLI(t, home, "ask", "--answer-only", "--report", out, "Lock down S3")
	require.NoError(t, err)
	assert.Contains(t, stderr, "report written to "+out)
	assert.FileExists(t, out)

	request := backend.body(t, "/api/doc_download/")
	assert.Equal(t, "Cloud Security RAG Report", request["title"])
}

func TestAskRejectsUnknownFormat(t *testing.T) {
	home := t.TempDir()
	newFakeBackend(t)

	_, _, err := executeCLI(t, home, "ask", "--format", "xml", "Lock down S3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestAskReturnsErrorWhenBackendRejectsStream(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)
	backend.failStreams(true)

	stdout, _, err := executeCLI(t, home, "ask", "Lock down S3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberation failed")
	assert.Contains(t, err.Error(), "retriever offline")
	assert.Contains(t, stdout, "status: failed")
}

func TestAskReturnsErrorForInBandFailure(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)
	backend.setStream(`{"phase":"Analyst","delta":"Looking"}` + "\n" + `{"error":"model overloaded"}` + "\n")

	stdout, _, err := executeCLI(t, home, "ask", "--format", "json", "Lock down S3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Contains(t, stdout, `"status": "failed"`)
	assert.Contains(t, stdout, "Looking")
}

func TestReportRefusesFailedResult(t *testing.T) {
	home := t.TempDir()
	newFakeBackend(t)

	saved := filepath.Join(home, "failed.json")
	require.NoError(t, os.WriteFile(saved, []byte(`{"status":"failed","result":{"answer":"partial"}}`), 0o644))

	_, _, err := executeCLI(t, home, "report", "--from", saved, "--out", filepath.Join(home, "x.docx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completed answer to report on")
	assert.NoFileExists(t, filepath.Join(home, "x.docx"))
}

func TestIngestSendsDocument(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)

	stdout, _, err := executeCLI(t, home, "ingest",
		"--title", "IAM best practices",
		"--url", "https://docs.aws.amazon.com/iam",
		"--provider", "aws",
		"--version", "2024",
	)
	require.NoError(t, err)
	assert.Equal(t, "Document ingested successfully\n", stdout)

	request := backend.body(t, "/api/documents/")
	assert.Equal(t, "IAM best practices", request["title"])
	assert.Equal(t, "aws", request["provider"])
	assert.Equal(t, "2024", request["version"])
}

func TestPolicyAnalyzeReadsStdin(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)

	stdout, _, err := executeCLIWithInput(t, home,
		strings.NewReader(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"*","Resource":"*"}]}`),
		"policy", "analyze", "--file", "-",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "risk level: high")
	assert.Contains(t, stdout, "1. [high] Wildcard action")
	assert.Contains(t, stdout, "fix: List the actions you need")
	assert.Contains(t, stdout, `"Version": "2012-10-17"`)

	request := backend.body(t, "/api/policies/")
	assert.Equal(t, "aws", request["provider"])
	assert.Contains(t, request, "policy")
}

func TestPolicyAnalyzeRejectsNonObject(t *testing.T) {
	home := t.TempDir()
	newFakeBackend(t)

	policy := filepath.Join(home, "policy.json")
	require.NoError(t, os.WriteFile(policy, []byte(`["not","an","object"]`), 0o644))

	_, _, err := executeCLI(t, home, "policy", "analyze", "--file", policy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy must be a JSON object")
}

func TestConfigSetThenShow(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "config", "set", "query.top_k", "8")
	require.NoError(t, err)
	assert.Equal(t, "query.top_k updated\n", stdout)

	stdout, _, err = executeCLI(t, home, "config", "show", "--format", "json")
	require.NoError(t, err)

	var settings struct {
		Query struct {
			TopK int `json:"top_k"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &settings))
	assert.Equal(t, 8, settings.Query.TopK)

	stdout, _, err = executeCLI(t, home, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "top_k = 8")

	stdout, _, err = executeCLI(t, home, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".tivona", "config.toml")+"\n", stdout)
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "config", "set", "query.temperature", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestAuthSetSendsBearerTokenThenRemove(t *testing.T) {
	home := t.TempDir()
	backend := newFakeBackend(t)

	_, _, err := executeCLI(t, home, "auth", "set", "--token", "tok-abc")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, ".tivona", "secrets", "tivona", "backend", "token"))

	_, _, err = executeCLI(t, home, "ask", "Lock down S3")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", backend.lastAuth())

	_, _, err = executeCLI(t, home, "auth", "remove")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "ask", "Lock down S3")
	require.NoError(t, err)
	assert.Empty(t, backend.lastAuth())
}

func TestAuthSetRequiresToken(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "auth", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is empty")
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "tivona dev ("), stdout)
}

func TestUnknownCommand(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "usage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"usage\"")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, strings.NewReader(""), args...)
}

// executeCLIWithInput runs the root command with HOME pointed at home and an
// empty PATH, so secrets always land in the file store under home.
func executeCLIWithInput(t *testing.T, home string, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("PATH", t.TempDir())

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
