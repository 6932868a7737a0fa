package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/supernovus/opensrs-go/pkg/client"
	"github.com/supernovus/opensrs-go/pkg/dns"
	"github.com/supernovus/opensrs-go/pkg/envelope"
	"github.com/supernovus/opensrs-go/pkg/signature"
	"github.com/supernovus/opensrs-go/pkg/transport"
	"github.com/supernovus/opensrs-go/pkg/wire"
)

const (
	testUser = "reseller"
	testKey  = "0123456789abcdef"
)

// fakeAPI answers lookup, get_dns_zone and set_dns_zone like the real API.
type fakeAPI struct {
	mu       sync.Mutex
	zone     *dns.ZoneRecords
	payloads []wire.Map
}

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	api := &fakeAPI{zone: dns.New(
		dns.Record{Type: dns.TypeA, Subdomain: "www", Address: "192.0.2.1"},
		dns.Record{Type: dns.TypeMX, Priority: 10, Hostname: "mx.example.com"},
	)}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return api, server.URL
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	if r.Header.Get(transport.HeaderUsername) != testUser ||
		!signature.Verify(testKey, string(body), r.Header.Get(transport.HeaderSignature)) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	req, err := envelope.ParseResponse(string(body))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	v, _ := req.Body()
	payload, _ := wire.AsMap(v)
	action, _ := payload.GetString("action")

	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	var reply wire.Map
	switch action {
	case "lookup":
		reply = success(210, "Domain available", wire.Map{{Key: "status", Value: wire.Scalar("available")}})
	case "get_dns_zone":
		reply = success(200, "Command successful", wire.Map{{Key: "records", Value: f.zone.Value()}})
	case "set_dns_zone":
		attrs, _ := req.Attributes()
		m, _ := wire.AsMap(attrs)
		records, _ := m.Get("records")
		if z, err := dns.FromValue(records); err == nil {
			f.zone = z
		}
		reply = success(200, "Command successful", nil)
	default:
		reply = wire.Map{
			{Key: "is_success", Value: wire.Scalar("0")},
			{Key: "response_code", Value: wire.Scalar("400")},
			{Key: "response_text", Value: wire.Scalar("Unknown action " + action)},
		}
	}
	f.mu.Unlock()

	text, _ := envelope.Render(reply)
	_, _ = io.WriteString(w, text)
}

func (f *fakeAPI) lastPayload(t *testing.T) wire.Map {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		t.Fatal("no request received")
	}
	return f.payloads[len(f.payloads)-1]
}

func success(code int, text string, attrs wire.Map) wire.Map {
	m := wire.Map{
		{Key: "is_success", Value: wire.Scalar("1")},
		{Key: "response_code", Value: wire.Scalar(strconv.Itoa(code))},
		{Key: "response_text", Value: wire.Scalar(text)},
	}
	if attrs != nil {
		m = append(m, wire.Pair{Key: "attributes", Value: attrs})
	}
	return m
}

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("OPENSRS_USERNAME", testUser)
	t.Setenv("OPENSRS_API_KEY", testKey)
}

func run(fn func(context.Context, []string, io.Writer, io.Writer) int, args ...string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := fn(context.Background(), args, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunLookup_Available(t *testing.T) {
	setCredentials(t)
	api, url := newFakeAPI(t)

	code, stdout, stderr := run(RunLookup, "-url", url, "example.com")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}
	for _, want := range []string{"Status: OK", "Code:   210", "Text:   Domain available", "status: available"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got:\n%s", want, stdout)
		}
	}

	p := api.lastPayload(t)
	if got := p.Keys(); strings.Join(got, ",") != "protocol,action,object,attributes" {
		t.Errorf("unexpected payload keys: %v", got)
	}
}

func TestRunLookup_JSONOutput(t *testing.T) {
	setCredentials(t)
	_, url := newFakeAPI(t)

	code, stdout, stderr := run(RunLookup, "-url", url, "-format", "json", "example.com")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}

	var out struct {
		Success    bool           `json:"is_success"`
		Code       int            `json:"response_code"`
		Attributes map[string]any `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if !out.Success || out.Code != 210 || out.Attributes["status"] != "available" {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestPrintResponse_APIFailure(t *testing.T) {
	_, url := newFakeAPI(t)

	// The fake API does not implement modify.
	c := client.New(client.Config{Username: testUser, APIKey: testKey, URL: url})
	resp, err := c.Do(context.Background(), "modify", "domain", nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	var buf bytes.Buffer
	if code := printResponse(&buf, resp, "text"); code != exitAPIFailure {
		t.Errorf("expected exit code %d, got %d", exitAPIFailure, code)
	}
	if !strings.Contains(buf.String(), "Status: FAILED") || !strings.Contains(buf.String(), "Unknown action modify") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunLookup_BadSignature(t *testing.T) {
	t.Setenv("OPENSRS_USERNAME", testUser)
	t.Setenv("OPENSRS_API_KEY", "wrong-key")
	_, url := newFakeAPI(t)

	code, _, stderr := run(RunLookup, "-url", url, "example.com")
	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(stderr, "403") {
		t.Errorf("expected HTTP status in stderr, got: %s", stderr)
	}
}

func TestRunLookup_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"no domain", map[string]string{"OPENSRS_USERNAME": testUser, "OPENSRS_API_KEY": testKey}, nil, "expected 1 argument"},
		{"no username", map[string]string{"OPENSRS_USERNAME": "", "OPENSRS_API_KEY": testKey}, []string{"example.com"}, "username is required"},
		{"bad environment", map[string]string{"OPENSRS_USERNAME": testUser, "OPENSRS_API_KEY": testKey}, []string{"-env", "staging", "example.com"}, "staging"},
		{"bad format", map[string]string{"OPENSRS_USERNAME": testUser, "OPENSRS_API_KEY": testKey}, []string{"-format", "xml", "example.com"}, "unknown format"},
		{"bad log level", map[string]string{"OPENSRS_USERNAME": testUser, "OPENSRS_API_KEY": testKey}, []string{"-log-level", "loud", "example.com"}, "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			code, _, stderr := run(RunLookup, tt.args...)
			if code != exitCommandError {
				t.Errorf("expected exit code %d, got %d", exitCommandError, code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("expected %q in stderr, got: %s", tt.want, stderr)
			}
		})
	}
}

func TestRunLookup_Help(t *testing.T) {
	code, _, stderr := run(RunLookup, "-help")
	if code != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, code)
	}
	if !strings.Contains(stderr, "opensrs lookup") {
		t.Errorf("expected usage in stderr, got: %s", stderr)
	}
}

func TestRunLookup_ConfigFileAndProtocolLog(t *testing.T) {
	t.Setenv("OPENSRS_USERNAME", "")
	t.Setenv("OPENSRS_API_KEY", "")
	_, url := newFakeAPI(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "opensrs.yaml")
	logPath := filepath.Join(dir, "client.olog")
	cfg := "username: " + testUser + "\napi_key: " + testKey + "\nurl: " + url + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := run(RunLookup, "-config", cfgPath, "-protocol-log", logPath, "example.com")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("protocol log not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("protocol log is empty")
	}
}

func TestRunLookup_DebugLogsXML(t *testing.T) {
	setCredentials(t)
	_, url := newFakeAPI(t)

	code, _, stderr := run(RunLookup, "-url", url, "-debug", "example.com")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}
	if !strings.Contains(stderr, "level=DEBUG") || !strings.Contains(stderr, "OPS_envelope") {
		t.Errorf("expected debug XML in stderr, got: %s", stderr)
	}
}

func TestZoneRoundTrip(t *testing.T) {
	setCredentials(t)
	api, url := newFakeAPI(t)

	code, stdout, stderr := run(RunGetZone, "-url", url, "-format", "yaml", "example.com")
	if code != exitSuccess {
		t.Fatalf("get-zone: expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}
	if !strings.Contains(stdout, "address: 192.0.2.1") {
		t.Fatalf("unexpected zone output:\n%s", stdout)
	}

	// Edit the zone and write it back.
	var zf ZoneFile
	if err := yaml.Unmarshal([]byte(stdout), &zf); err != nil {
		t.Fatalf("get-zone output is not valid YAML: %v", err)
	}
	if zf.Domain != "example.com" || len(zf.Records) != 2 {
		t.Fatalf("unexpected zone file: %+v", zf)
	}
	zf.Records = append(zf.Records, dns.Record{Type: dns.TypeTXT, Text: "v=spf1 -all"})
	edited, err := yaml.Marshal(zf)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "zone.yaml")
	if err := os.WriteFile(path, edited, 0o600); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr = run(RunSetZone, "-url", url, "example.com", path)
	if code != exitSuccess {
		t.Fatalf("set-zone: expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}
	if !strings.Contains(stdout, "Status: OK") {
		t.Errorf("unexpected set-zone output:\n%s", stdout)
	}

	api.mu.Lock()
	txt := api.zone.ByType(dns.TypeTXT)
	n := api.zone.Len()
	api.mu.Unlock()
	if n != 3 || len(txt) != 1 || txt[0].Text != "v=spf1 -all" {
		t.Errorf("unexpected stored zone: %d records, TXT %v", n, txt)
	}
}

func TestRunGetZone_Text(t *testing.T) {
	setCredentials(t)
	_, url := newFakeAPI(t)

	code, stdout, stderr := run(RunGetZone, "-url", url, "example.com")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}
	for _, want := range []string{"Zone example.com: 2 records", "www", "192.0.2.1", "10 mx.example.com", "@"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got:\n%s", want, stdout)
		}
	}
}

func TestRunSetZone_InvalidFile(t *testing.T) {
	setCredentials(t)
	dir := t.TempDir()

	unsupported := filepath.Join(dir, "caa.yaml")
	if err := os.WriteFile(unsupported, []byte("records:\n  - type: CAA\n    subdomain: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	malformed := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(malformed, []byte("records: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"unsupported type", unsupported, `unsupported type "CAA"`},
		{"malformed", malformed, "failed to parse zone file"},
		{"missing", filepath.Join(dir, "missing.yaml"), "failed to read zone file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(RunSetZone, "-url", "http://127.0.0.1:1", "example.com", tt.path)
			if code != exitCommandError {
				t.Errorf("expected exit code %d, got %d", exitCommandError, code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("expected %q in stderr, got: %s", tt.want, stderr)
			}
		})
	}
}

const payloadYAML = `protocol: XCP
action: get
object: domain
attributes:
  type: all_info
  domain: example.com
  limits: &l [10, 20]
  again: *l
`

func TestRunRequest_SendsInFileOrder(t *testing.T) {
	setCredentials(t)
	api, url := newFakeAPI(t)

	path := filepath.Join(t.TempDir(), "payload.yaml")
	if err := os.WriteFile(path, []byte(payloadYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	code, _, _ := run(RunRequest, "-url", url, path)
	// "get" is not implemented by the fake API.
	if code != exitAPIFailure {
		t.Errorf("expected exit code %d, got %d", exitAPIFailure, code)
	}

	p := api.lastPayload(t)
	attrs, _ := p.Get("attributes")
	m, ok := wire.AsMap(attrs)
	if !ok {
		t.Fatalf("attributes not a map: %v", attrs)
	}
	if got := strings.Join(m.Keys(), ","); got != "type,domain,limits,again" {
		t.Errorf("attribute order = %s", got)
	}
	again, _ := m.Get("again")
	if !wire.Equal(again, wire.List{wire.Scalar("10"), wire.Scalar("20")}) {
		t.Errorf("alias not resolved: %v", again)
	}
}

func TestRunRequest_DryRun(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "payload.yaml")
	if err := os.WriteFile(path, []byte(payloadYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := run(RunRequest, "-dry-run", path)
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d (stderr: %s)", exitSuccess, code, stderr)
	}

	head, body, ok := strings.Cut(stdout, "\n\n")
	if !ok {
		t.Fatalf("expected headers and body, got:\n%s", stdout)
	}
	if !strings.Contains(head, "X-Username: "+testUser) {
		t.Errorf("missing username header:\n%s", head)
	}
	if !strings.Contains(head, "X-Signature: "+signature.Sign(testKey, body)) {
		t.Errorf("signature does not match body:\n%s", head)
	}
	if !strings.HasPrefix(body, "<?xml") || !strings.Contains(body, `<item key="domain">example.com</item>`) {
		t.Errorf("unexpected body:\n%s", body)
	}
}

func TestParsePayload(t *testing.T) {
	v, err := parsePayload([]byte("b: 1\na: [x, y]\n"))
	if err != nil {
		t.Fatalf("parsePayload failed: %v", err)
	}
	want := wire.Map{
		{Key: "b", Value: wire.Scalar("1")},
		{Key: "a", Value: wire.List{wire.Scalar("x"), wire.Scalar("y")}},
	}
	m, _ := wire.AsMap(v)
	if !wire.Equal(v, want) || strings.Join(m.Keys(), ",") != "b,a" {
		t.Errorf("parsePayload = %v, want %v", v, want)
	}

	errs := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "payload is empty"},
		{"null", "a:\n  b: null\n", "a.b"},
		{"invalid", "a: [", "failed to parse payload"},
		{"self alias", "a: &x [1, *x]\n", "refers to itself"},
		{"nested self alias", "a: &x\n  b: [*x]\n", "refers to itself"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePayload([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParsePayloadClassifiesMappings(t *testing.T) {
	tests := []struct {
		name string
		data string
		want wire.Value
	}{
		{"index keys", "{0: a, 1: b}", wire.List{wire.Scalar("a"), wire.Scalar("b")}},
		{"sparse keys", "{0: a, 2: b}", wire.Map{
			{Key: "0", Value: wire.Scalar("a")},
			{Key: "2", Value: wire.Scalar("b")},
		}},
		{"empty", "{}", wire.List{}},
		{"nested empty", "attributes: {}", wire.Map{{Key: "attributes", Value: wire.List{}}}},
		{"repeated alias", "a: &x [1]\nb: *x\n", wire.Map{
			{Key: "a", Value: wire.List{wire.Scalar("1")}},
			{Key: "b", Value: wire.List{wire.Scalar("1")}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parsePayload([]byte(tt.data))
			if err != nil {
				t.Fatalf("parsePayload failed: %v", err)
			}
			if v.Kind() != tt.want.Kind() || !wire.Equal(v, tt.want) {
				t.Errorf("parsePayload = %#v, want %#v", v, tt.want)
			}
		})
	}
}

func TestRunSign(t *testing.T) {
	t.Setenv("OPENSRS_API_KEY", "")
	body := "<?xml version='1.0'?><OPS_envelope/>"
	sig := signature.Sign(testKey, body)

	tests := []struct {
		name string
		args []string
		code int
		out  string
		err  string
	}{
		{"sign stdin", []string{"-key", testKey}, exitSuccess, sig + "\n", ""},
		{"sign dash", []string{"-key", testKey, "-"}, exitSuccess, sig + "\n", ""},
		{"verify valid", []string{"-key", testKey, "-verify", sig}, exitSuccess, "valid\n", ""},
		{"verify invalid", []string{"-key", testKey, "-verify", strings.Repeat("0", 32)}, exitAPIFailure, "invalid\n", ""},
		{"no key", nil, exitCommandError, "", "no API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			code := RunSign(tt.args, strings.NewReader(body), stdout, stderr)
			if code != tt.code {
				t.Errorf("expected exit code %d, got %d (stderr: %s)", tt.code, code, stderr.String())
			}
			if stdout.String() != tt.out {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.out)
			}
			if tt.err != "" && !strings.Contains(stderr.String(), tt.err) {
				t.Errorf("expected %q in stderr, got: %s", tt.err, stderr.String())
			}
		})
	}
}

func TestRunSign_KeyFromEnvironmentAndFile(t *testing.T) {
	t.Setenv("OPENSRS_API_KEY", testKey)
	path := filepath.Join(t.TempDir(), "body.xml")
	if err := os.WriteFile(path, []byte("<x/>"), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout := &bytes.Buffer{}
	code := RunSign([]string{path}, strings.NewReader("ignored"), stdout, io.Discard)
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}
	if got := strings.TrimSpace(stdout.String()); got != signature.Sign(testKey, "<x/>") {
		t.Errorf("signature = %s", got)
	}
}
