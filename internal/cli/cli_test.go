package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"
)

type backendRequest struct {
	path string
	form url.Values
}

// fakeBackend answers POSTs with canned JSON per path (default: success) and records them.
type fakeBackend struct {
	srv *httptest.Server

	mu       sync.Mutex
	replies  map[string]string
	requests []backendRequest
}

func newFakeBackend(t *testing.T, replies map[string]string) *fakeBackend {
	t.Helper()
	b := &fakeBackend{replies: replies}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = r.ParseForm()
		b.mu.Lock()
		b.requests = append(b.requests, backendRequest{path: r.URL.Path, form: r.PostForm})
		body, ok := b.replies[r.URL.Path]
		b.mu.Unlock()
		if !ok {
			body = `{"success": true}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) calls() []backendRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]backendRequest(nil), b.requests...)
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type harness struct {
	backend *fakeBackend
	dir     string
}

func newHarness(t *testing.T, replies map[string]string) *harness {
	t.Helper()
	return &harness{backend: newFakeBackend(t, replies), dir: t.TempDir()}
}

// run invokes the CLI against the fake backend and decodes the data envelope.
func (h *harness) run(t *testing.T, args ...string) map[string]any {
	t.Helper()
	full := append([]string{"--base-url", h.backend.srv.URL, "--dir", h.dir}, args...)
	out, stderr, err := runCLI(t, full)
	if err != nil {
		t.Fatalf("casedesk %v: %v\nstderr: %s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data envelope: %s", out)
	}
	return data
}

func (h *harness) runErr(t *testing.T, args ...string) (stderr string, err error) {
	t.Helper()
	full := append([]string{"--base-url", h.backend.srv.URL, "--dir", h.dir}, args...)
	_, se, err := runCLI(t, full)
	return string(se), err
}

func TestCaseSet_PersistsAcrossInvocations(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{"/setcaseid/": `{"success": true, "is_set": true}`})
	data := h.run(t, "case", "set", "1842", "--cause-number", "2019-CI-42", "--description", "Smith v. Jones")

	if data["reloaded"] != true {
		t.Fatalf("expected reloaded; got %v", data)
	}
	calls := h.backend.calls()
	if len(calls) != 1 || calls[0].path != "/setcaseid/" || calls[0].form.Get("_id") != "1842" {
		t.Fatalf("calls = %+v", calls)
	}

	shown := h.run(t, "case", "show")
	want := map[string]any{"id": "1842", "causeNumber": "2019-CI-42", "description": "Smith v. Jones"}
	if !reflect.DeepEqual(shown["case"], want) || shown["set"] != true {
		t.Fatalf("case show = %v", shown)
	}
	if len(h.backend.calls()) != 1 {
		t.Fatalf("case show should not call the backend")
	}
}

func TestCaseShow_StorageDump(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.run(t, "case", "set", "C5", "--cause-number", "CN-5")

	shown := h.run(t, "case", "show", "--storage")
	if shown["origin"] != h.backend.srv.URL {
		t.Fatalf("origin = %v, want %s", shown["origin"], h.backend.srv.URL)
	}
	want := map[string]any{"case_id": "C5", "cause_number": "CN-5", "case_description": ""}
	if !reflect.DeepEqual(shown["storage"], want) {
		t.Fatalf("storage = %#v, want %#v", shown["storage"], want)
	}

	if plain := h.run(t, "case", "show"); plain["storage"] != nil {
		t.Fatalf("storage dumped without --storage: %v", plain)
	}
}

func TestCaseItemCategoryCompletion(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, []string{"__complete", "case", "item", "add", "--category", "PROPERTY:"})
	if err != nil {
		t.Fatalf("__complete: %v", err)
	}
	got := string(out)
	for _, c := range []string{"PROPERTY:BANK_ACCOUNT", "PROPERTY:REAL", "PROPERTY:VEHICLE"} {
		if !strings.Contains(got, c+"\n") {
			t.Fatalf("completion missing %s:\n%s", c, got)
		}
	}

	out, _, err = runCLI(t, []string{"__complete", "case", "item", "update", "--category", "property:v"})
	if err != nil {
		t.Fatalf("__complete: %v", err)
	}
	if got := string(out); !strings.Contains(got, "PROPERTY:VEHICLE") || strings.Contains(got, "PROPERTY:REAL") {
		t.Fatalf("filtered completion:\n%s", got)
	}
}

func TestCaseClear_PostsSentinel(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.run(t, "case", "set", "1842")
	data := h.run(t, "case", "clear")

	calls := h.backend.calls()
	last := calls[len(calls)-1]
	if last.path != "/clearcaseid/" || last.form.Get("_id") != "none" {
		t.Fatalf("clear posted %s %v", last.path, last.form)
	}
	if c := data["case"].(map[string]any); c["id"] != "" {
		t.Fatalf("case not cleared: %v", c)
	}
}

func TestCaseSet_RejectedLeavesStateAlone(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.run(t, "case", "set", "1842")

	h.backend.mu.Lock()
	h.backend.replies = map[string]string{"/setcaseid/": `{"success": false, "message": "no such case"}`}
	h.backend.mu.Unlock()

	stderr, err := h.runErr(t, "case", "set", "9999")
	if err == nil || !strings.Contains(stderr, "no such case") {
		t.Fatalf("expected rejection on stderr; err=%v stderr=%q", err, stderr)
	}
	if !strings.Contains(stderr, `response=`) {
		t.Fatalf("expected the backend reply in the warning log; stderr=%q", stderr)
	}

	shown := h.run(t, "case", "show")
	if c := shown["case"].(map[string]any); c["id"] != "1842" {
		t.Fatalf("case changed after rejection: %v", c)
	}
}

func TestVehicleAdd_SendsItemPayload(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.run(t, "case", "set", "C7")
	data := h.run(t, "vehicle", "add", "--db", "tx", "--ed", "2019", "--rec", "88812")

	if data["key"] != "PUBLICDATA:tx.2019.88812" || data["reloaded"] != true {
		t.Fatalf("data = %v", data)
	}
	calls := h.backend.calls()
	got := calls[len(calls)-1]
	want := url.Values{
		"db":       {"tx"},
		"ed":       {"2019"},
		"rec":      {"88812"},
		"case_id":  {"C7"},
		"category": {"PROPERTY:VEHICLE"},
		"key":      {"PUBLICDATA:tx.2019.88812"},
	}
	if got.path != "/case/add_item/" || !reflect.DeepEqual(got.form, want) {
		t.Fatalf("posted %s %v\nwant /case/add_item/ %v", got.path, got.form, want)
	}
}

func TestCaseItemUpdate_InvalidOpFailsLocally(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	stderr, err := h.runErr(t, "case", "item", "update", "--category", "PROPERTY:REAL", "--db", "a", "--ed", "b", "--rec", "c", "--op", "toggle")
	if err == nil || !strings.Contains(stderr, "invalid operation") {
		t.Fatalf("err=%v stderr=%q", err, stderr)
	}
	if n := len(h.backend.calls()); n != 0 {
		t.Fatalf("expected no backend calls; got %d", n)
	}
}

func TestCaseItemUpdate_Includes(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	data := h.run(t, "case", "item", "update", "--category", "PROPERTY:BANK_ACCOUNT", "--db", "a", "--ed", "b", "--rec", "c", "--op", "ADD", "--description", "checking")
	if data["op"] != "add" {
		t.Fatalf("data = %v", data)
	}
	got := h.backend.calls()[0]
	if got.path != "/case/update_items/" || got.form.Get("op") != "add" || got.form.Get("description") != "checking" {
		t.Fatalf("posted %s %v", got.path, got.form)
	}
}

func TestCaseItems_ReportsLocation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	data := h.run(t, "case", "items")
	if data["location"] != h.backend.srv.URL+"/case/items/" {
		t.Fatalf("location = %v", data["location"])
	}
	if len(h.backend.calls()) != 0 {
		t.Fatalf("navigation should not POST")
	}
}

func TestObjectionText_NoLabelsIsLocal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	data := h.run(t, "objection", "text")
	if data["local"] != true || data["message"] != "No objections selected." {
		t.Fatalf("data = %v", data)
	}
	if len(h.backend.calls()) != 0 {
		t.Fatalf("expected no backend calls")
	}
}

func TestResponseText_PostsLabelsAndRenders(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{
		"/response/text": `{"success": true, "message": "2 found", "responses": [{"label": "deny", "text": "Denied."}, {"label": "admit", "text": "Admitted."}]}`,
	})
	data := h.run(t, "response", "text", "deny", "admit", "--request", "3", "--render")

	got := h.backend.calls()[0]
	if got.path != "/response/text" || !reflect.DeepEqual(got.form["objections[]"], []string{"deny", "admit"}) {
		t.Fatalf("posted %s %v", got.path, got.form)
	}
	entries, _ := data["entries"].([]any)
	if len(entries) != 2 || data["request_number"] != float64(3) || data["message"] != "2 found" {
		t.Fatalf("data = %v", data)
	}
	rendered, _ := data["rendered"].(string)
	if !strings.Contains(rendered, "Denied.") || !strings.Contains(rendered, "admit") {
		t.Fatalf("rendered = %q", rendered)
	}
}

func TestObjectionList_And_Delete(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{
		"/objection/list": `{"success": true, "objections": [{"label": "vague", "text": ""}]}`,
	})
	data := h.run(t, "objection", "list", "--type", "interrogatories")
	if entries, _ := data["entries"].([]any); len(entries) != 1 {
		t.Fatalf("entries = %v", data["entries"])
	}
	h.run(t, "objection", "delete", "T9")

	calls := h.backend.calls()
	if calls[0].form.Get("type") != "interrogatories" {
		t.Fatalf("list form = %v", calls[0].form)
	}
	if calls[1].path != "/objection/template/delete" || calls[1].form.Get("id") != "T9" {
		t.Fatalf("delete posted %s %v", calls[1].path, calls[1].form)
	}
}

func TestAttorneyFind(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{
		"/attorney/find/24001234": `{"success": true, "name": "A. Lawyer"}`,
	})
	data := h.run(t, "attorney", "find", "24001234")
	a, _ := data["attorney"].(map[string]any)
	if a["name"] != "A. Lawyer" {
		t.Fatalf("attorney = %v", data["attorney"])
	}
}

func TestDiscoveryCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.run(t, "discovery", "request", "save", "--id", "D1", "--request-number", "2", "--request-text", "State all facts.")
	h.run(t, "discovery", "request", "delete", "--id", "D1", "--request-number", "2")
	h.run(t, "discovery", "document", "cleaned", "DOC1", "--value", "true")
	h.run(t, "discovery", "document", "set-field", "DOC1", "--key", "bates", "--value", "ABC-001")
	h.run(t, "discovery", "document", "delete", "DOC1")

	want := []backendRequest{
		{"/discovery/request/save", url.Values{"id": {"D1"}, "request_number": {"2"}, "request_text": {"State all facts."}, "response_text": {""}}},
		{"/discovery/request/delete", url.Values{"id": {"D1"}, "request_number": {"2"}}},
		{"/discovery/document/set_cleaned_flag", url.Values{"id": {"DOC1"}, "value": {"1"}}},
		{"/discovery/document/set_field", url.Values{"id": {"DOC1"}, "key": {"bates"}, "value": {"ABC-001"}}},
		{"/discovery/document/delete", url.Values{"id": {"DOC1"}}},
	}
	if got := h.backend.calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestDiscoveryCleaned_BadValue(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if _, err := h.runErr(t, "discovery", "document", "cleaned", "DOC1", "--value", "maybe"); err == nil {
		t.Fatalf("expected error")
	}
	if len(h.backend.calls()) != 0 {
		t.Fatalf("expected no backend calls")
	}
}

func TestEventsFire_DispatchesThroughView(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	data := h.run(t, "events", "fire", "setCase", "id=C2", "data-cause-number=2020-1")
	if c := data["case"].(map[string]any); c["id"] != "C2" || c["causeNumber"] != "2020-1" {
		t.Fatalf("case = %v", c)
	}

	if _, err := h.runErr(t, "events", "fire", "explode"); err == nil {
		t.Fatalf("expected unknown event error")
	}

	list := h.run(t, "events", "list")
	if evs, _ := list["events"].([]any); len(evs) != 10 {
		t.Fatalf("events = %v", list["events"])
	}
}

func TestFormatText(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	full := []string{"--base-url", h.backend.srv.URL, "--dir", h.dir, "--format", "text", "case", "show"}
	out, _, err := runCLI(t, full)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "data.set: false\n") {
		t.Fatalf("text output = %q", out)
	}
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	got, err := parseTarget([]string{"id=C1", "data-op=add", "description=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"data-id": "C1", "data-op": "add", "data-description": "a=b"}
	if !reflect.DeepEqual(map[string]string(got), want) {
		t.Fatalf("got %v", got)
	}
	if _, err := parseTarget([]string{"novalue"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDocs(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, []string{"docs"})
	if err != nil {
		t.Fatal(err)
	}
	var env struct {
		Data struct {
			Topics []string `json:"topics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(env.Data.Topics, []string{"backend", "events", "state"}) {
		t.Fatalf("topics = %v", env.Data.Topics)
	}

	raw, _, err := runCLI(t, []string{"docs", "events", "--raw"})
	if err != nil || !strings.HasPrefix(string(raw), "# Events") {
		t.Fatalf("raw docs: %v %q", err, raw)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
