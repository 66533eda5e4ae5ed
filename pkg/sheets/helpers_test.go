package sheets

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const testAccessToken = "non_changing_token"

// staticAuth is an AuthorizationSource with a fixed bearer token.
type staticAuth struct{}

func (staticAuth) AuthorizationHeader(_ context.Context, extra http.Header) (http.Header, error) {
	h := extra.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Authorization", "Bearer "+testAccessToken)
	return h, nil
}

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type fakeResponse struct {
	status int
	body   string
}

// fakeService is an httptest server answering canned responses by
// "METHOD path" and recording every request it receives. Unknown routes
// answer 404.
type fakeService struct {
	server *httptest.Server
	base   string

	mu       sync.Mutex
	routes   map[string]fakeResponse
	handlers map[string]http.HandlerFunc
	requests []recordedRequest
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{
		routes:   map[string]fakeResponse{},
		handlers: map[string]http.HandlerFunc{},
	}
	f.server = httptest.NewServer(f)
	f.base = f.server.URL
	SetCustomEndpoints(f.base+"/o/oauth2/auth", f.base+"/token", f.base+"/feeds/")
	t.Cleanup(func() {
		f.server.Close()
		SetCustomEndpoints("", "", "")
	})
	return f
}

func (f *fakeService) respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fakeResponse{status: status, body: body}
}

func (f *fakeService) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	h, hasHandler := f.handlers[key]
	res, hasRoute := f.routes[key]
	f.mu.Unlock()

	if hasHandler {
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		h(w, r)
		return
	}
	if !hasRoute {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", ContentTypeAtom)
	w.WriteHeader(res.status)
	_, _ = w.Write([]byte(res.body))
}

func (f *fakeService) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeService) requestsTo(method, path string) []recordedRequest {
	var out []recordedRequest
	for _, r := range f.recorded() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeService) client() *Client {
	return NewClient(f.server.Client(), staticAuth{}, nil)
}

// Paths of the resources served for a worksheet "od6" of spreadsheet key.

func spreadsheetPath(key string) string { return "/feeds/spreadsheets/private/full/" + key }
func worksheetsPath(key string) string  { return "/feeds/worksheets/" + key + "/private/full" }
func worksheetPath(key string) string   { return worksheetsPath(key) + "/od6" }
func worksheetEditPath(key string) string {
	return worksheetPath(key) + "/CCCC"
}
func cellsPath(key string) string { return "/feeds/cells/" + key + "/od6/private/full" }

func spreadsheetEntryXML(base, key, title string) string {
	return fmt.Sprintf(`<ns0:entry xmlns:ns0="http://www.w3.org/2005/Atom">`+
		`<ns0:id>%[1]s/feeds/spreadsheets/private/full/%[2]s</ns0:id>`+
		`<ns0:updated>2015-07-18T05:29:31.140Z</ns0:updated>`+
		`<ns0:category scheme="http://schemas.google.com/spreadsheets/2006" term="http://schemas.google.com/spreadsheets/2006#spreadsheet" />`+
		`<ns0:title type="text">%[3]s</ns0:title>`+
		`<ns0:content type="text">%[3]s</ns0:content>`+
		`<ns0:link href="%[1]s/feeds/worksheets/%[2]s/private/full" rel="http://schemas.google.com/spreadsheets/2006#worksheetsfeed" type="application/atom+xml" />`+
		`<ns0:link href="https://docs.google.com/spreadsheets/d/%[2]s/edit" rel="alternate" type="text/html" />`+
		`<ns0:link href="%[1]s/feeds/spreadsheets/private/full/%[2]s" rel="self" type="application/atom+xml" />`+
		`<ns0:author><ns0:name>fake</ns0:name><ns0:email>fake@example.com</ns0:email></ns0:author>`+
		`</ns0:entry>`, base, key, title)
}

func worksheetEntryXML(base, key, title string, rows, cols int) string {
	return fmt.Sprintf(`<entry xmlns='http://www.w3.org/2005/Atom' xmlns:gs='http://schemas.google.com/spreadsheets/2006'>`+
		`<id>%[1]s/feeds/worksheets/%[2]s/private/full/od6</id>`+
		`<updated>2015-07-18T05:29:31.112Z</updated>`+
		`<category scheme='http://schemas.google.com/spreadsheets/2006' term='http://schemas.google.com/spreadsheets/2006#worksheet'/>`+
		`<title type='text'>%[3]s</title>`+
		`<content type='text'>%[3]s</content>`+
		`<link rel='http://schemas.google.com/spreadsheets/2006#listfeed' type='application/atom+xml' href='%[1]s/feeds/list/%[2]s/od6/private/full'/>`+
		`<link rel='http://schemas.google.com/spreadsheets/2006#cellsfeed' type='application/atom+xml' href='%[1]s/feeds/cells/%[2]s/od6/private/full'/>`+
		`<link rel='http://schemas.google.com/spreadsheets/2006#exportcsv' type='text/csv' href='https://docs.google.com/spreadsheets/d/%[2]s/export?gid=0&amp;format=csv'/>`+
		`<link rel='self' type='application/atom+xml' href='%[1]s/feeds/worksheets/%[2]s/private/full/od6'/>`+
		`<link rel='edit' type='application/atom+xml' href='%[1]s/feeds/worksheets/%[2]s/private/full/od6/CCCC'/>`+
		`<gs:colCount>%[5]d</gs:colCount>`+
		`<gs:rowCount>%[4]d</gs:rowCount>`+
		`</entry>`, base, key, title, rows, cols)
}

func worksheetsFeedXML(base, key string, entries ...string) string {
	return fmt.Sprintf(`<?xml version='1.0' encoding='UTF-8'?>`+
		`<feed xmlns='http://www.w3.org/2005/Atom' xmlns:openSearch='http://a9.com/-/spec/opensearchrss/1.0/' xmlns:gs='http://schemas.google.com/spreadsheets/2006'>`+
		`<id>%[1]s/feeds/worksheets/%[2]s/private/full</id>`+
		`<title type='text'>title</title>`+
		`<link rel='alternate' type='application/atom+xml' href='https://docs.google.com/spreadsheets/d/%[2]s/edit'/>`+
		`<link rel='self' type='application/atom+xml' href='%[1]s/feeds/worksheets/%[2]s/private/full'/>`+
		`<openSearch:totalResults>%[3]d</openSearch:totalResults>`+
		`%[4]s`+
		`</feed>`, base, key, len(entries), strings.Join(entries, ""))
}

type cellFixture struct {
	row, col int
	input    string
	value    string
}

func cellsFeedXML(base, key string, cells ...cellFixture) string {
	var entries strings.Builder
	for _, c := range cells {
		fmt.Fprintf(&entries, `<entry>`+
			`<id>%[1]s/feeds/cells/%[2]s/od6/private/full/R%[3]dC%[4]d</id>`+
			`<title type='text'>R%[3]dC%[4]d</title>`+
			`<link rel='self' type='application/atom+xml' href='%[1]s/feeds/cells/%[2]s/od6/private/full/R%[3]dC%[4]d'/>`+
			`<gs:cell row='%[3]d' col='%[4]d' inputValue='%[5]s'>%[6]s</gs:cell>`+
			`</entry>`, base, key, c.row, c.col, xmlEscape(c.input), xmlEscape(c.value))
	}
	return fmt.Sprintf(`<?xml version='1.0' encoding='UTF-8'?>`+
		`<feed xmlns='http://www.w3.org/2005/Atom' xmlns:gs='http://schemas.google.com/spreadsheets/2006' xmlns:batch='http://schemas.google.com/gdata/batch'>`+
		`<id>%[1]s/feeds/cells/%[2]s/od6/private/full</id>`+
		`<title type='text'>Sheet1</title>`+
		`%[3]s`+
		`</feed>`, base, key, entries.String())
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func intPtr(n int) *int { return &n }
