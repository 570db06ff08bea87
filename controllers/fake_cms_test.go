package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/utils"
	"github.com/princinho/catalogsite/views"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type cmsCall struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   string
}

type cannedResponse struct {
	status int
	body   string
}

// fakeCMS answers item requests with canned bodies keyed by method and path.
type fakeCMS struct {
	mu     sync.Mutex
	calls  []cmsCall
	routes map[string]cannedResponse
	server *httptest.Server
}

func newFakeCMS(t *testing.T) *fakeCMS {
	t.Helper()
	f := &fakeCMS{routes: map[string]cannedResponse{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, cmsCall{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		res, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(res.status)
		_, _ = io.WriteString(w, res.body)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCMS) respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = cannedResponse{status: status, body: body}
}

func (f *fakeCMS) callsTo(method, path string) []cmsCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []cmsCall
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

type testApp struct {
	fake   *fakeCMS
	router *gin.Engine
}

func newTestApp(t *testing.T, admin config.AdminConfig, readToken string) *testApp {
	t.Helper()
	fake := newFakeCMS(t)
	dcfg := config.DirectusConfig{URL: fake.server.URL, Timeout: 5 * time.Second, ReadToken: readToken}
	client := cms.NewClient(dcfg)

	r := gin.New()
	r.SetHTMLTemplate(views.MustTemplates())
	Register(r, Deps{
		Site: Site{
			Catalog: cms.NewCatalog(client, nil, dcfg),
			WhatsApp: utils.NewWhatsApp(config.WhatsAppConfig{
				Lines: []config.WhatsAppLine{{Number: "5491100000000", Label: "Ventas"}},
			}),
		},
		Quotes:  cms.NewQuotes(client, readToken),
		Admin:   admin,
		SiteURL: "https://example.com",
	})
	return &testApp{fake: fake, router: r}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

const (
	categoriesBody = `{"data":[{"id":1,"name":"Camperas","slug":"camperas"},{"id":2,"name":"Pantalones","slug":"pantalones"}]}`
	productsBody   = `{"data":[
		{"id":1,"name":"Campera Alpina","slug":"campera-alpina","is_active":true,"price":"1234567",
		 "category":{"id":1,"name":"Camperas","slug":"camperas"},
		 "images":[{"directus_files_id":{"id":"img-a"}}],"ficha_tecnica":"sheet-a",
		 "caracteristicas":"Impermeable\nForro polar"},
		{"id":2,"name":"Pantalón Cargo","slug":"pantalon-cargo","is_active":true,
		 "category":{"id":2,"name":"Pantalones","slug":"pantalones"},"images":[]}
	]}`
)
