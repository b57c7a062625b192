package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meterocr/internal/server/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type fakeExtractHandler struct {
	called bool
}

func (f *fakeExtractHandler) HandleExtract(c *gin.Context) {
	f.called = true
	c.Status(http.StatusAccepted)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNew_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := New(quietLogger(), &fakeExtractHandler{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("unexpected body: %s", body)
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
}

func TestNew_ExtractHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fakeHandler := &fakeExtractHandler{}
	router := New(quietLogger(), fakeHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, ExtractPath, nil)
	router.ServeHTTP(w, req)

	if !fakeHandler.called {
		t.Fatal("expected extract handler to be invoked")
	}
	if w.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestNew_ExtractMethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, method := range []string{
		http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch,
		http.MethodTrace, http.MethodConnect, "PROPFIND", "MKCOL",
	} {
		fakeHandler := &fakeExtractHandler{}
		router := New(quietLogger(), fakeHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, ExtractPath, nil))

		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405 got %d", method, w.Code)
		}
		if allow := w.Header().Get("Allow"); allow != http.MethodPost {
			t.Fatalf("%s: expected Allow: POST, got %q", method, allow)
		}
		if fakeHandler.called {
			t.Fatalf("%s: handler should not be called", method)
		}
	}
}

func TestNew_HealthzWrongMethod(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := New(quietLogger(), &fakeExtractHandler{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow == http.MethodPost {
		t.Fatalf("healthz must not advertise POST, got %q", allow)
	}
}

func TestNew_IndexPage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := New(quietLogger(), &fakeExtractHandler{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<form") {
		t.Fatalf("expected form in page: %s", w.Body.String())
	}
}
