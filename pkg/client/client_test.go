package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const formPayload = `{
  "message": "ok",
  "form": {
    "formTitle": "Student Form",
    "formId": "f-1",
    "version": "2",
    "sections": [
      {"sectionId": 1, "title": "About", "description": "d", "fields": [
        {"fieldId": "name", "type": "text", "label": "Name", "required": true}
      ]}
    ]
  }
}`

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCreateUser(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		want    client.CreateUserResult
		wantErr bool
	}{
		{
			name:   "created",
			status: http.StatusCreated,
			body:   `{"message":"Welcome"}`,
			want:   client.CreateUserResult{Success: true, Message: "Welcome"},
		},
		{
			name:   "created without message",
			status: http.StatusOK,
			body:   `{}`,
			want:   client.CreateUserResult{Success: true, Message: "User created successfully"},
		},
		{
			name:   "conflict is success",
			status: http.StatusConflict,
			body:   `not json`,
			want:   client.CreateUserResult{Success: true, Existed: true, Message: "User already exists"},
		},
		{
			name:    "rejected",
			status:  http.StatusBadRequest,
			body:    `{"message":"Roll number taken"}`,
			want:    client.CreateUserResult{Message: "Roll number taken"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got client.User
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/create-user" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("unexpected content type %q", ct)
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			c := client.New(client.WithBaseURL(srv.URL+"/"), client.WithHTTPClient(srv.Client()))
			result, err := c.CreateUser(context.Background(), client.User{RollNumber: "R1", Name: "Alice"})
			if tc.wantErr {
				if !errors.Is(err, client.ErrCreateUser) {
					t.Fatalf("expected ErrCreateUser, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("create user: %v", err)
			}
			if diff := cmp.Diff(tc.want, result); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(client.User{RollNumber: "R1", Name: "Alice"}, got); diff != "" {
				t.Fatalf("request body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateUserTransportFailure(t *testing.T) {
	logger := &recordingLogger{}
	c := client.New(client.WithBaseURL("http://127.0.0.1:1"), client.WithLogger(logger), client.WithTimeout(time.Second))

	result, err := c.CreateUser(context.Background(), client.User{RollNumber: "R1", Name: "A"})
	if !errors.Is(err, client.ErrCreateUser) {
		t.Fatalf("expected ErrCreateUser, got %v", err)
	}
	if result.Success || result.Message != "Failed to create user. Please try again." {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(logger.lines) == 0 {
		t.Fatalf("expected transport failure to be logged")
	}
}

func TestFetchForm(t *testing.T) {
	var gotQuery string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get-form" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("rollNumber")
		_, _ = w.Write([]byte(formPayload))
	})

	c := client.New(client.WithBaseURL(srv.URL), client.WithHTTPClient(srv.Client()))
	form, err := c.FetchForm(context.Background(), "R 1&x")
	if err != nil {
		t.Fatalf("fetch form: %v", err)
	}
	if gotQuery != "R 1&x" {
		t.Fatalf("roll number not escaped properly, server saw %q", gotQuery)
	}
	if form.Title != "Student Form" || len(form.Sections) != 1 || form.Sections[0].ID != "1" {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestFetchFormFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"form":`))
		},
		"no sections": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"form":{"formTitle":"x","sections":[]}}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, handler)
			logger := &recordingLogger{}
			c := client.New(client.WithBaseURL(srv.URL), client.WithHTTPClient(srv.Client()), client.WithLogger(logger))

			if _, err := c.FetchForm(context.Background(), "R1"); !errors.Is(err, wizard.ErrSchemaUnavailable) {
				t.Fatalf("expected ErrSchemaUnavailable, got %v", err)
			}
		})
	}
}
