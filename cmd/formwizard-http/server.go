package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/mux"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	sectionField = "section"
	actionField  = "action"

	messageStaleSection = "The form changed since this page was loaded. Please review this section."
	messageLoginFailed  = "Login failed"
)

// submitterFactory builds the submission collaborator once the form and user
// are known.
type submitterFactory func(form model.FormSchema, user client.User) (wizard.Submitter, error)

// wizardServer serves one wizard session at a time. Multi-user coordination is
// out of scope; a new login replaces the current session.
type wizardServer struct {
	svc          session.Service
	renderer     *html.Renderer
	registry     *render.Registry
	theme        *theme.RendererConfig
	newSubmitter submitterFactory

	mu      sync.Mutex
	current *session.Session
	flash   render.Flash
}

func newWizardServer(svc session.Service, renderer *html.Renderer, themeCfg *theme.RendererConfig, factory submitterFactory) *wizardServer {
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	return &wizardServer{
		svc:          svc,
		renderer:     renderer,
		registry:     registry,
		theme:        themeCfg,
		newSubmitter: factory,
	}
}

func (s *wizardServer) routes() *mux.Router {
	router := new(mux.Router)
	router.PathPrefix("/assets/").Handler(http.FileServer(http.FS(html.AssetsFS()))).Methods("GET", "HEAD")
	router.HandleFunc("/", s.handleIndex).Methods("GET", "HEAD")
	router.HandleFunc("/login", s.redirectHome).Methods("GET")
	router.HandleFunc("/login", s.handleLogin).Methods("POST")
	router.HandleFunc("/step", s.redirectHome).Methods("GET")
	router.HandleFunc("/step", s.handleStep).Methods("POST")
	router.HandleFunc("/logout", s.handleLogout).Methods("POST")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
	return router
}

func (s *wizardServer) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *wizardServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flash := s.takeFlash()
	if s.current == nil {
		s.writeLogin(r.Context(), w, http.StatusOK, html.Login{}, flash)
		return
	}

	c := s.current.Wizard
	output, contentType, err := s.registry.Render(r.Context(), s.renderer.Name(), render.NewStep(c), render.RenderOptions{
		Action: "/step",
		Hidden: []render.HiddenField{render.Hidden(sectionField, c.Index())},
		Flash:  flash,
		Theme:  s.theme,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("render step: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(output); err != nil {
		log.Printf("write response: %v", err)
	}
}

func (s *wizardServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("parse form: %v", err), http.StatusBadRequest)
		return
	}

	user := client.User{
		RollNumber: r.PostForm.Get(session.FieldRollNumber),
		Name:       r.PostForm.Get(session.FieldName),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := session.Login(r.Context(), s.svc, user)
	if err == nil {
		err = s.attachSubmitter(sess)
	}
	if err != nil {
		log.Printf("login %q: %v", strings.TrimSpace(user.RollNumber), err)
		status, login, flash := loginFailure(user, err)
		s.writeLogin(r.Context(), w, status, login, flash)
		return
	}

	s.current = sess
	s.flash = render.Flash{Level: render.FlashSuccess, Message: sess.Message}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *wizardServer) handleStep(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("parse form: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	c := s.current.Wizard

	posted, err := strconv.Atoi(r.PostForm.Get(sectionField))
	if err != nil || posted != c.Index() {
		s.flash = render.Flash{Level: render.FlashInfo, Message: messageStaleSection}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	for id, value := range render.ValuesFromForm(c.Section(), r.PostForm) {
		if value.Kind() == model.ValueNone {
			c.ClearFieldValue(id)
			continue
		}
		c.SetFieldValue(id, value)
	}

	var outcome wizard.Outcome
	switch r.PostForm.Get(actionField) {
	case "prev":
		outcome = c.Prev()
	case "submit":
		outcome = c.Submit(r.Context())
	default:
		outcome = c.Next()
	}
	if outcome.Err != nil && !errors.Is(outcome.Err, wizard.ErrClosed) {
		log.Printf("section %s: %v", outcome.Scope, outcome.Err)
	}

	s.flash = render.FlashFromOutcome(outcome)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *wizardServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.current = nil
	s.flash = render.Flash{}
	s.mu.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// attachSubmitter rebuilds the fresh session wizard around the configured
// submitter now that the form id and roll number are known.
func (s *wizardServer) attachSubmitter(sess *session.Session) error {
	if s.newSubmitter == nil {
		return nil
	}
	form := sess.Wizard.Schema()
	submitter, err := s.newSubmitter(form, sess.User)
	if err != nil {
		return fmt.Errorf("configure submitter: %w", err)
	}
	controller, err := wizard.New(form, wizard.WithSubmitter(submitter))
	if err != nil {
		return err
	}
	sess.Wizard = controller
	return nil
}

func (s *wizardServer) takeFlash() render.Flash {
	flash := s.flash
	s.flash = render.Flash{}
	return flash
}

func (s *wizardServer) writeLogin(ctx context.Context, w http.ResponseWriter, status int, login html.Login, flash render.Flash) {
	output, err := s.renderer.RenderLogin(ctx, login, render.RenderOptions{
		Action: "/login",
		Flash:  flash,
		Theme:  s.theme,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("render login: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(output); err != nil {
		log.Printf("write response: %v", err)
	}
}

func loginFailure(user client.User, err error) (int, html.Login, render.Flash) {
	var credErr *session.CredentialsError
	switch {
	case errors.As(err, &credErr):
		return http.StatusBadRequest,
			html.LoginFromErrors(user.RollNumber, user.Name, credErr.Errors),
			render.Flash{}
	case errors.Is(err, session.ErrLoginFailed):
		message := strings.TrimSpace(strings.TrimPrefix(err.Error(), session.ErrLoginFailed.Error()+":"))
		return http.StatusUnauthorized,
			html.Login{RollNumber: user.RollNumber, Name: user.Name},
			render.Flash{Level: render.FlashError, Message: messageLoginFailed, Details: nonEmpty(message)}
	case errors.Is(err, wizard.ErrSchemaUnavailable):
		return http.StatusBadGateway,
			html.Login{RollNumber: user.RollNumber, Name: user.Name},
			render.Flash{Level: render.FlashError, Message: session.MessageSchemaUnavailable}
	default:
		return http.StatusInternalServerError,
			html.Login{RollNumber: user.RollNumber, Name: user.Name},
			render.Flash{Level: render.FlashError, Message: "Something went wrong. Please try again."}
	}
}

func nonEmpty(message string) []string {
	if message == "" {
		return nil
	}
	return []string{message}
}
