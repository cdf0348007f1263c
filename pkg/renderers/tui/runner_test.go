package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputConfigs []InputConfig
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) sawInfo(fragment string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func twoSectionSchema() model.FormSchema {
	return model.FormSchema{
		Title: "Enrollment",
		Sections: []model.Section{
			{
				ID:          "1",
				Title:       "You",
				Description: "<b>Hi</b> &amp; welcome",
				Fields: []model.Field{
					{ID: "name", Label: "Name", Kind: model.FieldKindText, Required: true},
					{ID: "terms", Label: "Accept terms", Kind: model.FieldKindCheckbox},
				},
			},
			{
				ID:    "2",
				Title: "Course",
				Fields: []model.Field{
					{ID: "mode", Label: "Mode", Kind: model.FieldKindRadio, Required: true, Options: []model.Option{
						{Value: "online", Label: "Online"},
						{Value: "offline", Label: "Offline"},
					}},
					{ID: "course", Label: "Course", Kind: model.FieldKindDropdown, Options: []model.Option{
						{Value: "cs", Label: "CS"},
						{Value: "ee", Label: "EE"},
					}},
				},
			},
		},
	}
}

func TestRunWalksSectionsAndSubmits(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Ada", "Ada"},
		confirm:   []bool{true, true, true},
		selectIdx: []int{0, 0, 0, 0, 1, 0, 1, 2, 0},
	}

	var submitted model.Values
	c, err := wizard.New(twoSectionSchema(), wizard.WithSubmitter(wizard.SubmitterFunc(
		func(_ context.Context, values model.Values) (wizard.Receipt, error) {
			submitted = values
			return wizard.Receipt{ID: "r-1"}, nil
		},
	)))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	outcome, err := New(WithPromptDriver(driver)).Run(context.Background(), c)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Event != wizard.EventSubmitted || outcome.Receipt.ID != "r-1" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	want := model.Values{
		"name":   model.Text("Ada"),
		"terms":  model.Bool(true),
		"mode":   model.Text("offline"),
		"course": model.Text("ee"),
	}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	if driver.selectPos != len(driver.selectIdx) || driver.inputPos != len(driver.inputs) {
		t.Fatalf("prompts not consumed as expected")
	}
	for _, fragment := range []string{
		"[1/2] You",
		"Hi & welcome",
		wizard.MessageFixBeforeNext,
		"! Name: This field is required",
		wizard.MessageSubmitted,
	} {
		if !driver.sawInfo(fragment) {
			t.Fatalf("expected info %q in %v", fragment, driver.infoMessages)
		}
	}

	// Returning to the first section offers the value entered earlier.
	if got := driver.inputConfigs[2].Default; got != "Ada" {
		t.Fatalf("expected prefilled default, got %q", got)
	}
	if got := driver.inputConfigs[0].Message; got != "Name *" {
		t.Fatalf("expected required marker, got %q", got)
	}
	// Optional dropdown offers an empty choice first.
	courseCfg := driver.selectCfgs[3]
	if diff := cmp.Diff([]string{noneOption, "CS", "EE"}, courseCfg.Options); diff != "" {
		t.Fatalf("course options mismatch (-want +got):\n%s", diff)
	}
	// First section has no Previous action; the second does.
	if diff := cmp.Diff([]string{actionNext, actionQuit}, driver.selectCfgs[0].Options); diff != "" {
		t.Fatalf("first section actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{actionSubmit, actionPrev, actionQuit}, driver.selectCfgs[4].Options); diff != "" {
		t.Fatalf("last section actions mismatch (-want +got):\n%s", diff)
	}
}

func TestRunQuitAborts(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada"},
		confirm:   []bool{false},
		selectIdx: []int{1},
	}
	c, err := wizard.New(twoSectionSchema())
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), c); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if got := c.Value("name"); !got.Equal(model.Text("Ada")) {
		t.Fatalf("expected entered value kept, got %v", got)
	}
}

func TestRunInlineValidationReasks(t *testing.T) {
	schema := model.FormSchema{
		Title: "Contact",
		Sections: []model.Section{{
			ID:     "1",
			Title:  "Email",
			Fields: []model.Field{{ID: "email", Label: "Email", Kind: model.FieldKindEmail}},
		}},
	}
	driver := &stubDriver{
		inputs:    []string{"bad", "a@b.co"},
		selectIdx: []int{0},
	}
	c, err := wizard.New(schema)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	outcome, err := New(WithPromptDriver(driver), WithInlineValidation(true)).Run(context.Background(), c)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Event != wizard.EventSubmitted {
		t.Fatalf("expected submission, got %s", outcome.Event)
	}
	if !driver.sawInfo("Please enter a valid email address") {
		t.Fatalf("expected inline error, got %v", driver.infoMessages)
	}
	if got := c.Value("email"); !got.Equal(model.Text("a@b.co")) {
		t.Fatalf("unexpected email value %v", got)
	}

	validate := driver.inputConfigs[0].Validator
	if validate == nil {
		t.Fatalf("expected inline mode to attach a prompt validator")
	}
	if err := validate("bad"); err == nil || err.Error() != "Please enter a valid email address" {
		t.Fatalf("expected email error from validator, got %v", err)
	}
	if err := validate("a@b.co"); err != nil {
		t.Fatalf("expected valid email to pass, got %v", err)
	}
}

func TestRunWithoutInlineLeavesPromptsUnvalidated(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada"},
		confirm:   []bool{true},
		selectIdx: []int{1},
	}
	c, err := wizard.New(twoSectionSchema())
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), c); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if driver.inputConfigs[0].Validator != nil {
		t.Fatalf("expected no prompt validator outside inline mode")
	}
}

func TestRunDeclinedRequiredCheckboxBlocksSubmit(t *testing.T) {
	schema := model.FormSchema{
		Title: "Consent",
		Sections: []model.Section{{
			ID:     "1",
			Title:  "Terms",
			Fields: []model.Field{{ID: "agree", Label: "I agree", Kind: model.FieldKindCheckbox, Required: true}},
		}},
	}
	driver := &stubDriver{
		confirm:   []bool{false, true},
		selectIdx: []int{0, 0},
	}
	var submitted model.Values
	c, err := wizard.New(schema, wizard.WithSubmitter(wizard.SubmitterFunc(
		func(_ context.Context, values model.Values) (wizard.Receipt, error) {
			submitted = values
			return wizard.Receipt{}, nil
		},
	)))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	outcome, err := New(WithPromptDriver(driver)).Run(context.Background(), c)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Event != wizard.EventSubmitted {
		t.Fatalf("expected submission, got %s", outcome.Event)
	}
	for _, fragment := range []string{wizard.MessageFixBeforeSubmit, "! I agree: This field is required"} {
		if !driver.sawInfo(fragment) {
			t.Fatalf("expected info %q in %v", fragment, driver.infoMessages)
		}
	}
	if diff := cmp.Diff(model.Values{"agree": model.Bool(true)}, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func TestRunNilController(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{})).Run(context.Background(), nil); !errors.Is(err, ErrNoController) {
		t.Fatalf("expected ErrNoController, got %v", err)
	}
}

func TestPromptLoginRetriesUntilValid(t *testing.T) {
	driver := &stubDriver{inputs: []string{" ", "Bob", " R1 ", "Bob"}}

	user, err := New(WithPromptDriver(driver)).PromptLogin(context.Background())
	if err != nil {
		t.Fatalf("prompt login: %v", err)
	}
	if diff := cmp.Diff(client.User{RollNumber: "R1", Name: "Bob"}, user); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
	if !driver.sawInfo("Roll number is required") {
		t.Fatalf("expected roll number error, got %v", driver.infoMessages)
	}
	if driver.sawInfo("Name is required") {
		t.Fatalf("unexpected name error")
	}
	if got := driver.inputConfigs[3].Default; got != "Bob" {
		t.Fatalf("expected name default kept, got %q", got)
	}
}
