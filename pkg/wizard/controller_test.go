package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func threeSectionSchema() model.FormSchema {
	return model.FormSchema{
		Title: "Student Information Form",
		Sections: []model.Section{
			{
				ID:    "1",
				Title: "Personal",
				Fields: []model.Field{
					{ID: "name", Label: "Name", Kind: model.FieldKindText, Required: true},
					{ID: "nickname", Label: "Nickname", Kind: model.FieldKindText},
				},
			},
			{
				ID:    "2",
				Title: "Contact",
				Fields: []model.Field{
					{ID: "email", Label: "Email", Kind: model.FieldKindEmail, Required: true},
				},
			},
			{
				ID:    "3",
				Title: "Terms",
				Fields: []model.Field{
					{ID: "terms", Label: "Accept", Kind: model.FieldKindCheckbox, Required: true},
				},
			},
		},
	}
}

func newController(t *testing.T, opts ...wizard.Option) *wizard.Controller {
	t.Helper()

	c, err := wizard.New(threeSectionSchema(), opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestNewRequiresSections(t *testing.T) {
	if _, err := wizard.New(model.FormSchema{}); !errors.Is(err, wizard.ErrNoSections) {
		t.Fatalf("expected ErrNoSections, got %v", err)
	}
}

func TestNewRejectsDuplicateSectionIDs(t *testing.T) {
	schema := threeSectionSchema()
	schema.Sections[2].ID = schema.Sections[0].ID
	if _, err := wizard.New(schema); !errors.Is(err, wizard.ErrDuplicateSection) {
		t.Fatalf("expected ErrDuplicateSection, got %v", err)
	}
}

func TestNextBlockedByInvalidSection(t *testing.T) {
	c := newController(t)

	out := c.Next()
	if out.Event != wizard.EventValidationFailed {
		t.Fatalf("expected validation failure, got %s", out.Event)
	}
	if c.Index() != 0 {
		t.Fatalf("index moved to %d on invalid section", c.Index())
	}
	if out.Message != wizard.MessageFixBeforeNext {
		t.Fatalf("unexpected message %q", out.Message)
	}
	want := model.FieldErrors{"name": "This field is required"}
	if diff := cmp.Diff(want, out.Errors); diff != "" {
		t.Fatalf("outcome errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("controller errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFieldValueClearsErrorOptimistically(t *testing.T) {
	c := newController(t)
	c.Next()

	c.SetFieldValue("name", model.Text(""))
	if _, ok := c.Errors()["name"]; ok {
		t.Fatalf("error should be cleared on edit even when the new value is invalid")
	}
	if len(c.SectionErrors()) != 0 {
		t.Fatalf("expected empty section errors, got %v", c.SectionErrors())
	}

	out := c.Next()
	if out.Event != wizard.EventValidationFailed {
		t.Fatalf("expected re-validation to fail again, got %s", out.Event)
	}
}

func TestNavigationKeepsValues(t *testing.T) {
	c := newController(t)

	c.SetFieldValue("name", model.Text("Alice"))
	c.SetFieldValue("nickname", model.Text("Al"))
	if out := c.Next(); out.Event != wizard.EventAdvanced || out.Index != 1 || out.Scope != "1" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if c.Index() != 1 {
		t.Fatalf("expected index 1, got %d", c.Index())
	}

	before := c.Values()
	if out := c.Prev(); out.Event != wizard.EventMoved || c.Index() != 0 {
		t.Fatalf("expected to move back to 0, got %+v", out)
	}
	if diff := cmp.Diff(before, c.Values()); diff != "" {
		t.Fatalf("values changed by Prev (-want +got):\n%s", diff)
	}
	if !c.Value("name").Equal(model.Text("Alice")) {
		t.Fatalf("section 0 value lost: %v", c.Value("name"))
	}

	if out := c.Next(); out.Event != wizard.EventAdvanced || c.Index() != 1 {
		t.Fatalf("expected to return to 1, got %+v", out)
	}
	if diff := cmp.Diff(before, c.Values()); diff != "" {
		t.Fatalf("values changed by Next (-want +got):\n%s", diff)
	}
}

func TestPrevAtFirstSectionIsIdempotent(t *testing.T) {
	c := newController(t)
	for i := 0; i < 3; i++ {
		c.Prev()
		if c.Index() != 0 {
			t.Fatalf("index left 0 after Prev: %d", c.Index())
		}
	}
}

func TestPrevDoesNotTouchErrors(t *testing.T) {
	c := newController(t)
	c.SetFieldValue("name", model.Text("Alice"))
	c.Next()
	c.Next()

	want := model.SectionErrors{"2": {"email": "This field is required"}}
	if diff := cmp.Diff(want, c.SectionErrors()); diff != "" {
		t.Fatalf("section errors mismatch (-want +got):\n%s", diff)
	}

	c.Prev()
	if diff := cmp.Diff(want, c.SectionErrors()); diff != "" {
		t.Fatalf("Prev mutated errors (-want +got):\n%s", diff)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("section 0 should have no errors, got %v", c.Errors())
	}
}

func TestErrorsScopedPerSection(t *testing.T) {
	c := newController(t)
	c.Next()

	c.SetFieldValue("name", model.Text("Alice"))
	c.SetFieldValue("email", model.Text("bad"))
	c.Next()
	c.Next()

	// Section 0 is valid now, section 1 failed; validating section 1 must not
	// resurrect or wipe anything else.
	want := model.SectionErrors{"2": {"email": "Please enter a valid email address"}}
	if diff := cmp.Diff(want, c.SectionErrors()); diff != "" {
		t.Fatalf("section errors mismatch (-want +got):\n%s", diff)
	}
}

func TestNextClampsAtLastSection(t *testing.T) {
	c := newController(t,
		wizard.WithValues(model.Values{
			"name":  model.Text("Alice"),
			"email": model.Text("a@b.com"),
			"terms": model.Bool(true),
		}),
	)
	c.Next()
	c.Next()
	if !c.IsLast() {
		t.Fatalf("expected last section")
	}
	out := c.Next()
	if out.Event != wizard.EventAdvanced || c.Index() != 2 {
		t.Fatalf("expected clamped index 2, got %d (%s)", c.Index(), out.Event)
	}
}

func TestSubmitOnlyFromLastSection(t *testing.T) {
	calls := 0
	c := newController(t, wizard.WithSubmitter(wizard.SubmitterFunc(func(context.Context, model.Values) (wizard.Receipt, error) {
		calls++
		return wizard.Receipt{}, nil
	})))

	out := c.Submit(context.Background())
	if out.Event != wizard.EventNotLastSection {
		t.Fatalf("expected not-last-section, got %s", out.Event)
	}
	if calls != 0 || len(c.SectionErrors()) != 0 {
		t.Fatalf("submit away from the last section must not validate or submit")
	}
}

func TestSubmitFlow(t *testing.T) {
	var received model.Values
	c := newController(t, wizard.WithSubmitter(wizard.SubmitterFunc(func(_ context.Context, values model.Values) (wizard.Receipt, error) {
		received = values
		return wizard.Receipt{ID: "r-1"}, nil
	})))

	c.SetFieldValue("name", model.Text("Alice"))
	c.Next()
	c.SetFieldValue("email", model.Text("a@b.com"))
	c.Next()

	out := c.Submit(context.Background())
	if out.Event != wizard.EventValidationFailed || out.Message != wizard.MessageFixBeforeSubmit {
		t.Fatalf("expected validation failure, got %+v", out)
	}
	if received != nil {
		t.Fatalf("submitter called with invalid section")
	}

	c.SetFieldValue("terms", model.Bool(true))
	out = c.Submit(context.Background())
	if out.Event != wizard.EventSubmitted || !out.OK() {
		t.Fatalf("expected submitted, got %+v", out)
	}
	if out.Receipt.ID != "r-1" || out.Message != wizard.MessageSubmitted {
		t.Fatalf("unexpected receipt %+v / message %q", out.Receipt, out.Message)
	}
	if !c.Submitted() {
		t.Fatalf("controller should be in the submitted state")
	}

	want := model.Values{
		"name":  model.Text("Alice"),
		"email": model.Text("a@b.com"),
		"terms": model.Bool(true),
	}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	received["name"] = model.Text("mutated")
	if !c.Value("name").Equal(model.Text("Alice")) {
		t.Fatalf("submitter must receive a copy of the values")
	}

	for _, out := range []wizard.Outcome{c.Next(), c.Prev(), c.Submit(context.Background())} {
		if out.Event != wizard.EventClosed || !errors.Is(out.Err, wizard.ErrClosed) {
			t.Fatalf("expected closed outcome, got %+v", out)
		}
	}
	c.SetFieldValue("name", model.Text("Bob"))
	if !c.Value("name").Equal(model.Text("Alice")) {
		t.Fatalf("edits after submission should be ignored")
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	c := newController(t,
		wizard.WithValues(model.Values{
			"name":  model.Text("Alice"),
			"email": model.Text("a@b.com"),
			"terms": model.Bool(false),
		}),
		wizard.WithSubmitter(wizard.SubmitterFunc(func(context.Context, model.Values) (wizard.Receipt, error) {
			attempts++
			if attempts == 1 {
				return wizard.Receipt{}, boom
			}
			return wizard.Receipt{Message: "Saved"}, nil
		})),
	)
	c.Next()
	c.Next()

	out := c.Submit(context.Background())
	if out.Event != wizard.EventSubmitFailed || !errors.Is(out.Err, boom) {
		t.Fatalf("expected submit failure wrapping boom, got %+v", out)
	}
	if c.Submitted() || c.Index() != 2 {
		t.Fatalf("state changed after failed submission")
	}

	out = c.Submit(context.Background())
	if out.Event != wizard.EventSubmitted || out.Message != "Saved" {
		t.Fatalf("expected retry to succeed, got %+v", out)
	}
}

func TestDefaultSubmitterReportsSuccess(t *testing.T) {
	c, err := wizard.New(model.FormSchema{Sections: []model.Section{{ID: "only"}}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out := c.Submit(context.Background())
	if out.Event != wizard.EventSubmitted || out.Message != wizard.MessageSubmitted {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestClearFieldValue(t *testing.T) {
	c := newController(t)
	c.SetFieldValue("nickname", model.Text("Al"))
	c.Next()

	c.ClearFieldValue("nickname")
	c.ClearFieldValue("name")
	if _, ok := c.Values()["nickname"]; ok {
		t.Fatalf("value should be removed")
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("clearing should drop the field error, got %v", c.Errors())
	}
}

func TestProgress(t *testing.T) {
	c := newController(t, wizard.WithValues(model.Values{"name": model.Text("A")}))
	c.Next()

	want := []wizard.StepState{wizard.StepDone, wizard.StepCurrent, wizard.StepPending}
	if diff := cmp.Diff(want, c.Progress()); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if c.IsFirst() || c.IsLast() || c.SectionCount() != 3 || c.Section().ID != "2" {
		t.Fatalf("unexpected position accessors")
	}
}
