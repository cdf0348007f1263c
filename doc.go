// Package formwizard renders dynamic multi-section forms as step-by-step
// wizards. A form schema (fetched from the form service or loaded from a file)
// drives a wizard.Controller that validates one section at a time; renderers
// present the current step as HTML or as terminal prompts.
//
// Quick start:
//
//	c, err := formwizard.LoadWizard(ctx, schema.SourceFromFile("form.json"), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	c.SetFieldValue("firstName", model.Text("Ada"))
//	outcome := c.Next()
package formwizard
