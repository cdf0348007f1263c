// Package submit provides wizard.Submitter implementations.
package submit
