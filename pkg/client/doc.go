// Package client wraps the form service endpoints: POST /create-user registers
// a student (409 Conflict means the student already exists and is accepted)
// and GET /get-form?rollNumber=... returns the form assigned to them. Client
// satisfies wizard.SchemaProvider.
package client
