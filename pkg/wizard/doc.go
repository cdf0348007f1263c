// Package wizard drives a multi-section form one section at a time.
//
// A Controller starts on section 0 with no values. SetFieldValue records input
// and clears that field's error immediately; Next validates the current
// section and only advances when it passes; Prev steps back without
// validating; Submit validates the last section and hands the values to a
// Submitter. Every navigation call returns an Outcome describing what happened
// (advanced, validation failed, submitted, ...) so presentation layers render
// feedback without the controller knowing how it is displayed.
//
// Errors are kept per section: validating one section never touches the
// errors recorded for another.
package wizard
