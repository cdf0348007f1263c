// Package testsupport holds fixture and golden file helpers shared by the
// package tests.
package testsupport
