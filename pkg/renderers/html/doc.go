// Package html renders wizard steps and the login form as server-side HTML
// pages using pongo2 templates embedded in the binary. Section descriptions
// are sanitised with bluemonday; themes come from go-theme renderer configs.
package html
