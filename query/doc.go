// Package query defines the request and response documents of a probe run
// and the strict parse step that turns raw bytes into a Query.
//
// The response field names and nesting are fixed: result documents produced
// by different engines are compared structurally downstream.
package query
