// Package query turns list request parameters into a Plan: the single filter
// mode that applies to the request plus the requested ordering.
//
// Validation is fail-fast and ordered: sort option, then missing range
// bounds (created dates before due dates), then date formats. Filter modes
// are mutually exclusive with a fixed precedence:
//
//	CreatedDateRange > DueDateRange (tasks only) > Search > NoFilter
//
// The package does not touch the database; see database.FilterScope and database.OrderScope
// for the GORM rendering of a Plan.
package query
