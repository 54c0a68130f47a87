// Package kttime converts between the date and date-time text forms used by the
// portal and zoned time values.
//
// Every value produced here is tagged with the portal's fixed UTC+9 zone. The
// zone is never inferred from input.
package kttime
