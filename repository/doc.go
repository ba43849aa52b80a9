// Package repository implements the data access layer over bun: a generic
// Repository with paging, sorting and specifications, the member query
// methods, and hand-written repositories that issue their own queries.
package repository
