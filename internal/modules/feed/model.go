package feed

import (
	"fmt"
	"strings"
	"time"
)

// Request is one feed generation request.
type Request struct {
	Shop        string
	Format      string
	Title       string
	Link        string
	Description string
	Currency    string

	FilterByAvailability bool
	FilterByStatus       bool
	IncludeVariants      bool
	ForceRefresh         bool
}

// Result is a rendered (or cache-served) feed.
type Result struct {
	Shop          string
	Format        string
	Content       string
	ProductsCount int
	VariantsCount int
	GeneratedAt   time.Time
	FromCache     bool
}

// UnimplementedFormatError is returned when a format has no renderer
// binding, whether or not the identifier is recognized in the catalog.
type UnimplementedFormatError struct {
	Format      string
	Implemented []string
}

func (e *UnimplementedFormatError) Error() string {
	return fmt.Sprintf("format %q not yet implemented; currently supported: %s",
		e.Format, strings.Join(e.Implemented, ", "))
}
