// Package model defines the wire types exchanged with the three backend
// services and the composite shapes returned by the gateway itself.  Field
// names follow the JSON contracts of the library, rating and reservation
// systems, so these structs are used both for decoding downstream responses
// and for encoding gateway responses.
package model

// Library describes a single library as returned by the library system.
type Library struct {
	LibraryUID string `json:"libraryUid"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
}

// Condition is the physical state of a book copy.  The library system
// reports one of the three real grades; ConditionUnknown is a sentinel
// meaning the backend could not resolve the book's condition and any
// comparison against it must not be trusted.
type Condition string

const (
	ConditionExcellent Condition = "EXCELLENT"
	ConditionGood      Condition = "GOOD"
	ConditionBad       Condition = "BAD"
	ConditionUnknown   Condition = "UNKNOWN"
)

// Book describes a book within a library, including how many copies are
// currently available.  Condition is read-only from the gateway's point of
// view: it is compared before and after a rental to detect damage but never
// written back.
type Book struct {
	BookUID        string    `json:"bookUid"`
	Name           string    `json:"name"`
	Author         string    `json:"author"`
	Genre          string    `json:"genre"`
	Condition      Condition `json:"condition"`
	AvailableCount int       `json:"availableCount"`
}

// LibrariesPagination is one page of libraries in a city.
type LibrariesPagination struct {
	Page          int       `json:"page"`
	PageSize      int       `json:"pageSize"`
	TotalElements int       `json:"totalElements"`
	Items         []Library `json:"items"`
}

// BooksPagination is one page of books in a library.
type BooksPagination struct {
	Page          int    `json:"page"`
	PageSize      int    `json:"pageSize"`
	TotalElements int    `json:"totalElements"`
	Items         []Book `json:"items"`
}
