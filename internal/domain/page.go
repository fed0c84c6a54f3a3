package domain

// PageSize is the number of listings shown per page.
const PageSize = 12

// Page is one page of a paginated result.
type Page[T any] struct {
	Items    []T
	Number   int // 1-based
	NumPages int
	Total    int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

// PrevNumber returns the previous page number.
func (p Page[T]) PrevNumber() int { return p.Number - 1 }

// NextNumber returns the following page number.
func (p Page[T]) NextNumber() int { return p.Number + 1 }

// ResolvePage clamps a requested page number against total items and
// returns the page number, page count and row offset. An empty result still
// has one (empty) page; requests past the end land on the last page.
func ResolvePage(requested, total int) (number, numPages, offset int) {
	numPages = (total + PageSize - 1) / PageSize
	if numPages < 1 {
		numPages = 1
	}

	number = requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return number, numPages, (number - 1) * PageSize
}
