package query

import "sync"

// DefaultPageSize строк на странице
const DefaultPageSize = 50

// View names a paginated view
type View string

const (
	ViewProblems  View = "problems"
	ViewFavorites View = "favorites"
)

// TotalPages returns max(1, ceil(n/pageSize))
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n-1)/pageSize + 1
}

// ClampPage clamps page into [1, totalPages]
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the 1-indexed page of items. A page outside the range
// yields an empty slice.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	// Сравнение по номеру страницы, чтобы (page-1)*pageSize не переполнился
	if page < 1 || page > TotalPages(len(items), pageSize) || len(items) == 0 {
		return []T{}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// PageWindow returns up to width page numbers around current, for a
// pagination bar
func PageWindow(current, totalPages, width int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if width < 1 {
		width = 1
	}
	current = ClampPage(current, totalPages)

	start := current - width/2
	end := start + width - 1
	if start < 1 {
		start = 1
		end = min(width, totalPages)
	}
	if end > totalPages {
		end = totalPages
		start = max(1, end-width+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// PageState is the pagination state of one view
type PageState struct {
	CurrentPage  int
	ItemsPerPage int
}

// Pager keeps independent page state per view
type Pager struct {
	mu       sync.Mutex
	pageSize int
	pages    map[View]int
}

// NewPager creates a pager with all views on page 1
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		pageSize: pageSize,
		pages:    make(map[View]int),
	}
}

// PageSize returns items per page
func (p *Pager) PageSize() int {
	return p.pageSize
}

// State returns the state of view (page 1 if never set)
func (p *Pager) State(view View) PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PageState{CurrentPage: p.page(view), ItemsPerPage: p.pageSize}
}

// SetPage moves view to page, clamped against totalItems.
// Returns the page actually set.
func (p *Pager) SetPage(view View, page, totalItems int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	page = ClampPage(page, TotalPages(totalItems, p.pageSize))
	p.pages[view] = page
	return page
}

// Clamp re-clamps the current page of view after the item count changed
func (p *Pager) Clamp(view View, totalItems int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	page := ClampPage(p.page(view), TotalPages(totalItems, p.pageSize))
	p.pages[view] = page
	return page
}

// Reset moves every view to page 1
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.pages)
}

func (p *Pager) page(view View) int {
	if page, ok := p.pages[view]; ok && page >= 1 {
		return page
	}
	return 1
}
