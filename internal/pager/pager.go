// Package pager slices catalog results into pages and decides which page
// numbers a pagination bar shows.
package pager

// PageSizes are the selectable books-per-page values.
var PageSizes = []int{5, 10, 20}

// Gap marks an elided run of pages in the slice returned by Window.
const Gap = 0

// TotalPages is the number of pages needed for n items, at least 1.
func TotalPages(n, perPage int) int {
	if perPage <= 0 || n <= 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// Clamp keeps page within [1, TotalPages(n, perPage)].
func Clamp(page, n, perPage int) int {
	total := TotalPages(n, perPage)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Page returns the items on the given 1-based page, clamping out of range
// pages to the nearest valid one.
func Page[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		return items
	}
	page = Clamp(page, len(items), perPage)
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

// Window lists the page numbers to render: the first five, the last five
// and the two either side of current. Each elided run is a single Gap.
func Window(total, current int) []int {
	var pages []int
	prevShown := true
	for p := 1; p <= total; p++ {
		show := p <= 5 || p > total-5 || abs(p-current) <= 2
		if show {
			pages = append(pages, p)
		} else if prevShown {
			pages = append(pages, Gap)
		}
		prevShown = show
	}
	return pages
}

// NextPageSize cycles through PageSizes.
func NextPageSize(current int) int {
	for i, s := range PageSizes {
		if s == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
