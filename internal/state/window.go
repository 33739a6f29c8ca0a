package state

func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func PrevPage(page int) int {
	return ClampPage(page - 1)
}

func NextPage(page int) int {
	return ClampPage(page) + 1
}

// Window returns the half-open index range [(page-1)*size, page*size)
// clipped to total, so slicing with it never runs past the fetched items.
func Window(page, size, total int) (int, int) {
	if size < 1 || total <= 0 {
		return 0, 0
	}
	page = ClampPage(page)
	start := (page - 1) * size
	if start >= total || start < 0 {
		return total, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}
