package router

import (
	"strconv"
	"strings"
)

const (
	PagePrefix = "#/page/"
	ShowPrefix = "#/show/"
)

type Kind int

const (
	KindFeed Kind = iota
	KindDetail
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindFeed:
		return "feed"
	case KindDetail:
		return "detail"
	default:
		return "not-found"
	}
}

// Route is the screen a fragment resolves to. For feed routes HasPage
// reports whether the fragment named a page; Page then holds it, clamped
// to at least 1.
type Route struct {
	Kind     Kind
	Fragment string
	Page     int
	HasPage  bool
	ID       int64
}

// Normalize trims the fragment and restores the "#/" a hand-typed fragment
// may lack, so "page/2" and "/page/2" both become "#/page/2".
func Normalize(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || strings.HasPrefix(fragment, "#") {
		return fragment
	}
	return "#/" + strings.TrimPrefix(fragment, "/")
}

// Parse maps a fragment onto a route. Anything that is not the empty
// fragment, a numeric page, or a positive numeric id is not found.
func Parse(fragment string) Route {
	fragment = Normalize(fragment)
	route := Route{Kind: KindNotFound, Fragment: fragment}

	switch {
	case fragment == "" || fragment == "#" || fragment == "#/":
		route.Kind = KindFeed
	case strings.HasPrefix(fragment, PagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(fragment, PagePrefix))
		if err != nil {
			return route
		}
		if page < 1 {
			page = 1
		}
		route.Kind = KindFeed
		route.Page = page
		route.HasPage = true
	case strings.HasPrefix(fragment, ShowPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(fragment, ShowPrefix), 10, 64)
		if err != nil || id < 1 {
			return route
		}
		route.Kind = KindDetail
		route.ID = id
	}
	return route
}

func PageFragment(page int) string {
	return PagePrefix + strconv.Itoa(page)
}

func ShowFragment(id int64) string {
	return ShowPrefix + strconv.FormatInt(id, 10)
}
