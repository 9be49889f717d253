package pagination

import (
	"net/url"
	"strings"
	"testing"
)

func TestParseQueryDefaultsAndClamping(t *testing.T) {
	params := ParseQuery(url.Values{})
	if params.Page != 1 || params.PageSize != 10 || params.OrderBy != "" {
		t.Fatalf("unexpected defaults: %+v", params)
	}

	params = ParseQuery(url.Values{"_page": {"-3"}, "_size": {"0"}})
	if params.Page != 1 || params.PageSize != 10 {
		t.Fatalf("invalid values must fall back to defaults: %+v", params)
	}

	params = ParseQuery(url.Values{"_size": {"5000"}})
	if params.PageSize != MaxPageSize {
		t.Fatalf("expected page size clamped to %d, got %d", MaxPageSize, params.PageSize)
	}

	params = ParseQuery(url.Values{"_page": {"3"}, "_size": {"25"}, "_order": {"price desc"}})
	if params.Page != 3 || params.PageSize != 25 || params.OrderBy != "price desc" {
		t.Fatalf("unexpected parse result: %+v", params)
	}
}

func TestParseOrderBy(t *testing.T) {
	keys := ParseOrderBy("price desc, title asc, id")
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	if keys[0].Field != "price" || !keys[0].Descending {
		t.Fatalf("unexpected first key: %+v", keys[0])
	}
	if keys[1].Field != "title" || keys[1].Descending {
		t.Fatalf("unexpected second key: %+v", keys[1])
	}
	if keys[2].Field != "id" || keys[2].Descending {
		t.Fatalf("unexpected third key: %+v", keys[2])
	}

	if keys := ParseOrderBy("   "); keys != nil {
		t.Fatalf("blank expression must produce no keys, got %+v", keys)
	}
}

func TestApplySortsAndPages(t *testing.T) {
	items := []string{"pear", "apple", "fig", "date", "cherry"}
	compare := func(field string, a, b string) int {
		if field != "name" {
			return 0
		}
		return strings.Compare(a, b)
	}

	page := Apply(items, Parameters{Page: 1, PageSize: 2, OrderBy: "name"}, compare)
	if page.TotalItems != 5 || page.TotalPages != 3 || page.CurrentPage != 1 {
		t.Fatalf("unexpected page shape: %+v", page)
	}
	if page.Items[0] != "apple" || page.Items[1] != "cherry" {
		t.Fatalf("unexpected page contents: %v", page.Items)
	}

	page = Apply(items, Parameters{Page: 3, PageSize: 2, OrderBy: "name"}, compare)
	if len(page.Items) != 1 || page.Items[0] != "pear" {
		t.Fatalf("unexpected last page: %v", page.Items)
	}
}

func TestApplyDescendingAndUnknownField(t *testing.T) {
	items := []int{3, 1, 2}
	compare := func(field string, a, b int) int {
		if field != "value" {
			return 0
		}
		return a - b
	}

	page := Apply(items, Parameters{Page: 1, PageSize: 10, OrderBy: "value desc"}, compare)
	if page.Items[0] != 3 || page.Items[2] != 1 {
		t.Fatalf("expected descending order, got %v", page.Items)
	}

	// Unknown field leaves input order untouched.
	items = []int{3, 1, 2}
	page = Apply(items, Parameters{Page: 1, PageSize: 10, OrderBy: "bogus"}, compare)
	if page.Items[0] != 3 || page.Items[1] != 1 || page.Items[2] != 2 {
		t.Fatalf("unknown field must not reorder, got %v", page.Items)
	}
}

func TestApplyPageBeyondEnd(t *testing.T) {
	page := Apply([]int{1, 2}, Parameters{Page: 9, PageSize: 10}, nil)
	if len(page.Items) != 0 {
		t.Fatalf("expected empty page beyond the end, got %v", page.Items)
	}
	if page.TotalItems != 2 || page.TotalPages != 1 {
		t.Fatalf("unexpected totals: %+v", page)
	}
}
