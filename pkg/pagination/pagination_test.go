package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		in       Params
		page     int
		pageSize int
	}{
		{"zero values fall back to defaults", Params{}, 1, DefaultPageSize},
		{"negative page clamps to first", Params{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size caps at max", Params{Page: 2, PageSize: 5000}, 2, MaxPageSize},
		{"valid values pass through", Params{Page: 4, PageSize: 50}, 4, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if got.Page != tc.page || got.PageSize != tc.pageSize {
				t.Fatalf("expected page=%d size=%d, got page=%d size=%d", tc.page, tc.pageSize, got.Page, got.PageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if off := (Params{Page: 3, PageSize: 20}).Offset(); off != 40 {
		t.Fatalf("expected offset 40, got %d", off)
	}
	if off := (Params{}).Offset(); off != 0 {
		t.Fatalf("expected zero offset for defaults, got %d", off)
	}
}

func TestNewPageNeverReturnsNilItems(t *testing.T) {
	page := NewPage[string](nil, Params{}, 0)
	if page.Items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if page.Page != 1 || page.PageSize != DefaultPageSize {
		t.Fatalf("unexpected normalized params: %+v", page)
	}
}
