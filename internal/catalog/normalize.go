package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/timmy/brunca/internal/domain"
)

// Keys under which the API has been seen to put the item list and the
// pagination block, in lookup order.
var (
	itemKeys = []string{"data", "items", "results"}
	metaKeys = []string{"meta", "pagination", "page"}
)

// flexInt decodes a JSON number or numeric string.
type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not a page number: %q", s)
		}
		f.value, f.set = n, true
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	f.value, f.set = int(n), true
	return nil
}

type rawMeta struct {
	CurrentPage      flexInt `json:"current_page"`
	CurrentPageCamel flexInt `json:"currentPage"`
	TotalPages       flexInt `json:"total_pages"`
	TotalPagesCamel  flexInt `json:"totalPages"`
	LastPage         flexInt `json:"last_page"`
}

func (m rawMeta) resolve() (domain.PageMeta, bool) {
	current := first(m.CurrentPage, m.CurrentPageCamel)
	total := first(m.TotalPages, m.TotalPagesCamel, m.LastPage)
	if !current.set || !total.set {
		return domain.PageMeta{}, false
	}
	return domain.PageMeta{CurrentPage: current.value, TotalPages: total.value}, true
}

func first(vals ...flexInt) flexInt {
	for _, v := range vals {
		if v.set {
			return v
		}
	}
	return flexInt{}
}

// decodePage normalizes a list payload into a page. An empty list is an
// empty result, not an error.
func decodePage[T domain.Item](body []byte) (domain.Page[T], error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return domain.EmptyPage[T](), nil
	}
	if body[0] != '{' {
		if bytes.Equal(body, []byte("[]")) {
			return domain.EmptyPage[T](), nil
		}
		return domain.Page[T]{}, errors.New("payload is not an object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return domain.Page[T]{}, fmt.Errorf("invalid JSON: %w", err)
	}

	rawItems, ok := lookup(fields, itemKeys)
	if !ok {
		return domain.Page[T]{}, fmt.Errorf("missing item list (expected one of %v)", itemKeys)
	}

	var items []T
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return domain.Page[T]{}, fmt.Errorf("invalid item list: %w", err)
	}
	for i, item := range items {
		if item.ItemID() == "" {
			return domain.Page[T]{}, fmt.Errorf("item %d has no id", i)
		}
	}

	meta, hasMeta, err := decodeMeta(body, fields)
	if err != nil {
		return domain.Page[T]{}, err
	}

	if len(items) == 0 {
		if !hasMeta {
			return domain.EmptyPage[T](), nil
		}
		return domain.Page[T]{Items: []T{}, Meta: clamp(meta)}, nil
	}

	if !hasMeta {
		return domain.Page[T]{}, errors.New("missing pagination metadata")
	}
	if meta.CurrentPage < 1 || meta.TotalPages < 1 {
		return domain.Page[T]{}, fmt.Errorf("invalid pagination metadata: current_page=%d total_pages=%d",
			meta.CurrentPage, meta.TotalPages)
	}
	return domain.Page[T]{Items: items, Meta: clamp(meta)}, nil
}

// decodeMeta looks for pagination fields at the top level first, then in
// a nested block.
func decodeMeta(body []byte, fields map[string]json.RawMessage) (domain.PageMeta, bool, error) {
	var top rawMeta
	if err := json.Unmarshal(body, &top); err == nil {
		if meta, ok := top.resolve(); ok {
			return meta, true, nil
		}
	}

	raw, ok := lookup(fields, metaKeys)
	if !ok {
		return domain.PageMeta{}, false, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		// "page": 2 style scalars are not a pagination block.
		return domain.PageMeta{}, false, nil
	}

	var nested rawMeta
	if err := json.Unmarshal(trimmed, &nested); err != nil {
		return domain.PageMeta{}, false, fmt.Errorf("invalid pagination metadata: %w", err)
	}
	meta, ok := nested.resolve()
	return meta, ok, nil
}

func lookup(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := fields[k]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return raw, true
		}
	}
	return nil, false
}

func clamp(meta domain.PageMeta) domain.PageMeta {
	if meta.CurrentPage < 1 {
		meta.CurrentPage = 1
	}
	if meta.TotalPages < meta.CurrentPage {
		meta.TotalPages = meta.CurrentPage
	}
	return meta
}
