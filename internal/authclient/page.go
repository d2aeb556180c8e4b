package authclient

import (
	"bytes"
	"encoding/json"
)

// Page is one page of a paginated listing. The API answers either with a
// {items,total,page,page_size} envelope or, on older routes, with a bare
// array; both decode into a Page.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// pageEnvelope has Page's fields without its UnmarshalJSON.
type pageEnvelope[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*p = Page[T]{Items: items, Total: len(items), Page: 1, PageSize: len(items)}
		return nil
	}
	var env pageEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	if p.Total == 0 {
		p.Total = len(p.Items)
	}
	return nil
}

// Pages returns the number of pages implied by Total and PageSize.
func (p *Page[T]) Pages() int {
	if p.PageSize <= 0 {
		if p.Total > 0 {
			return 1
		}
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Page < p.Pages()
}
