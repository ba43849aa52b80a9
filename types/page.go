/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import "encoding/json"

const DefaultPageSize = 10

// QueryFilter describes a WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// PageRequest describes a zero-based page, its size, ordering and an
// optional filter.
type PageRequest struct {
	page     int
	pageSize int
	filter   *QueryFilter
	sort     Sort
}

// NewPageRequest constructs a PageRequest with ordering.
func NewPageRequest(page int, pageSize int, sort Sort) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, sort: sort}
}

// NewDefaultPageRequest constructs an unsorted PageRequest.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, Unsorted())
}

// NewPageRequestWithFilter constructs an unsorted PageRequest with a filter.
func NewPageRequestWithFilter(page int, pageSize int, filter *QueryFilter) *PageRequest {
	return NewDefaultPageRequest(page, pageSize).WithFilter(filter)
}

// WithFilter returns a copy of the request carrying filter.
func (p *PageRequest) WithFilter(filter *QueryFilter) *PageRequest {
	cp := *p
	cp.filter = filter
	return &cp
}

// WithSort returns a copy of the request carrying sort.
func (p *PageRequest) WithSort(sort Sort) *PageRequest {
	cp := *p
	cp.sort = sort
	return &cp
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = DefaultPageSize
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.page < 0 {
		p.page = 0
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return p.GetPage() * p.GetPageSize()
}

func (p *PageRequest) GetFilter() *QueryFilter {
	return p.filter
}

func (p *PageRequest) GetSort() Sort {
	return p.sort
}

func (p *PageRequest) Next() *PageRequest {
	cp := *p
	cp.page = p.GetPage() + 1
	return &cp
}

// Previous returns the previous page, or the first page when already there.
func (p *PageRequest) Previous() *PageRequest {
	if p.GetPage() == 0 {
		return p.First()
	}
	cp := *p
	cp.page = p.page - 1
	return &cp
}

func (p *PageRequest) First() *PageRequest {
	cp := *p
	cp.page = 0
	return &cp
}

// Page holds one page of results together with the total element count.
type Page[T any] struct {
	Content       []*T
	Number        int
	Size          int
	TotalElements int64
	Sort          Sort
}

// NewPage builds a page for the given request. A nil content becomes empty.
func NewPage[T any](content []*T, pageable *PageRequest, total int64) *Page[T] {
	if content == nil {
		content = make([]*T, 0)
	}
	return &Page[T]{
		Content:       content,
		Number:        pageable.GetPage(),
		Size:          pageable.GetPageSize(),
		TotalElements: total,
		Sort:          pageable.GetSort(),
	}
}

func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 1
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p *Page[T]) NumberOfElements() int { return len(p.Content) }

func (p *Page[T]) IsEmpty() bool { return len(p.Content) == 0 }

func (p *Page[T]) IsFirst() bool { return !p.HasPrevious() }

func (p *Page[T]) IsLast() bool { return !p.HasNext() }

func (p *Page[T]) HasPrevious() bool { return p.Number > 0 }

func (p *Page[T]) HasNext() bool { return p.Number+1 < p.TotalPages() }

type pageJSON[T any] struct {
	Content          []*T    `json:"content"`
	Number           int     `json:"number"`
	Size             int     `json:"size"`
	TotalElements    int64   `json:"totalElements"`
	TotalPages       int     `json:"totalPages"`
	NumberOfElements int     `json:"numberOfElements"`
	First            bool    `json:"first"`
	Last             bool    `json:"last"`
	Empty            bool    `json:"empty"`
	Sort             []Order `json:"sort"`
}

func (p *Page[T]) MarshalJSON() ([]byte, error) {
	orders := p.Sort.Orders
	if orders == nil {
		orders = make([]Order, 0)
	}
	return json.Marshal(pageJSON[T]{
		Content:          p.Content,
		Number:           p.Number,
		Size:             p.Size,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages(),
		NumberOfElements: p.NumberOfElements(),
		First:            p.IsFirst(),
		Last:             p.IsLast(),
		Empty:            p.IsEmpty(),
		Sort:             orders,
	})
}

// MapPage converts the content of a page and keeps its paging metadata.
func MapPage[T any, R any](p *Page[T], fn func(*T) *R) *Page[R] {
	content := make([]*R, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}
	return &Page[R]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		Sort:          p.Sort,
	}
}

// Slice is a page without a total count; it only knows whether a next
// page exists.
type Slice[T any] struct {
	Content []*T `json:"content"`
	Number  int  `json:"number"`
	Size    int  `json:"size"`
	Next    bool `json:"hasNext"`
}

// NewSlice trims a result fetched with size+1 rows and records whether
// the extra row was present.
func NewSlice[T any](rows []*T, pageable *PageRequest) *Slice[T] {
	size := pageable.GetPageSize()
	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}
	if rows == nil {
		rows = make([]*T, 0)
	}
	return &Slice[T]{Content: rows, Number: pageable.GetPage(), Size: size, Next: hasNext}
}

func (s *Slice[T]) HasNext() bool { return s.Next }

func (s *Slice[T]) HasPrevious() bool { return s.Number > 0 }

func (s *Slice[T]) IsFirst() bool { return !s.HasPrevious() }

func (s *Slice[T]) IsLast() bool { return !s.HasNext() }

func (s *Slice[T]) NumberOfElements() int { return len(s.Content) }
