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

import (
	"fmt"
	"strings"
)

// Direction is the ordering direction of a sort property.
type Direction int

const (
	ASC Direction = iota
	DESC
)

var _ BaseEnum = ASC

// ParseDirection accepts "asc"/"desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "":
		return ASC, nil
	case "desc":
		return DESC, nil
	default:
		return Direction(IllegalValue), fmt.Errorf("invalid sort direction: %q", s)
	}
}

func (d Direction) IsValid() bool { return d == ASC || d == DESC }

func (d Direction) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

func (d Direction) String() string {
	switch d {
	case ASC:
		return "ASC"
	case DESC:
		return "DESC"
	default:
		return IllegalName
	}
}

func (d Direction) Name() string { return d.String() }

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Direction) Desc() string {
	switch d {
	case ASC:
		return "ascending"
	case DESC:
		return "descending"
	default:
		return IllegalDesc
	}
}

// Order is a single "property direction" pair.
type Order struct {
	Property  string    `json:"property"`
	Direction Direction `json:"direction"`
}

// String renders the order the way it is accepted on the query string.
func (o Order) String() string {
	return o.Property + "," + strings.ToLower(o.Direction.String())
}

// ParseOrder parses "property" or "property,direction".
func ParseOrder(s string) (Order, error) {
	parts := strings.Split(s, ",")
	prop := strings.TrimSpace(parts[0])
	if prop == "" {
		return Order{}, fmt.Errorf("empty sort property in %q", s)
	}
	if len(parts) > 2 {
		return Order{}, fmt.Errorf("malformed sort expression: %q", s)
	}
	dir := ASC
	if len(parts) == 2 {
		d, err := ParseDirection(parts[1])
		if err != nil {
			return Order{}, err
		}
		dir = d
	}
	return Order{Property: prop, Direction: dir}, nil
}

// Sort is an ordered list of orders, applied left to right.
type Sort struct {
	Orders []Order
}

// Unsorted returns a Sort with no orders.
func Unsorted() Sort { return Sort{} }

// By builds a Sort where every property shares one direction.
func By(dir Direction, properties ...string) Sort {
	orders := make([]Order, 0, len(properties))
	for _, p := range properties {
		orders = append(orders, Order{Property: p, Direction: dir})
	}
	return Sort{Orders: orders}
}

func (s Sort) And(other Sort) Sort {
	orders := make([]Order, 0, len(s.Orders)+len(other.Orders))
	orders = append(orders, s.Orders...)
	orders = append(orders, other.Orders...)
	return Sort{Orders: orders}
}

func (s Sort) IsSorted() bool { return len(s.Orders) > 0 }

func (s Sort) String() string {
	if !s.IsSorted() {
		return "UNSORTED"
	}
	parts := make([]string, len(s.Orders))
	for i, o := range s.Orders {
		parts[i] = o.Property + ": " + o.Direction.String()
	}
	return strings.Join(parts, ",")
}
