package model

import (
	"errors"
	"fmt"
)

// OrderBy 排序字段
type OrderBy string

const (
	OrderDateAdded   OrderBy = "date-added"
	OrderReleaseDate OrderBy = "release-date"
	OrderMatch       OrderBy = "match"
)

// Direction 排序方向
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ErrInvalidOrder 排序条件不在允许的集合内
var ErrInvalidOrder = errors.New("invalid order")

// Order 列表排序条件
type Order struct {
	By        OrderBy   `json:"by"`
	Direction Direction `json:"direction"`
}

// DefaultOrder 默认按添加时间倒序
var DefaultOrder = Order{By: OrderDateAdded, Direction: Descending}

// ParseOrder 解析 URL 中的排序条件
func ParseOrder(by, direction string) (Order, error) {
	o := Order{By: OrderBy(by), Direction: Direction(direction)}
	if !o.Valid() {
		return Order{}, fmt.Errorf("%w: %s/%s", ErrInvalidOrder, by, direction)
	}
	return o, nil
}

// Valid 是否为合法的排序条件
func (o Order) Valid() bool {
	switch o.By {
	case OrderDateAdded, OrderReleaseDate, OrderMatch:
	default:
		return false
	}
	return o.Direction == Ascending || o.Direction == Descending
}

// Descending 是否倒序
func (o Order) Descending() bool {
	return o.Direction == Descending
}

func (o Order) String() string {
	return string(o.By) + "/" + string(o.Direction)
}
