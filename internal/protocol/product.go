// internal/protocol/product.go
package protocol

import (
	"errors"
	"fmt"
)

// Product identifies a dispensable slot. The wire format carries two.
type Product uint8

const (
	NoProduct Product = 0
	Product1  Product = 1
	Product2  Product = 2
)

// Products lists every product the wire format can select, in priority order.
var Products = [...]Product{Product1, Product2}

// Token is the ASCII token the keypad / remote channel emits for p.
func (p Product) Token() byte {
	switch p {
	case Product1:
		return '1'
	case Product2:
		return '2'
	default:
		return 0
	}
}

func (p Product) Valid() bool { return p == Product1 || p == Product2 }

func (p Product) String() string {
	switch p {
	case Product1:
		return "product1"
	case Product2:
		return "product2"
	default:
		return "none"
	}
}

// ProductFromToken maps an ASCII token to a product.
func ProductFromToken(tok byte) Product {
	switch tok {
	case '1':
		return Product1
	case '2':
		return Product2
	default:
		return NoProduct
	}
}

// SequenceLen is the number of coil patterns in one full-step cycle.
const SequenceLen = 4

// StepSequence is the cyclic full-step drive pattern of one product's motor.
type StepSequence [SequenceLen]byte

// PriceTable maps products to their price in coins.
// Immutable after construction.
type PriceTable struct {
	prices [len(Products)]int
}

// NewPriceTable builds a price table. Prices must be positive.
func NewPriceTable(price1, price2 int) (PriceTable, error) {
	if price1 <= 0 || price2 <= 0 {
		return PriceTable{}, errors.New("protocol: prices must be > 0")
	}
	return PriceTable{prices: [len(Products)]int{price1, price2}}, nil
}

// Price returns the price of p.
func (t PriceTable) Price(p Product) (int, error) {
	if !p.Valid() {
		return 0, fmt.Errorf("protocol: no price for %s", p)
	}
	return t.prices[p-1], nil
}
