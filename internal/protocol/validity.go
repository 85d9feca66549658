// internal/protocol/validity.go
package protocol

// ValidityCode is node B's verdict on one purchase attempt.
// Values are wire-compatible with the status register block.
type ValidityCode uint8

const (
	ValidityNone                 ValidityCode = 0
	ValidityProduct1Insufficient ValidityCode = 2
	ValidityProduct1OK           ValidityCode = 3
	ValidityProduct2Insufficient ValidityCode = 4
	ValidityProduct2OK           ValidityCode = 5
)

// Verdict returns the code for a purchase attempt on p.
func Verdict(p Product, ok bool) ValidityCode {
	switch {
	case p == Product1 && ok:
		return ValidityProduct1OK
	case p == Product1:
		return ValidityProduct1Insufficient
	case p == Product2 && ok:
		return ValidityProduct2OK
	case p == Product2:
		return ValidityProduct2Insufficient
	default:
		return ValidityNone
	}
}

// Product returns the product the code refers to.
func (v ValidityCode) Product() Product {
	switch v {
	case ValidityProduct1Insufficient, ValidityProduct1OK:
		return Product1
	case ValidityProduct2Insufficient, ValidityProduct2OK:
		return Product2
	default:
		return NoProduct
	}
}

// OK reports an approved purchase.
func (v ValidityCode) OK() bool {
	return v == ValidityProduct1OK || v == ValidityProduct2OK
}

// Insufficient reports a purchase refused for lack of balance.
func (v ValidityCode) Insufficient() bool {
	return v == ValidityProduct1Insufficient || v == ValidityProduct2Insufficient
}

// Pending reports whether the code still waits for a consumer.
func (v ValidityCode) Pending() bool { return v != ValidityNone }

func (v ValidityCode) String() string {
	switch v {
	case ValidityNone:
		return "NONE"
	case ValidityProduct1Insufficient:
		return "PRODUCT1_INSUFFICIENT"
	case ValidityProduct1OK:
		return "PRODUCT1_OK"
	case ValidityProduct2Insufficient:
		return "PRODUCT2_INSUFFICIENT"
	case ValidityProduct2OK:
		return "PRODUCT2_OK"
	default:
		return "INVALID"
	}
}
