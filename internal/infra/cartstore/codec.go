package cartstore

import (
	"bytes"
	"encoding/json"

	"storefront/internal/domain/cart"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

// Persisted cart envelope: { "items": [ { product, variation?, cartQuantity } ] }.
// The shape is shared with any client that mirrors the cart locally, so it is
// validated strictly on the way in and rejected wholesale when it no longer
// fits; repaired carts would hide real corruption.
type envelope struct {
	Items []cart.Line `json:"items"`
}

var (
	errNotAnEnvelope  = errs.New("payload is not a cart envelope")
	errMissingProduct = errs.New("cart line has no product id")
	errBadQuantity    = errs.New("cart line quantity below 1")
)

func encodeCartPayload(lines []cart.Line) ([]byte, error) {
	return json.Marshal(envelope{Items: lines})
}

func decodeCartPayload(payload []byte) ([]cart.Line, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, errs.Mark(err, errNotAnEnvelope)
	}

	seen := make(map[cart.Key]struct{}, len(env.Items))
	for _, line := range env.Items {
		if line.Product.ID == uuid.Nil {
			return nil, errMissingProduct
		}
		if line.Quantity < 1 {
			return nil, errBadQuantity
		}
		// duplicate keys mean the payload was not written by us
		if _, dup := seen[line.Key()]; dup {
			return nil, errNotAnEnvelope
		}
		seen[line.Key()] = struct{}{}
	}

	return env.Items, nil
}
