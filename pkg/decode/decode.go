// Package decode materializes decoded JSON values into pooled node chains.
// It is the bulk producer side of pkg/pool: a JSON array is streamed element
// by element, and each element lands in one pooled node, so building a
// million-element list costs a few block allocations instead of a million.
package decode

import (
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/chainpool/pkg/errors"
	"github.com/ajitpratap0/chainpool/pkg/pool"
)

// List streams a JSON array from r into p, one node per array element, and
// returns the head of the resulting chain along with the element count. The
// chain's order is the array's order. An empty array yields a nil head and a
// count of zero.
//
// Elements decode to the usual dynamic JSON types (map[string]interface{},
// []interface{}, string, float64, bool, nil). On a decode or allocation
// failure the error is returned and the partially built chain stays owned by
// the pool; destroying the pool reclaims it.
func List(r io.Reader, p *pool.Pool) (*pool.Node, int, error) {
	dec := gojson.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrorTypeData, "reading list start failed")
	}
	if delim, ok := tok.(gojson.Delim); !ok || delim != '[' {
		return nil, 0, errors.New(errors.ErrorTypeData, "input is not a JSON array").
			WithDetail("token", tok)
	}

	var head *pool.Node
	count := 0
	for dec.More() {
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrorTypeData, "decoding list element failed").
				WithDetail("element", count)
		}

		node, err := p.Allocate()
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrorTypeCapacity, "allocating list node failed").
				WithDetail("element", count)
		}
		node.Value = value

		if head == nil {
			head = node
		}
		count++
	}

	// Consume the closing bracket so trailing-garbage errors surface here
	// rather than in the caller's next read.
	if _, err := dec.Token(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrorTypeData, "reading list end failed")
	}

	return head, count, nil
}

// Values builds a chain directly from already-decoded values, one node per
// value in argument order. It returns the head of the chain, or nil for an
// empty value set.
func Values(p *pool.Pool, values ...interface{}) (*pool.Node, error) {
	var head *pool.Node
	for i, v := range values {
		node, err := p.Allocate()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCapacity, "allocating list node failed").
				WithDetail("element", i)
		}
		node.Value = v
		if head == nil {
			head = node
		}
	}
	return head, nil
}
