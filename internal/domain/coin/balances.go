package coin

import (
	"encoding/json"

	"zoracoin/pkg/errors"
)

// ProfileBalances is the balance listing returned by the coins API, kept
// exactly as received. The body is only required to be a JSON document;
// its schema belongs to the API.
type ProfileBalances struct {
	raw json.RawMessage
}

// NewProfileBalances wraps an API response body
func NewProfileBalances(body []byte) (*ProfileBalances, error) {
	if !json.Valid(body) {
		return nil, errors.Wrap(errors.ErrUnavailable, "profile balances response is not valid JSON")
	}
	raw := make(json.RawMessage, len(body))
	copy(raw, body)
	return &ProfileBalances{raw: raw}, nil
}

// Raw returns the response body
func (p *ProfileBalances) Raw() json.RawMessage {
	return p.raw
}

// MarshalJSON wraps the verbatim body as {"data": ...}
func (p *ProfileBalances) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte(`{"data":null}`), nil
	}
	out := make([]byte, 0, len(p.raw)+9)
	out = append(out, `{"data":`...)
	out = append(out, p.raw...)
	return append(out, '}'), nil
}

// Page summarizes one page of a listing
type Page struct {
	Edges       int
	HasNextPage bool
	EndCursor   string
}

// Page reads the pagination fields of the listing. Missing fields and fields
// of an unexpected type read as zero values.
func (p *ProfileBalances) Page() Page {
	var doc struct {
		Profile *struct {
			CoinBalances struct {
				Edges    []json.RawMessage `json:"edges"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"coinBalances"`
		} `json:"profile"`
	}
	// a type mismatch leaves that field zero and decoding continues
	_ = json.Unmarshal(p.raw, &doc)

	if doc.Profile == nil {
		return Page{}
	}
	balances := doc.Profile.CoinBalances
	return Page{
		Edges:       len(balances.Edges),
		HasNextPage: balances.PageInfo.HasNextPage,
		EndCursor:   balances.PageInfo.EndCursor,
	}
}
