package square

import (
	"context"

	sq "github.com/square/square-go-sdk"
)

// ListCustomerCards returns the enabled cards on file for a customer across all pages.
func (c *Client) ListCustomerCards(ctx context.Context, customerID string) ([]Card, error) {
	req := &sq.ListCardsRequest{CustomerID: ptrString(customerID)}
	return call(ctx, c, "list_cards", map[string]any{"customer_id": customerID}, func(ctx context.Context) ([]Card, error) {
		page, err := c.sdk.Cards.List(ctx, req)
		if err != nil {
			return nil, err
		}
		var cards []Card
		iter := page.Iterator()
		for iter.Next(ctx) {
			var card Card
			if err := decode(iter.Current(), &card); err != nil {
				return nil, decodeFailure("list_cards", err)
			}
			cards = append(cards, card)
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return cards, nil
	})
}

// DisableCard disables a card on file. Square has no hard delete for cards.
func (c *Client) DisableCard(ctx context.Context, cardID string) (*Card, error) {
	req := &sq.DisableCardsRequest{CardID: cardID}
	resp, err := call(ctx, c, "disable_card", map[string]any{"id": cardID}, func(ctx context.Context) (*sq.DisableCardResponse, error) {
		return c.sdk.Cards.Disable(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Card *Card `json:"card"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure("disable_card", err)
	}
	if out.Card == nil {
		return nil, mapSquareError(emptyResponse("disable_card", "card"))
	}
	return out.Card, nil
}
