package services

import (
	"bazaar/internal/cart"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
)

// CartService answers quote requests for client-held carts. The cart itself
// lives on the client; the server only prices a submitted line list against
// current effective prices. Nothing here writes.
type CartService struct {
	Stock   *repos.StockRepo
	Promos  *repos.PromoRepo
	Pricing cart.Pricing
}

func NewCartService(stock *repos.StockRepo, promos *repos.PromoRepo, pricing cart.Pricing) *CartService {
	return &CartService{Stock: stock, Promos: promos, Pricing: pricing}
}

// Quote prices the given lines. Unknown or inactive items fail the quote;
// an unknown promo code is reported so the client can drop it and re-quote.
func (s *CartService) Quote(reqs []LineReq, promoCode string) (cart.Totals, []cart.Line, error) {
	c := cart.New()
	for _, req := range reqs {
		if req.Qty <= 0 {
			return cart.Totals{}, nil, &domain.InvalidQuantityError{Qty: req.Qty, Reason: "must be positive"}
		}
		it, err := s.Stock.Get(req.ItemID)
		if err != nil {
			return cart.Totals{}, nil, err
		}
		if !it.Active {
			return cart.Totals{}, nil, domain.ErrItemNotFound
		}
		if err := c.AddItem(it, req.Qty); err != nil {
			return cart.Totals{}, nil, err
		}
	}
	if promoCode != "" {
		p, err := s.Promos.Find(promoCode)
		if err != nil {
			return cart.Totals{}, nil, err
		}
		c.ApplyPromo(p)
	}
	return c.Totals(s.Pricing), c.Lines(), nil
}
