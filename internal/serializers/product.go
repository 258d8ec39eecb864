package serializers

import (
	"math"
	"time"

	"storefront/internal/models"
)

const taxRate = 1.1

// ProductInput es el esquema de escritura de un producto
type ProductInput struct {
	Title        string  `json:"title" binding:"required,max=255"`
	Slug         string  `json:"slug" binding:"required,max=255"`
	Description  string  `json:"description"`
	UnitPrice    float64 `json:"unit_price" binding:"required,gte=1,lte=9999.99"`
	Inventory    int     `json:"inventory" binding:"gte=0"`
	CollectionID string  `json:"collection" binding:"required"`
}

// ProductInputFrom parte del producto guardado; sirve de base para PATCH
func ProductInputFrom(p *models.Product) ProductInput {
	return ProductInput{
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		UnitPrice:    p.UnitPrice,
		Inventory:    p.Inventory,
		CollectionID: p.CollectionID.Hex(),
	}
}

// Apply copia los campos de entrada; la colección se resuelve aparte
func (in ProductInput) Apply(p *models.Product) {
	p.Title = in.Title
	p.Slug = in.Slug
	p.Description = in.Description
	p.UnitPrice = roundPrice(in.UnitPrice)
	p.Inventory = in.Inventory
}

type CollectionLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ProductOutput struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Inventory    int             `json:"inventory"`
	UnitPrice    float64         `json:"unit_price"`
	PriceWithTax float64         `json:"price_with_tax"`
	LastUpdate   time.Time       `json:"last_update"`
	Collection   *CollectionLink `json:"collection"`
}

func NewProductOutput(p *models.Product, rc RequestContext) ProductOutput {
	out := ProductOutput{
		ID:           p.ID.Hex(),
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Inventory:    p.Inventory,
		UnitPrice:    p.UnitPrice,
		PriceWithTax: PriceWithTax(p.UnitPrice),
		LastUpdate:   p.LastUpdate,
	}
	if !p.CollectionID.IsZero() {
		id := p.CollectionID.Hex()
		out.Collection = &CollectionLink{ID: id, URL: rc.Resource("collections", id)}
		if p.Collection != nil {
			out.Collection.Title = p.Collection.Title
		}
	}
	return out
}

type ProductPage struct {
	Count    int64           `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []ProductOutput `json:"results"`
}

func NewProductPage(products []*models.Product, total int64, page, pageSize int, rc RequestContext) ProductPage {
	results := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		results = append(results, NewProductOutput(p, rc))
	}

	out := ProductPage{Count: total, Results: results}
	if int64(page*pageSize) < total {
		next := rc.Page(page + 1)
		out.Next = &next
	}
	if page > 1 {
		prev := rc.Page(page - 1)
		out.Previous = &prev
	}
	return out
}

func PriceWithTax(unitPrice float64) float64 {
	return roundPrice(unitPrice * taxRate)
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
