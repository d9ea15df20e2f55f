// Package mcptools exposes the catalog query engine as Model Context
// Protocol tools so that agents can search and compare phones.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/catalog"
	"github.com/HerbHall/phonedex/internal/version"
	"github.com/HerbHall/phonedex/pkg/models"
)

const defaultSearchLimit = 20

// PhoneSummary is the compact phone record returned by list tools.
type PhoneSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Rating      float64 `json:"rating"`
	ReleaseDate string  `json:"releaseDate"`
}

func summarize(p models.Phone, c models.Currency) PhoneSummary {
	return PhoneSummary{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    string(p.Category),
		Price:       p.Prices.In(c),
		Currency:    string(c),
		Rating:      p.Ratings.Overall,
		ReleaseDate: p.ReleaseDate.String(),
	}
}

func summarizeAll(phones []models.Phone, c models.Currency) []PhoneSummary {
	out := make([]PhoneSummary, len(phones))
	for i := range phones {
		out[i] = summarize(phones[i], c)
	}
	return out
}

// SearchPhonesInput are the arguments of search_phones.
type SearchPhonesInput struct {
	Query      string   `json:"query,omitempty" jsonschema:"free text matched against name, brand and model"`
	Brands     []string `json:"brands,omitempty" jsonschema:"brand names to include"`
	Categories []string `json:"categories,omitempty" jsonschema:"categories to include: budget, mid_range, premium, flagship"`
	MinPrice   float64  `json:"min_price,omitempty" jsonschema:"lowest price in the chosen currency"`
	MaxPrice   float64  `json:"max_price,omitempty" jsonschema:"highest price in the chosen currency"`
	MinRating  float64  `json:"min_rating,omitempty" jsonschema:"minimum overall rating on a 0-10 scale"`
	Currency   string   `json:"currency,omitempty" jsonschema:"egp, usd, sar or aed; defaults to egp"`
	Sort       string   `json:"sort,omitempty" jsonschema:"latest, rating, price-low, price-high, camera or performance; catalog order when omitted"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of phones returned; defaults to 20"`
}

// PhoneListOutput is returned by search_phones and related_phones.
type PhoneListOutput struct {
	Total  int            `json:"total"`
	Phones []PhoneSummary `json:"phones"`
}

// GetPhoneInput are the arguments of get_phone.
type GetPhoneInput struct {
	ID       string `json:"id" jsonschema:"phone id, e.g. google-pixel-8-pro"`
	Currency string `json:"currency,omitempty" jsonschema:"currency of the reported price; defaults to egp"`
}

// PhoneDetail is the get_phone output.
type PhoneDetail struct {
	Summary  PhoneSummary   `json:"summary"`
	Model    string         `json:"model"`
	Prices   models.Prices  `json:"prices"`
	Ratings  models.Ratings `json:"ratings"`
	Specs    models.Specs   `json:"specs"`
	Features []string       `json:"features,omitempty"`
	Pros     []string       `json:"pros,omitempty"`
	Cons     []string       `json:"cons,omitempty"`
}

// RelatedPhonesInput are the arguments of related_phones.
type RelatedPhonesInput struct {
	ID       string `json:"id" jsonschema:"id of the phone to find alternatives for"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of phones returned; defaults to 5"`
	Currency string `json:"currency,omitempty" jsonschema:"currency of the reported prices; defaults to egp"`
}

// StatisticsInput takes no arguments.
type StatisticsInput struct{}

// ConvertPriceInput are the arguments of convert_price.
type ConvertPriceInput struct {
	Amount float64 `json:"amount" jsonschema:"amount to convert"`
	From   string  `json:"from" jsonschema:"source currency: egp, usd, sar or aed"`
	To     string  `json:"to" jsonschema:"target currency: egp, usd, sar or aed"`
}

// ConvertPriceOutput is the convert_price result.
type ConvertPriceOutput struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Result float64 `json:"result"`
}

// Tools binds the MCP tool handlers to a catalog engine.
type Tools struct {
	engine *catalog.Engine
	logger *zap.Logger
}

// New creates the tool set.
func New(engine *catalog.Engine, logger *zap.Logger) *Tools {
	return &Tools{engine: engine, logger: logger}
}

// NewServer returns an MCP server with every catalog tool registered.
func (t *Tools) NewServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: version.Service, Version: version.Short()}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_phones",
		Description: "Search the phone catalog by text, brand, category, price range and rating, sorted by the chosen key.",
	}, t.searchPhones)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_phone",
		Description: "Get the full record of one phone by id.",
	}, t.getPhone)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "related_phones",
		Description: "List phones of the same brand or category, closest in price first.",
	}, t.relatedPhones)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "catalog_statistics",
		Description: "Summarise the catalog: counts, average and extreme prices, average rating and phones per category.",
	}, t.statistics)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_price",
		Description: "Convert an amount between egp, usd, sar and aed using the fixed catalog rates.",
	}, t.convertPrice)

	return server
}

// Run serves the tools over stdio until ctx is cancelled or the client
// disconnects.
func (t *Tools) Run(ctx context.Context) error {
	t.logger.Info("MCP server starting on stdio")
	if err := t.NewServer().Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func (t *Tools) searchPhones(_ context.Context, _ *mcp.CallToolRequest, in SearchPhonesInput) (*mcp.CallToolResult, PhoneListOutput, error) {
	f := models.DefaultSearchFilters()
	f.SearchQuery = in.Query
	if in.Brands != nil {
		f.Brands = in.Brands
	}
	for _, s := range in.Categories {
		c, err := models.ParseCategory(s)
		if err != nil {
			return nil, PhoneListOutput{}, err
		}
		f.Categories = append(f.Categories, c)
	}
	currency, err := parseCurrency(in.Currency)
	if err != nil {
		return nil, PhoneListOutput{}, err
	}
	f.Currency = currency
	f.PriceRange.Min = in.MinPrice
	if in.MaxPrice > 0 {
		f.PriceRange.Max = in.MaxPrice
	}
	f.MinRating = in.MinRating

	key := catalog.SortKey(in.Sort)
	if key != "" && !key.Valid() {
		return nil, PhoneListOutput{}, fmt.Errorf("unknown sort key %q", in.Sort)
	}

	phones, err := t.engine.Search(f, key)
	if err != nil {
		return nil, PhoneListOutput{}, t.loadError(err)
	}
	out := PhoneListOutput{Total: len(phones)}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if len(phones) > limit {
		phones = phones[:limit]
	}
	out.Phones = summarizeAll(phones, currency)
	return nil, out, nil
}

func (t *Tools) getPhone(_ context.Context, _ *mcp.CallToolRequest, in GetPhoneInput) (*mcp.CallToolResult, PhoneDetail, error) {
	currency, err := parseCurrency(in.Currency)
	if err != nil {
		return nil, PhoneDetail{}, err
	}
	p, ok, err := t.engine.Phone(in.ID)
	if err != nil {
		return nil, PhoneDetail{}, t.loadError(err)
	}
	if !ok {
		return nil, PhoneDetail{}, fmt.Errorf("phone %q not found", in.ID)
	}
	return nil, PhoneDetail{
		Summary:  summarize(p, currency),
		Model:    p.Model,
		Prices:   p.Prices,
		Ratings:  p.Ratings,
		Specs:    p.Specs,
		Features: p.Features,
		Pros:     p.Pros,
		Cons:     p.Cons,
	}, nil
}

func (t *Tools) relatedPhones(_ context.Context, _ *mcp.CallToolRequest, in RelatedPhonesInput) (*mcp.CallToolResult, PhoneListOutput, error) {
	currency, err := parseCurrency(in.Currency)
	if err != nil {
		return nil, PhoneListOutput{}, err
	}
	phones, err := t.engine.Related(in.ID, in.Limit)
	if err != nil {
		return nil, PhoneListOutput{}, t.loadError(err)
	}
	return nil, PhoneListOutput{Total: len(phones), Phones: summarizeAll(phones, currency)}, nil
}

func (t *Tools) statistics(_ context.Context, _ *mcp.CallToolRequest, _ StatisticsInput) (*mcp.CallToolResult, catalog.Statistics, error) {
	stats, err := t.engine.Statistics()
	if err != nil {
		return nil, catalog.Statistics{}, t.loadError(err)
	}
	return nil, stats, nil
}

func (t *Tools) convertPrice(_ context.Context, _ *mcp.CallToolRequest, in ConvertPriceInput) (*mcp.CallToolResult, ConvertPriceOutput, error) {
	from, err := models.ParseCurrency(in.From)
	if err != nil {
		return nil, ConvertPriceOutput{}, err
	}
	to, err := models.ParseCurrency(in.To)
	if err != nil {
		return nil, ConvertPriceOutput{}, err
	}
	result := catalog.Convert(in.Amount, from, to)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, ConvertPriceOutput{}, fmt.Errorf("amount %g is out of range", in.Amount)
	}
	return nil, ConvertPriceOutput{
		Amount: in.Amount,
		From:   string(from),
		To:     string(to),
		Result: result,
	}, nil
}

func (t *Tools) loadError(err error) error {
	t.logger.Error("failed to load catalog", zap.Error(err))
	return errors.New("catalog unavailable")
}

func parseCurrency(s string) (models.Currency, error) {
	if s == "" {
		return models.CurrencyEGP, nil
	}
	return models.ParseCurrency(s)
}
