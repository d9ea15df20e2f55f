package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/catalog"
	"github.com/HerbHall/phonedex/internal/testutil"
	pkgcatalog "github.com/HerbHall/phonedex/pkg/catalog"
	"github.com/HerbHall/phonedex/pkg/models"
)

func newScenarioTools() *Tools {
	return New(catalog.NewEngine(pkgcatalog.NewStaticCatalog(testutil.ScenarioPhones())), zap.NewNop())
}

func summaryIDs(phones []PhoneSummary) []string {
	ids := make([]string, len(phones))
	for i := range phones {
		ids[i] = phones[i].ID
	}
	return ids
}

func TestSearchPhones(t *testing.T) {
	tools := newScenarioTools()
	ctx := context.Background()

	tests := []struct {
		name string
		in   SearchPhonesInput
		want []string
	}{
		{"no arguments", SearchPhonesInput{}, []string{"a", "b", "c"}},
		{"brand", SearchPhonesInput{Brands: []string{"X"}}, []string{"a", "b"}},
		{"brand by rating", SearchPhonesInput{Brands: []string{"X"}, Sort: "rating"}, []string{"b", "a"}},
		{"category", SearchPhonesInput{Categories: []string{"budget"}}, []string{"a", "c"}},
		{"usd price band", SearchPhonesInput{Currency: "usd", MinPrice: 120, MaxPrice: 600}, []string{"b", "c"}},
		{"min rating", SearchPhonesInput{MinRating: 7}, []string{"b", "c"}},
		{"limit", SearchPhonesInput{Sort: "price-low", Limit: 2}, []string{"a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := tools.searchPhones(ctx, nil, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summaryIDs(out.Phones))
		})
	}
}

func TestSearchPhonesTotalBeforeLimit(t *testing.T) {
	_, out, err := newScenarioTools().searchPhones(context.Background(), nil, SearchPhonesInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Len(t, out.Phones, 1)
}

func TestSearchPhonesInvalidArguments(t *testing.T) {
	tools := newScenarioTools()
	ctx := context.Background()

	_, _, err := tools.searchPhones(ctx, nil, SearchPhonesInput{Currency: "gbp"})
	assert.True(t, errors.Is(err, models.ErrUnknownCurrency), "err = %v", err)

	_, _, err = tools.searchPhones(ctx, nil, SearchPhonesInput{Categories: []string{"luxury"}})
	assert.True(t, errors.Is(err, models.ErrUnknownCategory), "err = %v", err)

	_, _, err = tools.searchPhones(ctx, nil, SearchPhonesInput{Sort: "cheapest"})
	assert.Error(t, err)
}

func TestGetPhone(t *testing.T) {
	tools := newScenarioTools()
	ctx := context.Background()

	_, out, err := tools.getPhone(ctx, nil, GetPhoneInput{ID: "b", Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "Bravo", out.Summary.Name)
	assert.Equal(t, 500.0, out.Summary.Price)
	assert.Equal(t, "usd", out.Summary.Currency)
	assert.Equal(t, 9.0, out.Ratings.Overall)

	_, _, err = tools.getPhone(ctx, nil, GetPhoneInput{ID: "zzz"})
	assert.Error(t, err)
}

func TestRelatedPhones(t *testing.T) {
	tools := newScenarioTools()

	_, out, err := tools.relatedPhones(context.Background(), nil, RelatedPhonesInput{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, summaryIDs(out.Phones))

	_, out, err = tools.relatedPhones(context.Background(), nil, RelatedPhonesInput{ID: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, out.Phones)
}

func TestStatistics(t *testing.T) {
	_, stats, err := newScenarioTools().statistics(context.Background(), nil, StatisticsInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPhones)
	assert.Equal(t, 2, stats.TotalBrands)
	assert.Equal(t, 250.0, stats.AveragePrice.USD)
}

func TestConvertPrice(t *testing.T) {
	tools := newScenarioTools()

	_, out, err := tools.convertPrice(context.Background(), nil, ConvertPriceInput{Amount: 100, From: "USD", To: "egp"})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, out.Result)
	assert.Equal(t, "usd", out.From)

	_, _, err = tools.convertPrice(context.Background(), nil, ConvertPriceInput{Amount: 1, From: "usd", To: "gbp"})
	assert.Error(t, err)

	_, _, err = tools.convertPrice(context.Background(), nil, ConvertPriceInput{Amount: 1e308, From: "usd", To: "egp"})
	assert.Error(t, err)
}

func TestCatalogUnavailable(t *testing.T) {
	cat := pkgcatalog.NewFileCatalog("/nonexistent/phones.yaml")
	tools := New(catalog.NewEngine(cat), zap.NewNop())

	_, _, err := tools.searchPhones(context.Background(), nil, SearchPhonesInput{})
	require.Error(t, err)
	assert.Equal(t, "catalog unavailable", err.Error())
}

func connect(t *testing.T, tools *Tools) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := tools.NewServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestServerListsTools(t *testing.T) {
	cs := connect(t, newScenarioTools())

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"search_phones", "get_phone", "related_phones", "catalog_statistics", "convert_price",
	}, names)
}

func TestServerCallTool(t *testing.T) {
	cs := connect(t, newScenarioTools())

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "convert_price",
		Arguments: map[string]any{"amount": 100, "from": "usd", "to": "sar"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content = %T", res.Content[0])
	var out ConvertPriceOutput
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	assert.Equal(t, 375.0, out.Result)
}
