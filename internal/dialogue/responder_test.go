package dialogue

import (
	"slices"
	"testing"

	"github.com/fairyhunter13/stylist-storefront/internal/catalog"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponder(t *testing.T, opts ...Option) *Responder {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return NewResponder(c, opts...)
}

func productIDs(ps []model.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestRuleOrder(t *testing.T) {
	var names []string
	for _, r := range DefaultRules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"birthday", "deal", "summer", "wedding", "dresses", "footwear", "accessories", "outfit"}, names)
}

func TestBirthdayGetsCodeAndNoProducts(t *testing.T) {
	r := newResponder(t)
	for _, in := range []string{"It's my BIRTHDAY!", "any birthday discount?"} {
		reply := r.Respond(in)
		assert.Equal(t, "birthday", reply.Rule)
		assert.Contains(t, reply.Text, "BDAY-20")
		assert.Empty(t, reply.Products)
	}
}

func TestDealGetsLoyaltyCode(t *testing.T) {
	r := newResponder(t)
	reply := r.Respond("can you make it cheaper")
	assert.Equal(t, "deal", reply.Rule)
	assert.Contains(t, reply.Text, "LOYAL-10")
	assert.Empty(t, reply.Products)
}

func TestSummerBeatsDresses(t *testing.T) {
	r := newResponder(t)
	reply := r.Respond("Show me summer dresses")
	assert.Equal(t, "summer", reply.Rule)
	require.NotEmpty(t, reply.Products)
	assert.LessOrEqual(t, len(reply.Products), DefaultLimit)
	for _, p := range reply.Products {
		assert.True(t, slices.Contains(p.Seasons, "summer") || slices.Contains(p.Tags, "beach"), "product %d", p.ID)
	}
	assert.Equal(t, []int64{1, 3, 4, 5}, productIDs(reply.Products))
}

func TestWeddingRule(t *testing.T) {
	r := newResponder(t)
	reply := r.Respond("what should I wear to a formal dinner")
	assert.Equal(t, "wedding", reply.Rule)
	assert.Equal(t, []int64{1, 2, 6, 8}, productIDs(reply.Products))
}

func TestCategoryRules(t *testing.T) {
	r := newResponder(t)

	dresses := r.Respond("I want a dress")
	assert.Equal(t, "dresses", dresses.Rule)
	assert.Equal(t, []int64{1, 7}, productIDs(dresses.Products))

	shoes := r.Respond("new boots please")
	assert.Equal(t, "footwear", shoes.Rule)
	assert.Equal(t, []int64{3, 8, 15}, productIDs(shoes.Products))

	bags := r.Respond("show me a bag")
	assert.Equal(t, "accessories", bags.Rule)
	assert.Equal(t, []int64{4, 5, 10, 12}, productIDs(bags.Products))
}

func TestOutfitTotal(t *testing.T) {
	r := newResponder(t)
	reply := r.Respond("Build me an outfit")
	assert.Equal(t, "outfit", reply.Rule)
	assert.Equal(t, OutfitIDs, productIDs(reply.Products))
	assert.Contains(t, reply.Text, "Total: $559.96")
}

func TestOutfitDropsMissingProducts(t *testing.T) {
	c := catalog.New([]model.Product{
		{ID: 9, Name: "Cashmere Turtleneck", Price: decimal.RequireFromString("159.99"), Category: model.CategoryClothing},
		{ID: 12, Name: "Silver Pendant Necklace", Price: decimal.RequireFromString("69.99"), Category: model.CategoryAccessories},
	})
	reply := NewResponder(c).Respond("outfit")
	assert.Equal(t, []int64{9, 12}, productIDs(reply.Products))
	assert.Contains(t, reply.Text, "Total: $229.98")
}

func TestFallbackSearch(t *testing.T) {
	r := newResponder(t)

	one := r.Respond("cashmere")
	assert.Equal(t, RuleSearch, one.Rule)
	assert.Equal(t, []int64{9}, productIDs(one.Products))
	assert.Contains(t, one.Text, "I found 1 item matching")

	many := r.Respond("leather")
	assert.Equal(t, RuleSearch, many.Rule)
	assert.Len(t, many.Products, DefaultLimit)
	assert.Contains(t, many.Text, "items matching")
}

func TestHelpPrompt(t *testing.T) {
	r := newResponder(t)
	reply := r.Respond("xyzzy")
	assert.Equal(t, RuleHelp, reply.Rule)
	assert.Empty(t, reply.Products)
	assert.Contains(t, reply.Text, "I'd love to help")
}

func TestWithLimit(t *testing.T) {
	r := newResponder(t, WithLimit(2))
	assert.Len(t, r.Respond("summer").Products, 2)
	assert.Len(t, r.Respond("leather").Products, 2)
}

func TestWithRules(t *testing.T) {
	custom := []Rule{{
		Name:     "ping",
		Keywords: []string{"ping"},
		Respond:  func(*Responder, string) Reply { return Reply{Text: "pong"} },
	}}
	r := newResponder(t, WithRules(custom))
	assert.Equal(t, "pong", r.Respond("PING").Text)
	assert.Equal(t, "ping", r.Respond("ping").Rule)
	assert.Equal(t, RuleHelp, r.Respond("birthday dress").Rule)
}
