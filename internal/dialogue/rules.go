package dialogue

import (
	"fmt"
	"slices"

	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/shopspring/decimal"
)

// Intro is the assistant's opening message in a new chat.
const Intro = "Hey there! I'm Sophia, your personal style assistant. I can help you find the perfect outfit, recommend pieces based on your style, and even negotiate a deal for you. What are you looking for today?"

const (
	birthdayText    = "Happy Birthday! Since it's your special day, I've got something for you. Use code BDAY-20 for 20% off your next purchase! It expires in 15 minutes, so don't wait too long."
	dealText        = "I love a good negotiation! Here's what I can do - use code LOYAL-10 for 10% off. But if you tell me you're buying 3+ items, I might be able to do better..."
	summerText      = "Perfect timing! Here are some gorgeous summer picks. The Linen Summer Dress is a bestseller - breathable, elegant, and perfect for warm days. Want me to build a complete outfit?"
	weddingText     = "Love a wedding look! I've pulled some stunning options. The Linen Summer Suit is perfect for outdoor ceremonies, and the Italian Leather Loafers tie the whole look together. Shall I pair them up?"
	dressesText     = "I've got some beautiful dresses for you! The Linen Summer Dress is effortlessly chic, while the Red Cocktail Dress is a real head-turner. Which vibe are you going for?"
	footwearText    = "Great taste! The Classic White Sneakers are a wardrobe staple - they literally go with everything. If you want something more refined, the Chelsea Boots are incredibly versatile. What's the occasion?"
	accessoriesText = "Accessories can make or break an outfit! The Italian Leather Messenger Bag is a timeless investment piece, and the Aviator Sunglasses add instant cool. What's your style preference?"
	outfitText      = "Here's a curated outfit I put together! The Cashmere Turtleneck pairs beautifully with the Tailored Trousers for a sleek silhouette. Add the Chelsea Boots and Silver Pendant to complete the look. Total: $%s - want me to add the whole bundle to your bag?"
	searchText      = "I found %d item%s matching what you're looking for! Here are my top picks. Want me to filter or sort them differently?"
	helpText        = `I'd love to help with that! Try telling me what occasion you're shopping for, your budget, or describe what you have in mind. For example: "I need a summer wedding outfit under $300" or "Show me casual weekend looks."`
)

// OutfitIDs is the hand-picked look offered by the outfit rule.
var OutfitIDs = []int64{9, 18, 15, 12}

// DefaultRules is the stylist's rule list in priority order.
var DefaultRules = []Rule{
	{
		Name:     "birthday",
		Keywords: []string{"birthday"},
		Respond:  func(*Responder, string) Reply { return Reply{Text: birthdayText} },
	},
	{
		Name:     "deal",
		Keywords: []string{"discount", "cheaper", "deal"},
		Respond:  func(*Responder, string) Reply { return Reply{Text: dealText} },
	},
	{
		Name:     "summer",
		Keywords: []string{"summer", "beach", "vacation"},
		Respond: func(r *Responder, _ string) Reply {
			ps := r.catalog.Where(func(p model.Product) bool {
				return slices.Contains(p.Seasons, "summer") || slices.Contains(p.Tags, "beach")
			})
			return Reply{Text: summerText, Products: r.capped(ps)}
		},
	},
	{
		Name:     "wedding",
		Keywords: []string{"wedding", "formal"},
		Respond: func(r *Responder, _ string) Reply {
			ps := r.catalog.Where(func(p model.Product) bool {
				return slices.Contains(p.Occasions, "wedding") || slices.Contains(p.Occasions, "formal")
			})
			return Reply{Text: weddingText, Products: r.capped(ps)}
		},
	},
	{
		Name:     "dresses",
		Keywords: []string{"dress"},
		Respond: func(r *Responder, _ string) Reply {
			ps := r.catalog.Where(func(p model.Product) bool { return p.Subcategory == "dresses" })
			return Reply{Text: dressesText, Products: ps}
		},
	},
	{
		Name:     "footwear",
		Keywords: []string{"shoes", "footwear", "boots", "sneakers"},
		Respond: func(r *Responder, _ string) Reply {
			return Reply{Text: footwearText, Products: r.catalog.ByCategory(model.CategoryFootwear)}
		},
	},
	{
		Name:     "accessories",
		Keywords: []string{"bag", "accessories"},
		Respond: func(r *Responder, _ string) Reply {
			return Reply{Text: accessoriesText, Products: r.capped(r.catalog.ByCategory(model.CategoryAccessories))}
		},
	},
	{
		Name:     "outfit",
		Keywords: []string{"outfit", "build"},
		Respond: func(r *Responder, _ string) Reply {
			look := r.pick(OutfitIDs...)
			total := decimal.Zero
			for _, p := range look {
				total = total.Add(p.Price)
			}
			return Reply{Text: fmt.Sprintf(outfitText, total.StringFixed(2)), Products: look}
		},
	},
}
