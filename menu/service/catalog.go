package service

import (
	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type dish struct {
	slug, name, description, image string
	price                          int64
}

var houseCategories = []entity.Category{
	{Name: "Appetizers", Slug: "starters", DisplayOrder: 1},
	{Name: "Signature Mains", Slug: "main-course", DisplayOrder: 2},
	{Name: "Artisan Drinks", Slug: "drinks", DisplayOrder: 3},
	{Name: "Grand Finales", Slug: "desserts", DisplayOrder: 4},
}

const unsplash = "https://images.unsplash.com/"

var houseDishes = []dish{
	{"starters", "Honey Glazed Halloumi", "Caramelized Cypriot cheese with wildflower honey and toasted sesame.", "photo-1691200007743-0652bbbc1d7d", 850},
	{"starters", "Mediterranean Octopus", "Tender charred tentacles with lemon-infused olive oil and paprika silk.", "photo-1565557623262-b51c2513a641", 1450},
	{"starters", "Golden Truffle Arancini", "Crispy risotto spheres with a wild mushroom and truffle heart.", "photo-1541529086526-db283c563270", 750},
	{"starters", "Ahi Tuna Tartare", "Hand-cut yellowfin tuna with avocado and ginger-soy reduction.", "photo-1546039907-7fa05f864c02", 1250},

	{"main-course", "Miso Glazed Black Cod", "Sweet miso-marinated cod seared to a buttery finish.", "photo-1519708227418-c8fd9a32b7a2", 3200},
	{"main-course", "Butter Poached Lobster", "Maine lobster poached in cultured butter with saffron bisque.", "photo-1533682805518-48d1f5b8cd3a", 4500},
	{"main-course", "Black Truffle Tagliatelle", "Silky pasta ribbons tossed in a parmesan-truffle cream.", "photo-1473093226795-af9932fe5856", 1950},
	{"main-course", "Pan Roasted Sea Bream", "Crispy skin white fish with fennel salad and aromatic herb oil.", "photo-1580476262798-bddd9f4b7369", 2400},
	{"main-course", "Slow Cooked Lamb Shank", "Tender braised lamb in a rosemary and port wine reduction.", "photo-1544025162-d76694265947", 2800},
	{"main-course", "Sea Bass Pao", "Sea bass steamed with soy-ginger glaze and Asian greens.", "photo-1504674900247-0877df9cc836", 2600},

	{"drinks", "Sparkling Yuzu Soda", "Effervescent Japanese citrus with organic cane syrup.", "photo-1513558161293-cdaf765ed2fd", 450},
	{"drinks", "Matcha Rose Frappe", "Ceremonial grade matcha blended with rose and oat milk.", "photo-1576092768241-dec231879fc3", 550},

	{"desserts", "24K Gold Chocolate Fondant", "Molten chocolate center with 24k edible gold leaf.", "photo-1481391243133-f96216dcb5d2", 950},
	{"desserts", "Berry Blush Cheesecake", "Madagascar vanilla cheesecake with forest berry reduction.", "photo-1533134242443-d4fd215305ad", 750},
	{"desserts", "Vanilla Bean Pannacotta", "Silky cream infused with vanilla beans and passionfruit coulis.", "photo-1488477181946-6428a0291777", 850},
}

// HouseCatalog returns fresh copies of the seed categories and dishes with
// ids assigned, dishes already pointing at their category.
func HouseCatalog() ([]entity.Category, []entity.MenuItem) {
	cats := make([]entity.Category, len(houseCategories))
	bySlug := make(map[string]uuid.UUID, len(houseCategories))
	for i, c := range houseCategories {
		c.ID = uuid.New()
		cats[i] = c
		bySlug[c.Slug] = c.ID
	}
	items := make([]entity.MenuItem, 0, len(houseDishes))
	for _, d := range houseDishes {
		items = append(items, entity.MenuItem{
			ID:          uuid.New(),
			CategoryID:  bySlug[d.slug],
			Name:        d.name,
			Description: d.description,
			Price:       decimal.NewFromInt(d.price),
			ImageURL:    unsplash + d.image + "?q=80&w=800&auto=format&fit=crop",
			IsAvailable: true,
		})
	}
	return cats, items
}
