package catalog

// Product is a sellable item as shown on the storefront.
type Product struct {
	ID       int64  `json:"id"       mapstructure:"id"`
	Name     string `json:"name"     mapstructure:"name"`
	Weight   string `json:"weight"   mapstructure:"weight"`
	Price    string `json:"price"    mapstructure:"price"`
	ImageURL string `json:"imageUrl" mapstructure:"image_url"`
}

// Category groups products under a storefront tab.
type Category struct {
	Key      string    `json:"key"      mapstructure:"key"`
	Title    string    `json:"title"    mapstructure:"title"`
	Products []Product `json:"products" mapstructure:"products"`
}

// Catalog is the ordered list of categories.
type Catalog struct {
	Categories []Category `json:"categories" mapstructure:"categories"`
}

// Default is the retailer's standard assortment.
func Default() Catalog {
	return Catalog{Categories: []Category{
		{
			Key:   "postas",
			Title: "Postas",
			Products: []Product{
				{ID: 1, Name: "Salmão em Posta", Weight: "500g", Price: "R$ 42,90", ImageURL: "https://images.unsplash.com/photo-1559589312-e8e79a2be650"},
				{ID: 2, Name: "Atum em Posta", Weight: "400g", Price: "R$ 38,90", ImageURL: "https://images.unsplash.com/photo-1583953595980-e58272121563"},
				{ID: 3, Name: "Bacalhau em Posta", Weight: "600g", Price: "R$ 89,90", ImageURL: "https://images.unsplash.com/photo-1664288377740-1bec924cd622"},
				{ID: 4, Name: "Merluza em Posta", Weight: "450g", Price: "R$ 28,90", ImageURL: "https://images.unsplash.com/photo-1664288377740-1bec924cd622"},
			},
		},
		{
			Key:   "inteiros",
			Title: "Inteiros",
			Products: []Product{
				{ID: 5, Name: "Dourada Inteira", Weight: "800g - 1kg", Price: "R$ 52,90/kg", ImageURL: "https://images.unsplash.com/photo-1611764060952-db319bcfb686"},
				{ID: 6, Name: "Robalo Inteiro", Weight: "1kg - 1.5kg", Price: "R$ 68,90/kg", ImageURL: "https://images.unsplash.com/photo-1674574752509-1754d8098241"},
				{ID: 7, Name: "Pargo Inteiro", Weight: "900g - 1.2kg", Price: "R$ 48,90/kg", ImageURL: "https://images.unsplash.com/photo-1716816211582-ef70b1cd2e70"},
				{ID: 8, Name: "Sardinha Inteira", Weight: "400g", Price: "R$ 18,90/kg", ImageURL: "https://images.unsplash.com/photo-1611764060952-db319bcfb686"},
			},
		},
		{
			Key:   "crustaceos",
			Title: "Crustáceos",
			Products: []Product{
				{ID: 9, Name: "Camarão Sete Barbas", Weight: "500g", Price: "R$ 45,90", ImageURL: "https://images.unsplash.com/photo-1504309250229-4f08315f3b5c"},
				{ID: 10, Name: "Lagosta Viva", Weight: "700g - 900g", Price: "R$ 159,90/kg", ImageURL: "https://images.unsplash.com/photo-1738342570928-c64e62946dcd"},
				{ID: 11, Name: "Caranguejo Inteiro", Weight: "600g", Price: "R$ 58,90", ImageURL: "https://images.unsplash.com/photo-1625248442085-10a1a2563dd6"},
				{ID: 12, Name: "Camarão Tigre", Weight: "400g", Price: "R$ 62,90", ImageURL: "https://images.unsplash.com/photo-1504309250229-4f08315f3b5c"},
			},
		},
		{
			Key:   "moluscos",
			Title: "Moluscos",
			Products: []Product{
				{ID: 13, Name: "Mexilhão Fresco", Weight: "1kg", Price: "R$ 24,90", ImageURL: "https://images.unsplash.com/photo-1561821546-64ee29fd9e3d"},
				{ID: 14, Name: "Ostras Frescas", Weight: "12 unidades", Price: "R$ 78,90", ImageURL: "https://images.unsplash.com/photo-1562009956-c5093f408a88"},
				{ID: 15, Name: "Vôngole (Amêijoas)", Weight: "800g", Price: "R$ 32,90", ImageURL: "https://images.unsplash.com/photo-1448043552756-e747b7a2b2b8"},
				{ID: 16, Name: "Polvo Fresco", Weight: "1.2kg", Price: "R$ 89,90/kg", ImageURL: "https://images.unsplash.com/photo-1448043552756-e747b7a2b2b8"},
			},
		},
	}}
}
