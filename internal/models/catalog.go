package models

// Category is one catalog category discovered on the site root. URL is the
// category's identity: no two categories in a result share one.
type Category struct {
	Name string `json:"category"`
	URL  string `json:"link"`
}

// ProductRef points at one product detail page. URLs are absolute and
// deduplicated across the whole list-extraction run.
type ProductRef struct {
	Category string `json:"category"`
	Name     string `json:"product"`
	URL      string `json:"link"`
}

// ProductDetail is one export row. A product with variants yields one row per
// variant; a product without yields a single row whose VariantName repeats
// the product name.
type ProductDetail struct {
	Category     string `json:"category"`
	Ref          string `json:"ref"`
	Product      string `json:"product"`
	Type         string `json:"type"`
	VariantName  string `json:"product_variant"`
	VariantGroup string `json:"variant"`
	Price        string `json:"price"`
	Availability string `json:"availability"`
	Description  string `json:"description"`
	URL          string `json:"link"`
}

// Result bundles the three record sets a complete run produces.
type Result struct {
	Categories []Category      `json:"categories"`
	Products   []ProductRef    `json:"products"`
	Details    []ProductDetail `json:"details"`
}
