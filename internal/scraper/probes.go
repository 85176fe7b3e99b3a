package scraper

import "github.com/maltedev/luluka-scraper/internal/probe"

// URL markers identifying the two page kinds of interest. Both appear as
// query-bearing hrefs in anchors.
const (
	categoryURLMarker = "LlistatDeProductes.aspx?idcategoria="
	productURLMarker  = "fitxaProducte.aspx?idproducte="
)

// Sentinels substituted when a field cannot be determined, so output rows
// stay structurally uniform. Kept in the site's language: they are visible
// export values.
const (
	noReferenceSentinel = "Sin referencia"
	askPriceSentinel    = "Consultar"
	unnamedProduct      = "Producto sin nombre"
	standardVariant     = "Variante estándar"
	variantsLabel       = "Variantes"
	currencySymbol      = "€"
)

// Category anchors live in one of a handful of common navigation containers.
// Unlike the other tables these are aggregated, not first-wins: a site may
// spread category links over nav and menu at once.
var categoryContainerProbes = probe.List(
	"ul.nav li a",
	".menu a",
	".categories a",
	".navbar a",
)

// Product links on a category listing, most specific first. The last probe
// accepts any product anchor anywhere on the page.
var productListProbes = probe.List(
	`table tr td a[href*="fitxaProducte.aspx"]`,
	".product-item a",
	".item a",
	".product a",
	`a[href*="fitxaProducte.aspx"]`,
)

// Fallback for anchors without their own text: a title-ish child of the
// anchor's parent.
var productNameProbes = probe.List("h3, h4, .title, .name, strong")

var productTypeProbes = probe.List(".product-type", ".type", ".category")

var priceProbes = probe.List(
	".price",
	".product-price",
	".precio",
	`span[itemprop="price"]`,
	"strong",
)

var availabilityProbes = probe.List(".availability", ".stock", ".disponibilidad")

var descriptionProbes = probe.List(
	".product-description",
	".description",
	".details",
	".product-details",
	`[itemprop="description"]`,
	".info",
	"p",
)

// Variant containers require at least two matches: a single hit is as likely
// a structural false positive as a one-variant product, so it is not treated
// as a variant set.
var variantProbes = []probe.Probe{
	{Selector: ".product-variants .variant-item", MinMatches: 2},
	{Selector: ".variants .item", MinMatches: 2},
	{Selector: "select option", MinMatches: 2},
	{Selector: `input[type="radio"][name="variant"]`, MinMatches: 2},
	{Selector: "table tr", MinMatches: 2},
}

var variantNameProbes = probe.List(".name, .title, td:first-child")

var variantPriceProbes = probe.List(".price", "td:nth-child(2)")
