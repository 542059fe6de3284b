package feed

import (
	"sort"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
)

// renderFunc turns a normalized product list into serialized feed content
// plus the products/variants counts surviving the request filters. Renderers
// are pure: no I/O, no hidden state.
type renderFunc func(products []catalog.Product, req Request) (string, int, int, error)

// categories is the full catalog of recognized format identifiers, grouped
// for discovery listing. Most are not implemented yet; the listing doubles
// as the "coming soon" roadmap.
var categories = map[string][]string{
	"global": {
		"google-shopping", "microsoft-ads", "facebook", "instagram",
		"tiktok-shop", "pinterest", "snapchat", "twitter", "reddit-ads",
		"youtube-commerce",
	},
	"marketplaces": {
		"amazon", "ebay", "etsy", "aliexpress", "alibaba", "rakuten",
		"walmart", "target-plus", "zalando", "otrium", "bol", "kaufland",
		"allegro", "ceneo", "idealo", "heureka", "glami", "favi", "peppery",
		"empik", "morele", "shopee", "lazada", "ozon", "wildberries",
		"mercado-libre", "noon",
	},
	"comparison": {
		"prisjakt", "kelkoo", "shopmania", "shopalike", "twenga",
		"pricegrabber", "shoppingcom", "idealo-pl", "cenowarka", "okazje",
		"nokaut", "trovaprezzi", "pricerunner", "shopzilla",
	},
	"retargeting": {
		"criteo", "adroll", "rtb-house", "tradedoubler", "awin", "impact",
		"outbrain", "taboola",
	},
	"analytics": {
		"affiliate-window", "partnerize", "linkshare", "commission-junction",
		"price2spy", "competera",
	},
	"dataFormats": {
		"yandex-yml", "custom-xml", "custom-json", "csv", "tsv", "xlsx",
		"rss", "atom", "jsonld",
	},
	"platforms": {
		"shopify-catalog", "woocommerce", "magento", "prestashop",
		"bigcommerce", "shoper", "sky-shop", "comarch-erp",
	},
	"technical": {
		"feedbuilderly-api", "webhooks", "sitemap", "inventory",
		"price-monitoring", "performance-export", "debug",
	},
}

// renderers binds implemented format identifiers to their renderer. Several
// networks consume the Google Shopping layout unchanged, so they alias the
// same renderer.
var renderers = map[string]renderFunc{
	// Google Shopping layout and its aliases.
	"google-shopping": renderGoogleShopping,
	"facebook":        renderGoogleShopping,
	"microsoft-ads":   renderGoogleShopping,
	"criteo":          renderGoogleShopping,
	"zalando":         renderGoogleShopping,
	"amazon":          renderGoogleShopping,
	"shopzilla":       renderGoogleShopping,
	"rtb-house":       renderGoogleShopping,

	// Marketplace XML formats.
	"allegro":     renderMarketplaceXML(marketplaceSpecs["allegro"]),
	"empik":       renderMarketplaceXML(marketplaceSpecs["empik"]),
	"kaufland":    renderMarketplaceXML(marketplaceSpecs["kaufland"]),
	"heureka":     renderMarketplaceXML(marketplaceSpecs["heureka"]),
	"kelkoo":      renderMarketplaceXML(marketplaceSpecs["kelkoo"]),
	"glami":       renderMarketplaceXML(marketplaceSpecs["glami"]),
	"trovaprezzi": renderMarketplaceXML(marketplaceSpecs["trovaprezzi"]),
	"pricerunner": renderMarketplaceXML(marketplaceSpecs["pricerunner"]),
	"twenga":      renderMarketplaceXML(marketplaceSpecs["twenga"]),

	// Yandex Market Language.
	"yandex-yml": renderYandexYML,

	// Delimited text formats.
	"ceneo":    renderDelimited(delimitedSpecs["ceneo"]),
	"idealo":   renderDelimited(delimitedSpecs["idealo"]),
	"bol":      renderDelimited(delimitedSpecs["bol"]),
	"prisjakt": renderDelimited(delimitedSpecs["prisjakt"]),
}

// delimitedFormats drives the Content-Type decision at the HTTP edge.
var delimitedFormats = map[string]bool{
	"ceneo":    true,
	"idealo":   true,
	"bol":      true,
	"prisjakt": true,
	"csv":      true,
	"tsv":      true,
}

// Resolve returns the renderer for a format, or an
// *UnimplementedFormatError naming the implemented set.
func Resolve(format string) (renderFunc, error) {
	fn, ok := renderers[format]
	if !ok {
		return nil, &UnimplementedFormatError{Format: format, Implemented: Implemented()}
	}
	return fn, nil
}

// IsImplemented reports whether a format has a renderer binding.
func IsImplemented(format string) bool {
	_, ok := renderers[format]
	return ok
}

// IsRecognized reports whether a format appears in the catalog at all.
func IsRecognized(format string) bool {
	for _, formats := range categories {
		for _, f := range formats {
			if f == format {
				return true
			}
		}
	}
	return false
}

// IsDelimited reports whether a format serializes to delimited text rather
// than XML.
func IsDelimited(format string) bool { return delimitedFormats[format] }

// Implemented returns the sorted list of formats with a renderer binding.
func Implemented() []string {
	formats := make([]string, 0, len(renderers))
	for f := range renderers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Categories returns the full recognized-format catalog grouped by
// category, including identifiers without a renderer yet.
func Categories() map[string][]string {
	out := make(map[string][]string, len(categories))
	for name, formats := range categories {
		out[name] = append([]string(nil), formats...)
	}
	return out
}

// TotalFormats is the number of recognized identifiers across categories.
func TotalFormats() int {
	n := 0
	for _, formats := range categories {
		n += len(formats)
	}
	return n
}
