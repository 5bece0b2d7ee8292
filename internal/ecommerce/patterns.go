package ecommerce

import "regexp"

// platformSignatures are high-confidence platform fingerprints. Checked in
// a fixed order so detection is deterministic when a page matches several.
var platformOrder = []string{
	"shopify", "woocommerce", "bigcommerce", "squarespace", "magento",
	"shopware", "prestashop",
}

var platformSignatures = map[string][]*regexp.Regexp{
	"shopify": {
		regexp.MustCompile(`cdn\.shopify\.com`),
		regexp.MustCompile(`myshopify\.com`),
		regexp.MustCompile(`shopify-assets`),
	},
	"woocommerce": {
		regexp.MustCompile(`woocommerce`),
		regexp.MustCompile(`wc-cart`),
		regexp.MustCompile(`add_to_cart`),
	},
	"bigcommerce": {
		regexp.MustCompile(`bigcommerce\.com`),
		regexp.MustCompile(`cdn\.bc`),
	},
	"squarespace": {
		regexp.MustCompile(`squarespace.*commerce`),
		regexp.MustCompile(`sqs-add-to-cart`),
	},
	"magento": {
		regexp.MustCompile(`mage/`),
		regexp.MustCompile(`magento`),
		regexp.MustCompile(`varien`),
	},
	"shopware": {
		regexp.MustCompile(`shopware`),
	},
	"prestashop": {
		regexp.MustCompile(`prestashop`),
	},
}

// actionPatterns are storefront call-to-action phrases (weight 2).
var actionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`add.to.cart`),
	regexp.MustCompile(`add.to.bag`),
	regexp.MustCompile(`buy.now`),
	regexp.MustCompile(`shop.now`),
	regexp.MustCompile(`checkout`),
	regexp.MustCompile(`shopping.cart`),
	regexp.MustCompile(`view.cart`),
}

// paymentPatterns are payment-provider references (weight 3).
var paymentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`stripe\.com`),
	regexp.MustCompile(`paypal\.com`),
	regexp.MustCompile(`square\.com`),
	regexp.MustCompile(`klarna`),
	regexp.MustCompile(`afterpay`),
	regexp.MustCompile(`affirm`),
}

// pricePatterns match visible prices (weight 1, counted once per page).
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\d+\.\d{2}`),
	regexp.MustCompile(`USD\s*\d+`),
	regexp.MustCompile(`CAD\s*\d+`),
}

var marketplaceOrder = []string{"amazon", "ebay", "walmart", "etsy"}

// marketplaceURLSpecs match seller-storefront URLs. Kept as source strings
// so the link extractor can wrap them in a full-URL pattern.
var marketplaceURLSpecs = map[string][]string{
	"amazon": {
		`amazon\.com/stores/`,
		`amazon\.com/sp\?seller=`,
		`amazon\.com/s\?me=`,
		`amazon\.ca/stores/`,
		`amazon\.co\.uk/stores/`,
	},
	"ebay": {
		`ebay\.com/str/`,
		`ebay\.com/usr/`,
		`ebay\.ca/str/`,
		`ebay\.co\.uk/str/`,
	},
	"walmart": {
		`walmart\.com/seller/`,
		`marketplace\.walmart\.com`,
	},
	"etsy": {
		`etsy\.com/shop/`,
	},
}

// urlSig pairs a match pattern with its full-URL extractor.
type urlSig struct {
	match *regexp.Regexp
	link  *regexp.Regexp
}

var marketplaceURLSigs = func() map[string][]urlSig {
	sigs := make(map[string][]urlSig, len(marketplaceURLSpecs))
	for marketplace, specs := range marketplaceURLSpecs {
		for _, spec := range specs {
			sigs[marketplace] = append(sigs[marketplace], urlSig{
				match: regexp.MustCompile(`(?i)` + spec),
				link:  regexp.MustCompile(`(?i)https?://[^\s)\]"'<>]*` + spec + `[^\s)\]"'<>]*`),
			})
		}
	}
	return sigs
}()

// marketplaceTextPatterns match badge and call-out text when no storefront
// URL appears on the page.
var marketplaceTextPatterns = map[string][]*regexp.Regexp{
	"amazon": {
		regexp.MustCompile(`(?i)shop\s+on\s+amazon`),
		regexp.MustCompile(`(?i)buy\s+on\s+amazon`),
		regexp.MustCompile(`(?i)available\s+on\s+amazon`),
		regexp.MustCompile(`(?i)our\s+amazon\s+store`),
		regexp.MustCompile(`(?i)find\s+us\s+on\s+amazon`),
	},
	"ebay": {
		regexp.MustCompile(`(?i)shop\s+on\s+ebay`),
		regexp.MustCompile(`(?i)our\s+ebay\s+store`),
		regexp.MustCompile(`(?i)find\s+us\s+on\s+ebay`),
		regexp.MustCompile(`(?i)ebay\s+store`),
	},
	"walmart": {
		regexp.MustCompile(`(?i)available\s+on\s+walmart`),
		regexp.MustCompile(`(?i)shop\s+on\s+walmart`),
		regexp.MustCompile(`(?i)walmart\s+marketplace`),
	},
	"etsy": {
		regexp.MustCompile(`(?i)shop\s+on\s+etsy`),
		regexp.MustCompile(`(?i)our\s+etsy\s+shop`),
		regexp.MustCompile(`(?i)find\s+us\s+on\s+etsy`),
	},
}
