// Package lexicon holds the keyword lists used for relevance and sector scoring.
// Order matters: the relevance justification names the first keyword hit, and
// sector ties are broken by position in Sectors.
package lexicon

import "mccia-news/pkg/domain"

// Relevance is the flat accept list. Duplicates are kept as curated.
var Relevance = []string{
	// Core MCCIA & location
	"mccia", "maharashtra chamber", "pune chamber", "maharashtra", "pune",
	"western maharashtra", "marathwada", "vidarbha",
	// General business terms
	"industry", "trade", "commerce", "business", "economy", "economic", "enterprise",
	"sme", "msme", "startup", "entrepreneurship", "innovation",
	"policy", "regulation", "gst", "taxation", "budget",
	"investment", "fdi", "funding", "venture capital",
	"export", "import", "foreign trade", "supply chain", "logistics",
	"manufacturing", "production", "industrial growth", "industrial policy",
	"skill development", "workforce", "employment",
	"infrastructure", "development",
	// Chamber activities
	"mccia event", "mccia initiative", "mccia report", "mccia survey",
	"business delegation", "trade fair", "exhibition", "conference maharashtra",
	"ease of doing business", "sectoral growth", "economic outlook maharashtra",

	"manufacturing plant", "industrial production", "factory", "plant operations", "oem",
	"industrial automation", "production line", "supply chain manufacturing", "lean manufacturing",
	"heavy industry", "light industry", "industrial machinery", "make in india", "make in maharashtra",

	"farm", "farmer", "farming", "crop", "agri", "agriculture policy", "agribusiness",
	"horticulture", "irrigation", "apmc", "msp", "fertilizer", "pesticide",
	"food processing", "dairy", "livestock", "fisheries", "rural development",

	"export", "import", "international trade", "exim", "foreign investment",
	"trade agreement", "fta", "customs", "tariff", "duties", "wto",
	"logistics international", "shipping", "global value chain", "trade balance", "forex",

	"msme", "sme", "small and medium enterprise", "micro enterprise", "small scale industry",
	"msme policy", "sme finance", "msme support", "udyog aadhaar", "msme registration", "startup india",

	"automotive industry", "auto sector", "vehicle manufacturing", "car production", "two-wheeler",
	"commercial vehicle", "electric vehicle", "ev policy", "auto components", "auto ancillary",
	"automobile", "automotive supply chain",

	"technology", "innovation", "startup ecosystem", "r&d", "research and development",
	"it services", "software", "saas", "ai", "ml", "iot", "blockchain", "fintech",
	"biotech", "pharma", "healthtech", "edtech", "deep tech", "incubation", "accelerator", "intellectual property",

	"women entrepreneurs", "female founders", "women in business", "women-led startups", "women empowerment",
	"she leads", "women's economic development", "gender equality business", "women in tech", "women in manufacturing",

	"government policy", "regulatory changes", "policy announcement", "draft policy", "public consultation",
	"government notification", "policy impact", "legislative update", "economic policy", "trade policy",
	"industrial policy", "budget announcement", "tax reform", "gst council",

	"economy", "economic growth", "gdp", "inflation", "fiscal policy", "monetary policy",
	"market trend", "business sentiment", "policy update", "government scheme", "budget allocation",
	"corporate news", "mergers", "acquisitions", "financial results",
}

// SectorKeywords pairs a sector with the keywords that score for it
type SectorKeywords struct {
	Sector   domain.Sector
	Keywords []string
}

// Sectors is the per-sector scoring table, in tie-break order.
var Sectors = []SectorKeywords{
	{domain.Agriculture, []string{
		"farm", "farmer", "farming", "crop", "agri", "agriculture policy", "agribusiness",
		"horticulture", "irrigation", "apmc", "msp", "fertilizer", "pesticide",
		"food processing", "dairy", "livestock", "fisheries", "rural development",
	}},
	{domain.ForeignTrade, []string{
		"export", "import", "international trade", "exim", "foreign investment",
		"trade agreement", "fta", "customs", "tariff", "duties", "wto",
		"logistics international", "shipping", "global value chain", "trade balance", "forex",
	}},
	{domain.Manufacturing, []string{
		"manufacturing plant", "industrial production", "factory", "plant operations", "oem",
		"industrial automation", "production line", "supply chain manufacturing", "lean manufacturing",
		"heavy industry", "light industry", "industrial machinery", "make in india", "make in maharashtra",
	}},
	{domain.MSME, []string{
		"msme", "sme", "small and medium enterprise", "micro enterprise", "small scale industry",
		"msme policy", "sme finance", "msme support", "udyog aadhaar", "msme registration", "startup india",
	}},
	{domain.Automotive, []string{
		"automotive industry", "auto sector", "vehicle manufacturing", "car production", "two-wheeler",
		"commercial vehicle", "electric vehicle", "ev policy", "auto components", "auto ancillary",
		"automobile", "automotive supply chain",
	}},
	{domain.TechInnovation, []string{
		"technology", "innovation", "startup ecosystem", "r&d", "research and development",
		"it services", "software", "saas", "ai", "ml", "iot", "blockchain", "fintech",
		"biotech", "pharma", "healthtech", "edtech", "deep tech", "incubation", "accelerator", "intellectual property",
	}},
	{domain.WomenEntrepreneurship, []string{
		"women entrepreneurs", "female founders", "women in business", "women-led startups", "women empowerment",
		"she leads", "women's economic development", "gender equality business", "women in tech", "women in manufacturing",
	}},
	{domain.PolicyUpdates, []string{
		"government policy", "regulatory changes", "policy announcement", "draft policy", "public consultation",
		"government notification", "policy impact", "legislative update", "economic policy", "trade policy",
		"industrial policy", "budget announcement", "tax reform", "gst council",
	}},
	{domain.GeneralBusinessNews, []string{
		"economy", "economic growth", "gdp", "inflation", "fiscal policy", "monetary policy",
		"market trend", "business sentiment", "policy update", "government scheme", "budget allocation",
		"corporate news", "mergers", "acquisitions", "financial results",
	}},
}

// KeywordsFor returns the keyword list of a sector, or nil for Uncategorized and unknown sectors
func KeywordsFor(sector domain.Sector) []string {
	for _, sk := range Sectors {
		if sk.Sector == sector {
			return sk.Keywords
		}
	}
	return nil
}
