package profile

import (
	"net/url"
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Link normalization and risk heuristics
// ---------------------------------------------------------------------------

var (
	bioLinkRe = regexp.MustCompile(`https?://[^\s]+`)
	ipv4Re    = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)
)

// suspiciousDomains is the fixed block list: shorteners and trackers that
// hide the real destination. Matched as equality or subdomain suffix.
var suspiciousDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"t.co",
	"goo.gl",
	"is.gd",
	"cutt.ly",
	"rb.gy",
	"ow.ly",
	"buff.ly",
	"rebrand.ly",
	"shorturl.at",
	"tiny.cc",
	"grabify.link",
	"iplogger.org",
}

// brandDomains are the second-level labels checked for typosquatting.
var brandDomains = []string{
	"google", "facebook", "twitter", "instagram", "telegram", "discord",
	"metamask", "coinbase", "binance", "opensea", "paypal", "apple",
	"microsoft", "amazon", "farcaster", "warpcast",
}

// scamKeywordPairs flag mini-app/scam lures when both words appear in the
// URL.
var scamKeywordPairs = [][2]string{
	{"claim", "airdrop"},
	{"free", "mint"},
	{"verify", "wallet"},
	{"connect", "wallet"},
	{"double", "crypto"},
	{"bonus", "deposit"},
}

// NormalizeLink trims trailing punctuation and rejects anything that is not
// an absolute http(s) URL with a host. ok is false for malformed input,
// which callers drop silently.
func NormalizeLink(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, `.,;:!?)]}>'"`)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	if u.Hostname() == "" {
		return "", false
	}
	return raw, true
}

// ExtractLinks pulls http(s) URLs out of free bio text.
func ExtractLinks(bio string) []string {
	if bio == "" {
		return nil
	}
	return bioLinkRe.FindAllString(bio, -1)
}

// Host returns the lowercase host of a link, without port. Empty on
// malformed input.
func Host(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func isPunycodeHost(host string) bool {
	for _, label := range strings.Split(host, ".") {
		if strings.HasPrefix(label, "xn--") {
			return true
		}
	}
	return false
}

// IsSuspiciousDomain reports whether the link's host is on the block list
// (equality or subdomain), is an IDNA-punycode host, or is an IPv4 literal.
func IsSuspiciousDomain(link string) bool {
	host := Host(link)
	if host == "" {
		return false
	}
	if isPunycodeHost(host) || ipv4Re.MatchString(host) {
		return true
	}
	for _, d := range suspiciousDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// IsLikelyPhishingURL applies the stricter phishing heuristics: punycode or
// IP-literal hosts, deep label nesting, embedded userinfo, brand
// typosquats, and scam keyword conjunctions.
func IsLikelyPhishingURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	if isPunycodeHost(host) || ipv4Re.MatchString(host) {
		return true
	}
	labels := strings.Split(host, ".")
	if len(labels) >= 5 {
		return true
	}
	if u.User != nil {
		return true
	}
	if len(labels) >= 2 {
		second := labels[len(labels)-2]
		for _, brand := range brandDomains {
			if second == brand {
				break // exact brand label, not a squat
			}
			allowed := 1
			if len(second) >= 6 {
				allowed = 2
			}
			if d := levenshtein(second, brand); d > 0 && d <= allowed {
				return true
			}
			if sub := substituteDigits(second); sub != second && sub == brand {
				return true
			}
		}
	}
	lower := strings.ToLower(link)
	for _, pair := range scamKeywordPairs {
		if strings.Contains(lower, pair[0]) && strings.Contains(lower, pair[1]) {
			return true
		}
	}
	return false
}

// LinkDiversity is uniqueHosts/len(links); 1 for an empty list.
func LinkDiversity(links []string) float64 {
	if len(links) == 0 {
		return 1
	}
	return float64(UniqueHosts(links)) / float64(len(links))
}

// UniqueHosts counts distinct hosts across the link list.
func UniqueHosts(links []string) int {
	hosts := make(map[string]struct{}, len(links))
	for _, l := range links {
		if h := Host(l); h != "" {
			hosts[h] = struct{}{}
		}
	}
	return len(hosts)
}

var digitSubstitutions = map[rune]rune{
	'0': 'o', '1': 'l', '3': 'e', '4': 'a',
	'5': 's', '7': 't', '8': 'b', '9': 'g',
}

func substituteDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if sub, ok := digitSubstitutions[r]; ok {
			return sub
		}
		return r
	}, s)
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
