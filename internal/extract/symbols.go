package extract

import (
	"regexp"
	"sort"
	"strings"
)

// dollarSymbolRe matches dollar-tagged tickers like "$AMD".
var dollarSymbolRe = regexp.MustCompile(`\$([A-Z]{2,5})\b`)

// stopList holds uppercase tokens that match the ticker pattern but are
// common words, mail headers, date abbreviations, or trading jargon.
// Filtering is part of the extraction contract; do not trim this set.
var stopList = map[string]struct{}{
	"THE": {}, "AND": {}, "OR": {}, "BUT": {}, "FOR": {}, "NOT": {}, "ARE": {}, "WAS": {}, "WE": {}, "YOU": {}, "ALL": {},
	"CAN": {}, "HER": {}, "ONE": {}, "OUR": {}, "OUT": {}, "DAY": {}, "GET": {}, "HAS": {}, "HIM": {},
	"HIS": {}, "HOW": {}, "MAN": {}, "NEW": {}, "NOW": {}, "OLD": {}, "SEE": {}, "TWO": {}, "WAY": {}, "WHO": {},
	"BOY": {}, "DID": {}, "ITS": {}, "LET": {}, "PUT": {}, "SAY": {}, "SHE": {}, "TOO": {}, "USE": {}, "FROM": {},
	"DATE": {}, "SUBJECT": {}, "REPLY": {}, "TO": {}, "EMAIL": {}, "VIEW": {}, "APP": {}, "LIKE": {}, "SHARE": {},
	"COMMENT": {}, "POST": {}, "SENT": {}, "BEGIN": {}, "MESSAGE": {}, "FORWARDED": {}, "DCA": {}, "WAVE": {},
	"FEB": {}, "JAN": {}, "MAR": {}, "APR": {}, "MAY": {}, "JUN": {}, "JUL": {}, "AUG": {}, "SEP": {}, "OCT": {},
	"NOV": {}, "DEC": {}, "THIS": {}, "HAVE": {}, "BEEN": {}, "ONCE": {}, "THAT": {}, "WITH": {}, "WILL": {},
	"MUST": {}, "JUST": {}, "BACK": {}, "THEN": {}, "NEXT": {}, "MORE": {}, "ALSO": {}, "HERE": {}, "VERY": {},
	"MA": {}, "WMA": {}, "PT": {}, "FIB": {}, "NYC": {}, "US": {}, "OK": {}, "SF": {}, "CA": {},
}

// commodities are scanned only when no dollar-tagged symbol survives
// filtering. Order matters: the first one mentioned early in the text wins.
var commodities = []string{"PALLADIUM", "GOLD", "SILVER", "PLATINUM", "COPPER", "OIL", "CRUDE"}

// commodityWindow bounds how deep into the text a commodity mention may sit
// to still count as the subject of the email.
const commodityWindow = 500

// ExtractSymbols finds candidate ticker symbols in raw alert text.
// Dollar-tagged tickers take priority; the commodity fallback yields at most
// one name. The result is deduplicated and sorted.
func ExtractSymbols(text string) []string {
	var symbols []string
	for _, m := range dollarSymbolRe.FindAllStringSubmatch(text, -1) {
		sym := m[1]
		if _, stopped := stopList[sym]; stopped {
			continue
		}
		symbols = append(symbols, sym)
	}

	if len(symbols) == 0 {
		upper := strings.ToUpper(text)
		for _, c := range commodities {
			if idx := strings.Index(upper, c); idx >= 0 && idx < commodityWindow {
				symbols = append(symbols, c)
				break
			}
		}
	}

	seen := make(map[string]struct{}, len(symbols))
	uniq := symbols[:0]
	for _, s := range symbols {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}
	sort.Strings(uniq)
	return uniq
}
