package usecase

import "regexp"

// ExtractTickets returns the ticket codes (<prefix>-<digits>) referenced by a
// pull request. Matches in title take precedence: description is only
// scanned when title has none. Order of appearance and duplicates are kept.
//
// prefix is matched literally. No word boundary is applied, so "XPROJ-1"
// yields "PROJ-1" for prefix "PROJ".
func ExtractTickets(title, description, prefix string) []string {
	pattern := regexp.MustCompile("(" + regexp.QuoteMeta(prefix) + `-\d+)`)

	if tickets := pattern.FindAllString(title, -1); len(tickets) > 0 {
		return tickets
	}

	if tickets := pattern.FindAllString(description, -1); len(tickets) > 0 {
		return tickets
	}

	return []string{}
}
