package agent

import "strings"

// Selector is the enumerated tag choosing which demonstration routine handles
// a message.
type Selector string

// The eleven demonstration selectors.
const (
	SelectorBasic         Selector = "basic"
	SelectorLoading       Selector = "loading"
	SelectorButtons       Selector = "buttons"
	SelectorMedia         Selector = "media"
	SelectorVariables     Selector = "variables"
	SelectorUsage         Selector = "usage"
	SelectorStorage       Selector = "storage"
	SelectorPatterns      Selector = "patterns"
	SelectorMiddleware    Selector = "middleware"
	SelectorErrors        Selector = "errors"
	SelectorComprehensive Selector = "comprehensive"
)

// keywordRoutes is checked in order; the first category whose keyword appears
// in the lowercased body wins. The ordering is a tie-break policy and must be
// preserved: earlier categories win when multiple keywords are present.
var keywordRoutes = []struct {
	selector Selector
	keywords []string
}{
	{SelectorBasic, []string{"basic"}},
	{SelectorLoading, []string{"loading"}},
	{SelectorButtons, []string{"button"}},
	{SelectorMedia, []string{"media", "image", "video"}},
	{SelectorVariables, []string{"variable", "memory"}},
	{SelectorUsage, []string{"usage", "tracking"}},
	{SelectorStorage, []string{"storage"}},
	{SelectorPatterns, []string{"pattern"}},
	{SelectorMiddleware, []string{"middleware"}},
	{SelectorErrors, []string{"error"}},
	{SelectorComprehensive, []string{"all", "comprehensive"}},
}

// SelectExample derives the demonstration selector from a message body. An
// empty or unmatched body yields SelectorComprehensive. It never fails and is
// stateless: equal inputs always produce equal selectors.
func SelectExample(text string) Selector {
	if text == "" {
		return SelectorComprehensive
	}
	lower := strings.ToLower(text)
	for _, route := range keywordRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(lower, kw) {
				return route.selector
			}
		}
	}
	return SelectorComprehensive
}
