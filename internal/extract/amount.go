package extract

import (
	"strings"

	"github.com/sells-group/tokenomics-cli/internal/model"
)

// AmountSeparator joins the token and USD halves of a distribution amount.
const AmountSeparator = " ~ "

// SplitAmount splits "1,000 TOK ~ $500" into its token and USD parts. Only
// the first separator counts; anything after it belongs to the USD part.
// Without a separator the USD part is the sentinel.
func SplitAmount(s string) (tokens, usd string) {
	if s == model.NotAvailable {
		return model.NotAvailable, model.NotAvailable
	}
	before, after, found := strings.Cut(s, AmountSeparator)
	if !found {
		return model.OrNA(s), model.NotAvailable
	}
	return model.OrNA(before), model.OrNA(after)
}

func splitWords(s string) []string {
	return strings.Fields(s)
}
