package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"content-autopilot/parser"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Why platform teams drift into feature factories</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
<h1>Why platform teams drift into feature factories</h1>
<p>Platform teams are founded with a clear mandate: pave the roads the product
teams drive on. Within a year most of them are shipping bespoke features for
whichever internal customer shouts the loudest, and the paved roads quietly
crumble. The drift is rarely a staffing problem. It is an incentive problem
that starts the first time a platform roadmap is reviewed with the same
dashboard used for product roadmaps.</p>
<p>Product dashboards reward visible motion. A platform's best work is
invisible by definition: the migration nobody noticed, the deploy that got
thirty seconds faster, the incident that never happened. When the review
process cannot see that work, the team starts manufacturing work the process
can see, and that work is almost always a feature for a single internal
customer with an executive sponsor.</p>
<p>The fix is unglamorous. Measure adoption and time-to-productivity instead
of feature throughput, fund the platform like infrastructure instead of like a
product bet, and give the team a standing mandate to say no. Teams that get
those three things keep their roads paved. Teams that do not end up as a
feature factory with worse customers.</p>
</article>
</body>
</html>`

func TestParseArticle(t *testing.T) {
	article, err := parser.ParseArticle(articleHTML)
	assert.NoError(t, err)
	assert.NotNil(t, article)
	assert.Contains(t, article.PlainTextContent, "incentive problem")
	// navigation chrome should not survive extraction
	assert.NotContains(t, article.PlainTextContent, "About")
}

func TestParseArticleEmptyDocument(t *testing.T) {
	_, err := parser.ParseArticle("<html><body></body></html>")
	assert.Error(t, err)
}

func TestParseHtmlWithReadability(t *testing.T) {
	article, err := parser.ParseHtmlWithReadability(articleHTML)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(article.PlainTextContent, "paved roads"))
}
