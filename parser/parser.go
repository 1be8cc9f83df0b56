package parser

import (
	"fmt"
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// ParsedArticle is the plain-text body of a rendered source page.
type ParsedArticle struct {
	PlainTextContent string
	TopImage         string
}

// ParseArticle extracts the article text, trying readability first and
// falling back to trafilatura, then GoOse. Source sites vary enough
// that no single extractor handles all of them.
func ParseArticle(htmlStr string) (*ParsedArticle, error) {
	if a, err := ParseHtmlWithReadability(htmlStr); err == nil && strings.TrimSpace(a.PlainTextContent) != "" {
		return a, nil
	}
	if a, err := ParseHtmlWithTrafilatura(htmlStr); err == nil && strings.TrimSpace(a.PlainTextContent) != "" {
		return a, nil
	}
	if a, err := ParseHtmlWithGoose(htmlStr); err == nil && strings.TrimSpace(a.PlainTextContent) != "" {
		return a, nil
	}
	return nil, fmt.Errorf("no extractor produced article text")
}

func ParseHtmlWithReadability(htmlStr string) (*ParsedArticle, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return nil, err
	}
	return &ParsedArticle{
		PlainTextContent: article.TextContent,
		TopImage:         article.Image,
	}, nil
}

func ParseHtmlWithTrafilatura(htmlStr string) (*ParsedArticle, error) {
	opts := trafilatura.Options{
		IncludeImages: true,
	}

	article, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return nil, err
	}

	return &ParsedArticle{
		PlainTextContent: article.ContentText,
		TopImage:         article.Metadata.Image,
	}, nil
}

func ParseHtmlWithGoose(htmlStr string) (*ParsedArticle, error) {
	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, "")
	if err != nil {
		return nil, err
	}
	return &ParsedArticle{
		PlainTextContent: article.CleanedText,
		TopImage:         article.TopImage,
	}, nil
}
