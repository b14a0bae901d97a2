// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crawler

import (
	"bytes"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/poiesic/recommendit/catalog"
	"github.com/poiesic/recommendit/core"
)

// productPathFragment marks anchors that point at a product detail page.
const productPathFragment = "/solutions/products/product-catalog/view/"

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minute|min|hour)s?`)

// parseProductLinks extracts product detail URLs from a catalog listing
// page, in document order, relative links resolved against base.
// Duplicates are dropped.
func parseProductLinks(base string, body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		if href == "" || !strings.Contains(href, productPathFragment) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := baseURL.ResolveReference(ref).String()
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})

	return links, nil
}

// parsePaginationLinks collects page URLs from a nav element whose class
// mentions pagination. The listing URL itself always comes first.
func parsePaginationLinks(base string, body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{base: true}
	pages := []string{base}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "nav" {
			return
		}
		if !strings.Contains(strings.ToLower(attr(n, "class")), "pagination") {
			return
		}
		walk(n, func(a *html.Node) {
			if a.Type != html.ElementNode || a.Data != "a" {
				return
			}
			href := attr(a, "href")
			if href == "" {
				return
			}
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			abs := baseURL.ResolveReference(ref).String()
			if !seen[abs] {
				seen[abs] = true
				pages = append(pages, abs)
			}
		})
	})

	return pages, nil
}

// parseProductDetail extracts one catalog item from a product detail
// page. Fields the page does not expose stay zero; the text blob is
// assembled from whatever was found.
func parseProductDetail(pageURL string, body []byte) (core.CatalogItem, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return core.CatalogItem{}, err
	}

	item := core.CatalogItem{
		Name:     "Unknown",
		URL:      pageURL,
		TestType: inferTestType(pageURL),
	}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		class := strings.ToLower(attr(n, "class"))
		switch n.Data {
		case "h1":
			if item.Name == "Unknown" {
				if name := nodeText(n); name != "" {
					item.Name = name
				}
			}
		case "div":
			if item.Category == "" && strings.Contains(class, "category") {
				item.Category = nodeText(n)
			}
		case "p":
			if item.Description == "" && strings.Contains(class, "description") {
				item.Description = nodeText(n)
			}
		case "span":
			if strings.Contains(class, "tag") {
				if tag := nodeText(n); tag != "" {
					item.Tags = append(item.Tags, tag)
				}
			}
		}
	})

	item.DurationMinutes = inferDuration(nodeText(doc))
	item.TextBlob = catalog.BuildTextBlob(&item)

	return item, nil
}

// inferDuration finds the first duration mention in the page text.
// Values up to 100 read as minutes, larger ones as hours.
func inferDuration(text string) *int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	val, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	if val > 100 {
		val *= 60
	}
	return &val
}

// inferTestType guesses the test type code from keywords in the URL.
func inferTestType(pageURL string) string {
	lower := strings.ToLower(pageURL)
	switch {
	case strings.Contains(lower, "personality") || strings.Contains(lower, "opq"):
		return "P"
	case strings.Contains(lower, "knowledge") || strings.Contains(lower, "skill"):
		return "K"
	case strings.Contains(lower, "cognitive"):
		return "C"
	}
	return ""
}

// walk runs fn over every node of the tree rooted at n, depth first.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText collects the visible text beneath n, whitespace collapsed.
// Script and style subtrees are skipped.
func nodeText(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style") {
			return
		}
		if c.Type == html.TextNode {
			parts = append(parts, strings.Fields(c.Data)...)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(parts, " ")
}
