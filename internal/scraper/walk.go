package scraper

import (
	"golang.org/x/net/html"
)

// nodeFilter reports whether a node is of interest.
type nodeFilter func(*html.Node) bool

// previousElement returns the element that precedes n in document order: the
// deepest last descendant of the nearest previous sibling, or else the parent.
func previousElement(n *html.Node) *html.Node {
	for n != nil {
		if n.PrevSibling != nil {
			n = n.PrevSibling
			for n.LastChild != nil {
				n = n.LastChild
			}
		} else {
			n = n.Parent
		}
		if n != nil && n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

// precedingCandidate returns the first element before n in document order that
// passes candidate.
func precedingCandidate(n *html.Node, candidate nodeFilter) *html.Node {
	for n = previousElement(n); n != nil; n = previousElement(n) {
		if candidate(n) {
			return n
		}
	}
	return nil
}

// walkBack visits up to maxHops candidate elements preceding start, nearest first,
// and returns the first one accepted by match. It returns nil when the bound is
// exhausted or the document start is reached.
func walkBack(start *html.Node, maxHops int, candidate, match nodeFilter) *html.Node {
	n := start
	for hop := 0; hop < maxHops; hop++ {
		n = precedingCandidate(n, candidate)
		if n == nil {
			return nil
		}
		if match(n) {
			return n
		}
	}
	return nil
}

// isElement returns a filter accepting elements with the given tag name.
func isElement(tag string) nodeFilter {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}
