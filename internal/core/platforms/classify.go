package platforms

import (
	"slices"
	"strconv"
	"strings"

	"github.com/namevetter/namevetter/internal/core"
)

// Generic applies the status rules shared by every platform.
func Generic(resp Response) (core.Verdict, string) {
	switch resp.StatusCode {
	case 404:
		return core.VerdictAvailable, "http_404"
	case 200:
		return core.VerdictTaken, "http_200"
	default:
		return core.VerdictUnknown, "http_" + strconv.Itoa(resp.StatusCode)
	}
}

// 404 wins over every platform rule.
func compile(rules []Rule) ClassifyFunc {
	if len(rules) == 0 {
		return Generic
	}
	return func(resp Response) (core.Verdict, string) {
		if resp.StatusCode == 404 {
			return Generic(resp)
		}
		for _, r := range rules {
			if r.matches(resp) {
				return r.Verdict, r.Method
			}
		}
		return Generic(resp)
	}
}

func (r Rule) matches(resp Response) bool {
	if !slices.Contains(r.Status, resp.StatusCode) {
		return false
	}
	if len(r.URLContains) > 0 && !containsAny(resp.FinalURL, r.URLContains) {
		return false
	}
	if len(r.BodyAny) == 0 && len(r.BodyAll) == 0 {
		return true
	}

	window := prefix(resp.Body, r.Window)
	if r.CaseInsensitive {
		window = strings.ToLower(window)
	}
	if len(r.BodyAny) > 0 && !containsAny(window, r.BodyAny) {
		return false
	}
	for _, needle := range r.BodyAll {
		if !strings.Contains(window, needle) {
			return false
		}
	}
	return true
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
