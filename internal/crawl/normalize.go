package crawl

import (
	"strings"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"frontdesk/internal/errs"
	"frontdesk/internal/model"
)

// The crawl service emits different payload shapes depending on its
// response mode, and the field names inside a page entry drift between
// modes. Both alias lists are ordered by preference.
var (
	htmlAliases = []string{"rawHtml", "html"}
	textAliases = []string{"rawText", "markdown", "text"}

	// flat single-object fallback accepts a wider net of text keys
	flatTextAliases = []string{"rawText", "markdown", "text", "content"}
)

// candidate recognizes one known response shape. It reports ok only
// when the shape matched and produced non-empty content, so the next
// candidate gets a chance otherwise.
type candidate func(payload any) (*model.CrawlResult, bool)

var candidates = []candidate{
	fromDataPages,
	fromTopLevelFields,
	fromPageArray,
	fromFlatObject,
}

// Normalize reshapes a raw crawl-service payload into the canonical
// result. A structurally valid but content-empty response is an error:
// downstream extraction cannot proceed on nothing.
func Normalize(payload any) (*model.CrawlResult, error) {
	for _, extract := range candidates {
		if res, ok := extract(payload); ok {
			return res, nil
		}
	}
	return nil, errs.New(errs.CodeEmptyResult, "no extractable content in crawl response")
}

// fromDataPages handles the primary multi-page shape: {data: {pages: [...]}}.
func fromDataPages(payload any) (*model.CrawlResult, bool) {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	data, ok := root["data"].(map[string]any)
	if !ok {
		return nil, false
	}
	entries, ok := data["pages"].([]any)
	if !ok {
		return nil, false
	}
	return buildFromPages(entries, collectMeta(root, data))
}

// fromTopLevelFields handles the single-page shape with rawHtml/rawText
// at the top level and no pages array.
func fromTopLevelFields(payload any) (*model.CrawlResult, bool) {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	if _, hasPages := root["pages"]; hasPages {
		return nil, false
	}

	html := firstNonEmpty(root, htmlAliases)
	text := firstNonEmpty(root, textAliases)
	if text == "" && html != "" {
		text = htmlToText(html)
	}
	if html == "" && strings.TrimSpace(text) == "" {
		return nil, false
	}

	page := model.CrawlPage{
		URL:     asString(root["url"]),
		RawHTML: html,
		RawText: text,
	}
	meta := collectMeta(root, nil)
	finishMeta(meta, []model.CrawlPage{page})
	return &model.CrawlResult{
		RawHTML:  html,
		RawText:  text,
		Pages:    []model.CrawlPage{page},
		Metadata: meta,
	}, true
}

// fromPageArray handles the alternate multi-page shape where the
// payload (or its data field) is a bare array of page objects.
func fromPageArray(payload any) (*model.CrawlResult, bool) {
	if entries, ok := payload.([]any); ok {
		return buildFromPages(entries, map[string]any{})
	}
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	entries, ok := root["data"].([]any)
	if !ok {
		return nil, false
	}
	return buildFromPages(entries, collectMeta(root, nil))
}

// fromFlatObject is the final single-page fallback: any known content
// alias on the payload itself or on its data object.
func fromFlatObject(payload any) (*model.CrawlResult, bool) {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	source := root
	if data, ok := root["data"].(map[string]any); ok {
		source = data
	}

	html := firstNonEmpty(source, htmlAliases)
	text := firstNonEmpty(source, flatTextAliases)
	if text == "" && html != "" {
		text = htmlToText(html)
	}
	if html == "" && strings.TrimSpace(text) == "" {
		return nil, false
	}

	page := model.CrawlPage{
		URL:     asString(source["url"]),
		RawHTML: html,
		RawText: text,
	}
	meta := collectMeta(root, nil)
	finishMeta(meta, []model.CrawlPage{page})
	return &model.CrawlResult{
		RawHTML:  html,
		RawText:  text,
		Pages:    []model.CrawlPage{page},
		Metadata: meta,
	}, true
}

// buildFromPages maps raw page entries into canonical pages and joins
// their text. Insertion order is crawl order; the first page becomes
// the main page.
func buildFromPages(entries []any, meta map[string]any) (*model.CrawlResult, bool) {
	pages := make([]model.CrawlPage, 0, len(entries))
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		page := model.CrawlPage{
			URL:     asString(entry["url"]),
			RawHTML: firstNonEmpty(entry, htmlAliases),
			RawText: firstNonEmpty(entry, textAliases),
		}
		if page.URL == "" {
			page.URL = asString(entry["sourceURL"])
		}
		if page.RawText == "" && page.RawHTML != "" {
			page.RawText = htmlToText(page.RawHTML)
		}
		if pm, ok := entry["metadata"].(map[string]any); ok {
			page.Metadata = pm
		}
		pages = append(pages, page)
	}

	var texts []string
	for _, p := range pages {
		if strings.TrimSpace(p.RawText) != "" {
			texts = append(texts, p.RawText)
		}
	}
	combined := strings.Join(texts, model.PageSeparator)

	var mainHTML, mainText string
	if len(pages) > 0 {
		mainHTML = pages[0].RawHTML
		mainText = pages[0].RawText
	}
	if combined == "" {
		combined = mainText
	}

	if mainHTML == "" && strings.TrimSpace(combined) == "" {
		return nil, false
	}

	finishMeta(meta, pages)
	return &model.CrawlResult{
		RawHTML:  mainHTML,
		RawText:  combined,
		Pages:    pages,
		Metadata: meta,
	}, true
}

// collectMeta copies passthrough metadata from the payload without
// letting computed fields override what the service already provided.
func collectMeta(root, data map[string]any) map[string]any {
	meta := map[string]any{}
	for _, src := range []map[string]any{data, root} {
		if src == nil {
			continue
		}
		if m, ok := src["metadata"].(map[string]any); ok {
			for k, v := range m {
				if _, exists := meta[k]; !exists {
					meta[k] = v
				}
			}
		}
		for _, key := range []string{"stats", "crawlStats"} {
			if v, ok := src[key]; ok {
				if _, exists := meta["crawlStats"]; !exists {
					meta["crawlStats"] = v
				}
			}
		}
	}
	return meta
}

// finishMeta fills in page count and URL list unless the service
// already supplied them.
func finishMeta(meta map[string]any, pages []model.CrawlPage) {
	if _, ok := meta["totalPages"]; !ok {
		meta["totalPages"] = len(pages)
	}
	if _, ok := meta["urls"]; !ok {
		urls := make([]string, 0, len(pages))
		for _, p := range pages {
			if p.URL != "" {
				urls = append(urls, p.URL)
			}
		}
		meta["urls"] = urls
	}
}

func firstNonEmpty(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s := asString(m[k]); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// htmlToText derives readable text from HTML when the service returned
// no text alias: HTML-to-markdown first, plain node text as a fallback.
func htmlToText(html string) string {
	converter := htmlmd.NewConverter("", true, nil)
	if md, err := converter.ConvertString(html); err == nil && strings.TrimSpace(md) != "" {
		return md
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		return strings.TrimSpace(doc.Text())
	}
	return ""
}
