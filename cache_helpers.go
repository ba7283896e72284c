package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/parser"
	"karaoke-lyrics-go/stats"
	"karaoke-lyrics-go/utils"

	log "github.com/sirupsen/logrus"
)

var (
	errEmptyContent  = errors.New("content or contentBase64 is required")
	errBothContents  = errors.New("send either content or contentBase64, not both")
	errInvalidBase64 = errors.New("contentBase64 is not valid base64")
)

// parseError carries a parser failure to the handler so it can answer 422.
type parseError struct {
	failure parser.Failure
}

func (e *parseError) Error() string { return e.failure.Error() }

// requestContent returns the raw lyrics text from a request.
func requestContent(req ParseRequest) (string, error) {
	switch {
	case req.Content != "" && req.ContentBase64 != "":
		return "", errBothContents
	case req.ContentBase64 != "":
		content, err := parser.DecodeBase64Content(req.ContentBase64)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errInvalidBase64, err)
		}
		return content, nil
	case req.Content != "":
		return req.Content, nil
	}
	return "", errEmptyContent
}

// requestFormat resolves the format hint: an explicit name wins, then the
// filename extension, then content sniffing inside the parser.
func requestFormat(req ParseRequest, content string) parser.Format {
	if f := parser.ParseFormat(req.Format); f != parser.FormatUnknown {
		return f
	}
	if f, ok := parser.DetectFormatFromExtension(req.Filename); ok {
		if f == parser.FormatLRC && parser.DetectFormat(content) == parser.FormatEnhancedLRC {
			return parser.FormatEnhancedLRC
		}
		return f
	}
	return parser.FormatUnknown
}

func parseOptions(format parser.Format) parser.Options {
	return parser.Options{
		Format:           format,
		TailDurationMs:   conf.Configuration.LRCTailDurationMs,
		NormalizeCredits: conf.FeatureFlags.NormalizeCredits,
	}
}

// documentKey covers everything that changes the parse output.
func documentKey(content string, opts parser.Options) string {
	return utils.ContentKey("doc",
		content,
		opts.Format.String(),
		strconv.FormatInt(opts.TailDurationMs, 10),
		strconv.FormatBool(opts.NormalizeCredits),
	)
}

// parseDocument parses the request content, going through the document
// cache. The returned status is "HIT", "MISS" or "BYPASS" for the
// X-Cache-Status header.
func parseDocument(ctx context.Context, req ParseRequest) (lyrics.Document, parser.Format, string, error) {
	content, err := requestContent(req)
	if err != nil {
		return lyrics.Document{}, parser.FormatUnknown, "", err
	}
	opts := parseOptions(requestFormat(req, content))
	key := documentKey(content, opts)

	if doc, format, ok := getCachedDocument(ctx, key); ok {
		stats.Get().RecordCache(true)
		log.Debugf("%s Document hit for %s", logcolors.LogCacheDocuments, key)
		return doc, format, "HIT", nil
	}

	result := parser.ParseWithOptions(content, opts)
	switch r := result.(type) {
	case parser.Failure:
		stats.Get().RecordParse("", 0, 0, true)
		return lyrics.Document{}, r.Format, "", &parseError{failure: r}
	case parser.Success:
		stats.Get().RecordParse(r.Format.String(), len(r.Lines), len(r.Warnings), false)
		if documentCache == nil {
			return r.Document, r.Format, "BYPASS", nil
		}
		stats.Get().RecordCache(false)
		setCachedDocument(ctx, key, r.Document, r.Format)
		return r.Document, r.Format, "MISS", nil
	}
	return lyrics.Document{}, parser.FormatUnknown, "", fmt.Errorf("unexpected parse result %T", result)
}

func getCachedDocument(ctx context.Context, key string) (lyrics.Document, parser.Format, bool) {
	if documentCache == nil {
		return lyrics.Document{}, parser.FormatUnknown, false
	}
	raw, ok, err := documentCache.Get(ctx, key)
	if err != nil {
		log.Warnf("%s Read %s failed: %v", logcolors.LogCacheDocuments, key, err)
		return lyrics.Document{}, parser.FormatUnknown, false
	}
	if !ok {
		return lyrics.Document{}, parser.FormatUnknown, false
	}

	var cached cachedDocument
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		log.Warnf("%s Dropping undecodable entry %s: %v", logcolors.LogCacheDocuments, key, err)
		documentCache.Delete(ctx, key)
		return lyrics.Document{}, parser.FormatUnknown, false
	}
	return cached.Document, parser.ParseFormat(cached.Format), true
}

func setCachedDocument(ctx context.Context, key string, doc lyrics.Document, format parser.Format) {
	data, err := json.Marshal(cachedDocument{Format: format.String(), Document: doc})
	if err != nil {
		log.Errorf("%s Encode %s failed: %v", logcolors.LogCacheDocuments, key, err)
		return
	}
	if err := documentCache.Set(ctx, key, string(data)); err != nil {
		log.Errorf("%s Write %s failed: %v", logcolors.LogCacheDocuments, key, err)
	}
}

func toParseResponse(doc lyrics.Document, format parser.Format) ParseResponse {
	lines := doc.Lines
	if lines == nil {
		lines = []lyrics.Line{}
	}
	return ParseResponse{
		Format:     format.String(),
		Lines:      lines,
		Metadata:   doc.Metadata,
		Warnings:   doc.Warnings,
		LineCount:  len(lines),
		DurationMs: lyrics.TotalDuration(lines),
	}
}
